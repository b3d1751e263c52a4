package meta

import "fmt"

// TypeParamDecl declares a type parameter of a generic declaration.
// Parameters are referenced positionally by TypeParam nodes; the name is
// informational only.
type TypeParamDecl struct {
	Name string
}

// Decl is a named, possibly generic type declaration. Declarations live in
// an indexed table and are referenced by id, which allows the type graph to
// contain cycles without owning pointers.
type Decl struct {
	ID         uint32
	Name       string
	TypeParams []TypeParamDecl
	Type       Type
}

// Endpoint describes one RPC endpoint: its identity, HTTP methods,
// streaming directions, optional request/response/handshake types, and the
// optional URL path template.
type Endpoint struct {
	ServiceName string
	Name        string

	HTTPMethods []string

	StreamingRequest  bool
	StreamingResponse bool

	// Request, Response and Handshake are nil when the endpoint declares
	// no type for that direction.
	Request   Type
	Response  Type
	Handshake Type

	Path *PathTemplate
}

// Streaming reports whether the endpoint streams in either direction.
func (e *Endpoint) Streaming() bool {
	return e.StreamingRequest || e.StreamingResponse
}

// Data is the immutable metadata document for one service: the declaration
// table plus the endpoints defined against it. It is loaded once and never
// mutated during schema construction.
type Data struct {
	Decls     []Decl
	Endpoints []Endpoint
}

// Decl returns the declaration with the given id. Ids are indexes into the
// declaration table; an out-of-range id is a metadata error.
func (d *Data) Decl(id uint32) (*Decl, error) {
	if int(id) >= len(d.Decls) {
		return nil, fmt.Errorf("declaration %d out of range (%d declarations): %w", id, len(d.Decls), ErrMalformedMetadata)
	}
	return &d.Decls[id], nil
}

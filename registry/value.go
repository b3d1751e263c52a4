// Package registry implements the schema registrar: a construction-phase
// Builder that interns structural values derived from resolved metadata
// types, and a frozen immutable Registry that materializes interned values
// into JSON-Schema documents. The Builder is exclusively owned while one
// service's endpoints are processed; Freeze yields a snapshot that is safe
// to read from many goroutines.
package registry

import "github.com/wirebind/wirebind/meta"

// Ref is a handle to an interned value. Refs returned by a Builder remain
// valid against the Registry produced by its Freeze call.
type Ref int

// ValueKind identifies the variant of an interned value.
type ValueKind int

const (
	ValueBasic ValueKind = iota
	ValueLiteral
	ValueStruct
	ValueMap
	ValueList
	ValueUnion
	ValueDeclRef
)

// Value is a structural schema value. It is sealed; only types in this
// package implement it.
type Value interface {
	ValueKind() ValueKind

	sealed()
}

type valueBase struct{}

func (valueBase) sealed() {}

// Basic is a primitive value schema.
type Basic struct {
	valueBase

	Builtin meta.BuiltinKind
}

// ValueKind returns ValueBasic.
func (*Basic) ValueKind() ValueKind { return ValueBasic }

// Literal is a single-value schema.
type Literal struct {
	valueBase

	Value meta.LiteralValue
}

// ValueKind returns ValueLiteral.
func (*Literal) ValueKind() ValueKind { return ValueLiteral }

// Field is one member of a struct value.
type Field struct {
	Value Value

	// Optional marks the field as omittable on the wire.
	Optional bool

	// NameOverride replaces the field name on the wire when non-empty.
	// Set for header and cookie placements with explicit names.
	NameOverride string

	// Validation is the field's validator tag expression, carried as
	// opaque metadata for downstream validators.
	Validation string

	// Doc is the field's documentation summary.
	Doc string
}

// WireName returns the on-the-wire name for the field given its schema
// name, honoring the override.
func (f Field) WireName(name string) string {
	if f.NameOverride != "" {
		return f.NameOverride
	}
	return name
}

// Struct is an object value schema keyed by field name.
type Struct struct {
	valueBase

	Fields map[string]Field
}

// NewStruct returns an empty struct value.
func NewStruct() *Struct {
	return &Struct{Fields: make(map[string]Field)}
}

// ValueKind returns ValueStruct.
func (*Struct) ValueKind() ValueKind { return ValueStruct }

// Map is a key-value mapping schema.
type Map struct {
	valueBase

	Key   Value
	Value Value
}

// ValueKind returns ValueMap.
func (*Map) ValueKind() ValueKind { return ValueMap }

// List is an ordered collection schema.
type List struct {
	valueBase

	Elem Value
}

// ValueKind returns ValueList.
func (*List) ValueKind() ValueKind { return ValueList }

// Union is a schema matching any of its member schemas.
type Union struct {
	valueBase

	Members []Value
}

// ValueKind returns ValueUnion.
func (*Union) ValueKind() ValueKind { return ValueUnion }

// DeclRef points at an interned declaration value by registry handle.
// It is how recursive declarations close their cycles.
type DeclRef struct {
	valueBase

	Ref Ref
}

// ValueKind returns ValueDeclRef.
func (*DeclRef) ValueKind() ValueKind { return ValueDeclRef }

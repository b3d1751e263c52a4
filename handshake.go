package wirebind

import (
	"fmt"

	"github.com/wirebind/wirebind/meta"
	"github.com/wirebind/wirebind/registry"
)

// HandshakeSchemaUnderConstruction is the handshake schema of a streaming
// endpoint, pending registry freeze.
type HandshakeSchemaUnderConstruction struct {
	// ParseData reports whether establishing the stream requires parsing
	// anything beyond the literal route: a declared handshake type or
	// path parameters.
	ParseData bool

	Schema SchemaUnderConstruction
}

// Build materializes the handshake schema against a frozen registry.
func (h HandshakeSchemaUnderConstruction) Build(reg *registry.Registry) (HandshakeSchema, error) {
	schema, err := h.Schema.Build(reg)
	if err != nil {
		return HandshakeSchema{}, err
	}
	return HandshakeSchema{ParseData: h.ParseData, Schema: schema}, nil
}

// HandshakeSchema is the materialized handshake schema.
type HandshakeSchema struct {
	ParseData bool
	Schema    Schema
}

// HandshakeEncoding computes the handshake encoding for an endpoint. Only
// streaming endpoints have one; for all others it returns nil. An endpoint
// without an explicit handshake type yields no field groups, only the path
// template and the ParseData flag.
func HandshakeEncoding(b *registry.Builder, md *meta.Data, ep *meta.Endpoint) (*HandshakeSchemaUnderConstruction, error) {
	if !ep.Streaming() {
		return nil, nil
	}

	rpcPath := ep.Path
	if rpcPath == nil {
		rpcPath = defaultPath(ep)
	}

	if ep.Handshake == nil {
		parseData := ep.Path != nil && ep.Path.HasParams()
		return &HandshakeSchemaUnderConstruction{
			ParseData: parseData,
			Schema:    SchemaUnderConstruction{rpcPath: rpcPath.Clone()},
		}, nil
	}

	config := EncodingConfig{
		Meta:           md,
		Builder:        b,
		DefaultLoc:     LocQuery,
		Path:           rpcPath,
		SupportsBody:   false,
		SupportsQuery:  true,
		SupportsHeader: true,
		SupportsPath:   true,
	}
	schema, err := config.Compute(ep.Handshake)
	if err != nil {
		return nil, fmt.Errorf("handshake encoding: %w", err)
	}

	return &HandshakeSchemaUnderConstruction{ParseData: true, Schema: schema}, nil
}

// defaultPath is the single-literal route "{service}.{endpoint}" used when
// an endpoint declares no path template.
func defaultPath(ep *meta.Endpoint) *meta.PathTemplate {
	return &meta.PathTemplate{
		Segments: []meta.PathSegment{{
			Type:      meta.SegmentLiteral,
			Value:     fmt.Sprintf("%s.%s", ep.ServiceName, ep.Name),
			ValueType: meta.ParamString,
		}},
	}
}

package wirebind

import (
	"fmt"

	"github.com/wirebind/wirebind/meta"
	"github.com/wirebind/wirebind/registry"
)

// EncodingConfig is the placement context the partitioner computes under:
// the declaration table, the registry builder to intern into, the default
// location for unannotated fields, the endpoint's path template, and which
// channels the surrounding protocol supports.
type EncodingConfig struct {
	Meta    *meta.Data
	Builder *registry.Builder

	// DefaultLoc places fields with no explicit wire spec. LocUnspecified
	// makes such fields an error.
	DefaultLoc DefaultLoc

	// Path is the endpoint's path template, if any. Fields named by its
	// non-literal segments are excluded from every group.
	Path *meta.PathTemplate

	SupportsBody   bool
	SupportsQuery  bool
	SupportsHeader bool
	SupportsPath   bool
}

// Compute resolves typ and partitions its fields by wire location. A
// non-struct resolved type produces an all-empty schema carrying only the
// path template; non-struct payloads have no field-level placement.
func (c *EncodingConfig) Compute(typ meta.Type) (SchemaUnderConstruction, error) {
	if typ == nil {
		return SchemaUnderConstruction{}, fmt.Errorf("type without type: %w", meta.ErrMalformedMetadata)
	}
	resolved, err := ResolveType(c.Meta, typ)
	if err != nil {
		return SchemaUnderConstruction{}, err
	}

	st, ok := resolved.(*meta.Struct)
	if !ok {
		return SchemaUnderConstruction{rpcPath: c.Path}, nil
	}

	pathFields, err := pathFieldNames(c.Path)
	if err != nil {
		return SchemaUnderConstruction{}, err
	}

	combined := registry.NewStruct()
	var body, query, header, cookie *registry.Struct

	for _, f := range st.Fields {
		// Path fields are described by the path template alone.
		if pathFields[f.Name] {
			continue
		}

		name, field, err := c.Builder.StructField(f)
		if err != nil {
			return SchemaUnderConstruction{}, err
		}
		combined.Fields[name] = field

		loc, err := c.fieldLoc(f)
		if err != nil {
			return SchemaUnderConstruction{}, err
		}

		var dst **registry.Struct
		switch loc.Kind {
		case WireBody:
			dst = &body
		case WireQuery:
			dst = &query
		case WireHeader:
			dst = &header
			field.NameOverride = loc.Name
		case WireCookie:
			dst = &cookie
			field.NameOverride = loc.Name
		default:
			return SchemaUnderConstruction{}, fmt.Errorf("field %q: unexpected wire location %v: %w", f.Name, loc.Kind, meta.ErrMalformedMetadata)
		}

		if *dst == nil {
			*dst = registry.NewStruct()
		}
		(*dst).Fields[name] = field
	}

	out := SchemaUnderConstruction{rpcPath: c.Path}
	out.combined = refOf(c.Builder.RegisterValue(combined))
	if body != nil {
		out.body = refOf(c.Builder.RegisterValue(body))
	}
	if query != nil {
		out.query = refOf(c.Builder.RegisterValue(query))
	}
	if header != nil {
		out.header = refOf(c.Builder.RegisterValue(header))
	}
	if cookie != nil {
		out.cookie = refOf(c.Builder.RegisterValue(cookie))
	}
	return out, nil
}

// fieldLoc resolves which wire location the field travels in.
func (c *EncodingConfig) fieldLoc(f meta.Field) (WireLoc, error) {
	if f.Wire == nil {
		if c.DefaultLoc == LocUnspecified {
			return WireLoc{}, fmt.Errorf("field %q: %w", f.Name, ErrMissingLocation)
		}
		return c.DefaultLoc.WireLoc(), nil
	}

	name := f.Wire.Name
	if name == "" {
		name = f.Name
	}
	switch f.Wire.Kind {
	case meta.WireSpecHeader:
		return WireLoc{Kind: WireHeader, Name: name}, nil
	case meta.WireSpecQuery:
		return WireLoc{Kind: WireQuery}, nil
	case meta.WireSpecCookie:
		return WireLoc{Kind: WireCookie, Name: name}, nil
	default:
		return WireLoc{}, fmt.Errorf("field %q: unknown wire spec %v: %w", f.Name, f.Wire.Kind, meta.ErrMalformedMetadata)
	}
}

// pathFieldNames collects the parameter names bound by a path template's
// non-literal segments.
func pathFieldNames(tmpl *meta.PathTemplate) (map[string]bool, error) {
	names := make(map[string]bool)
	if tmpl == nil {
		return names, nil
	}
	for _, seg := range tmpl.Segments {
		if !seg.Type.Valid() {
			return nil, fmt.Errorf("invalid path segment type %v: %w", seg.Type, meta.ErrMalformedMetadata)
		}
		if seg.Type != meta.SegmentLiteral {
			names[seg.Value] = true
		}
	}
	return names, nil
}

func refOf(r registry.Ref) *registry.Ref { return &r }

// SchemaUnderConstruction holds registry handles for the field groups of
// one schema, before the registry is frozen. It is consumed exactly once
// by Build.
type SchemaUnderConstruction struct {
	combined *registry.Ref
	body     *registry.Ref
	query    *registry.Ref
	header   *registry.Ref
	cookie   *registry.Ref
	rpcPath  *meta.PathTemplate
}

// Build materializes the construction handles against a frozen registry.
func (s SchemaUnderConstruction) Build(reg *registry.Registry) (Schema, error) {
	var out Schema
	if s.combined != nil {
		h := reg.Schema(*s.combined)
		out.Combined = &h
	}
	if s.body != nil {
		out.Body = &Body{Schema: reg.Schema(*s.body)}
	}
	if s.query != nil {
		out.Query = &Query{Schema: reg.Schema(*s.query)}
	}
	if s.header != nil {
		out.Header = &Header{Schema: reg.Schema(*s.header)}
	}
	if s.cookie != nil {
		out.Cookie = &Cookie{Schema: reg.Schema(*s.cookie)}
	}
	if s.rpcPath != nil {
		p, err := PathFromTemplate(s.rpcPath)
		if err != nil {
			return Schema{}, err
		}
		out.Path = p
	}
	return out, nil
}

// Schema is the materialized wire-placement contract for one payload:
// per-location field groups plus the combined superset view and the path
// descriptor. Schemas are immutable and safe for concurrent readers.
type Schema struct {
	// Combined contains every non-path field regardless of location. It
	// is a superset view and never wire-routed itself.
	Combined *registry.Schema

	Body   *Body
	Query  *Query
	Header *Header
	Cookie *Cookie
	Path   *Path
}

// Body is the group of fields travelling in the request or response body.
type Body struct {
	Schema registry.Schema
}

// Header is the group of fields travelling in HTTP headers.
type Header struct {
	Schema registry.Schema
}

// Names returns the field-name to header-name mapping, honoring explicit
// wire names.
func (h *Header) Names() map[string]string {
	return h.Schema.WireNames()
}

// Cookie is the group of fields travelling in cookies.
type Cookie struct {
	Schema registry.Schema
}

// Names returns the field-name to cookie-name mapping, honoring explicit
// wire names.
func (c *Cookie) Names() map[string]string {
	return c.Schema.WireNames()
}

package meta

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Decode parses a metadata document from its JSON form. Types are encoded
// as tagged objects discriminated by a "kind" property; see the rawType
// shadow struct for the accepted shape. Any missing required substructure
// or unknown discriminant fails with ErrMalformedMetadata.
func Decode(data []byte) (*Data, error) {
	var doc rawData
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode metadata: %v: %w", err, ErrMalformedMetadata)
	}

	out := &Data{}

	for i, rd := range doc.Decls {
		if rd.Type == nil {
			return nil, fmt.Errorf("declaration %q without type: %w", rd.Name, ErrMalformedMetadata)
		}
		typ, err := decodeType(rd.Type)
		if err != nil {
			return nil, fmt.Errorf("declaration %q: %w", rd.Name, err)
		}
		params := make([]TypeParamDecl, len(rd.TypeParams))
		for j, tp := range rd.TypeParams {
			params[j] = TypeParamDecl{Name: tp.Name}
		}
		out.Decls = append(out.Decls, Decl{
			ID:         uint32(i),
			Name:       rd.Name,
			TypeParams: params,
			Type:       typ,
		})
	}

	for _, re := range doc.Endpoints {
		ep, err := decodeEndpoint(re)
		if err != nil {
			return nil, fmt.Errorf("endpoint %s.%s: %w", re.Service, re.Name, err)
		}
		out.Endpoints = append(out.Endpoints, ep)
	}

	return out, nil
}

type rawData struct {
	Decls     []rawDecl     `json:"decls"`
	Endpoints []rawEndpoint `json:"endpoints"`
}

type rawDecl struct {
	Name       string          `json:"name"`
	TypeParams []rawTypeParam  `json:"type_params"`
	Type       json.RawMessage `json:"type"`
}

type rawTypeParam struct {
	Name string `json:"name"`
}

type rawEndpoint struct {
	Service           string          `json:"service"`
	Name              string          `json:"name"`
	HTTPMethods       []string        `json:"http_methods"`
	StreamingRequest  bool            `json:"streaming_request"`
	StreamingResponse bool            `json:"streaming_response"`
	Request           json.RawMessage `json:"request"`
	Response          json.RawMessage `json:"response"`
	Handshake         json.RawMessage `json:"handshake"`
	Path              *rawPath        `json:"path"`
}

type rawPath struct {
	Segments []rawSegment `json:"segments"`
}

type rawSegment struct {
	Type       string `json:"type"`
	Value      string `json:"value"`
	ValueType  string `json:"value_type"`
	Validation string `json:"validation"`
}

type rawType struct {
	Kind string `json:"kind"`

	// named
	Decl     uint32            `json:"decl"`
	TypeArgs []json.RawMessage `json:"type_args"`

	// struct
	Fields []rawField `json:"fields"`

	// map
	Key   json.RawMessage `json:"key"`
	Value json.RawMessage `json:"value"`

	// list
	Elem json.RawMessage `json:"elem"`

	// union
	Members []json.RawMessage `json:"members"`

	// builtin
	Builtin string `json:"builtin"`

	// literal; the JSON value class selects the literal kind
	Literal json.RawMessage `json:"value_literal"`

	// pointer
	Base json.RawMessage `json:"base"`

	// type_param
	Index int `json:"index"`
}

type rawField struct {
	Name       string          `json:"name"`
	Type       json.RawMessage `json:"type"`
	Optional   bool            `json:"optional"`
	Validation string          `json:"validation"`
	Doc        string          `json:"doc"`
	Wire       *rawWire        `json:"wire"`
}

type rawWire struct {
	Location string `json:"location"`
	Name     string `json:"name"`
}

func decodeEndpoint(re rawEndpoint) (Endpoint, error) {
	ep := Endpoint{
		ServiceName:       re.Service,
		Name:              re.Name,
		HTTPMethods:       re.HTTPMethods,
		StreamingRequest:  re.StreamingRequest,
		StreamingResponse: re.StreamingResponse,
	}

	var err error
	if ep.Request, err = decodeOptionalType(re.Request); err != nil {
		return ep, fmt.Errorf("request: %w", err)
	}
	if ep.Response, err = decodeOptionalType(re.Response); err != nil {
		return ep, fmt.Errorf("response: %w", err)
	}
	if ep.Handshake, err = decodeOptionalType(re.Handshake); err != nil {
		return ep, fmt.Errorf("handshake: %w", err)
	}

	if re.Path != nil {
		tmpl := &PathTemplate{}
		for _, rs := range re.Path.Segments {
			seg, err := decodeSegment(rs)
			if err != nil {
				return ep, err
			}
			tmpl.Segments = append(tmpl.Segments, seg)
		}
		ep.Path = tmpl
	}

	return ep, nil
}

var segmentTypeTokens = map[string]SegmentType{
	"literal":  SegmentLiteral,
	"param":    SegmentParam,
	"wildcard": SegmentWildcard,
	"fallback": SegmentFallback,
}

var paramTypeTokens = func() map[string]ParamType {
	m := make(map[string]ParamType, len(paramTypeNames))
	for t, s := range paramTypeNames {
		m[s] = t
	}
	return m
}()

func decodeSegment(rs rawSegment) (PathSegment, error) {
	st, ok := segmentTypeTokens[rs.Type]
	if !ok {
		return PathSegment{}, fmt.Errorf("path segment %q: unknown segment type %q: %w", rs.Value, rs.Type, ErrMalformedMetadata)
	}
	pt := ParamString
	if rs.ValueType != "" {
		if pt, ok = paramTypeTokens[rs.ValueType]; !ok {
			return PathSegment{}, fmt.Errorf("path segment %q: unknown value type %q: %w", rs.Value, rs.ValueType, ErrMalformedMetadata)
		}
	}
	return PathSegment{
		Type:       st,
		Value:      rs.Value,
		ValueType:  pt,
		Validation: rs.Validation,
	}, nil
}

func decodeOptionalType(raw json.RawMessage) (Type, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	return decodeType(raw)
}

var builtinTokens = func() map[string]BuiltinKind {
	m := make(map[string]BuiltinKind, len(builtinNames))
	for k, s := range builtinNames {
		m[s] = k
	}
	return m
}()

func decodeType(raw json.RawMessage) (Type, error) {
	var rt rawType
	if err := json.Unmarshal(raw, &rt); err != nil {
		return nil, fmt.Errorf("decode type: %v: %w", err, ErrMalformedMetadata)
	}

	switch rt.Kind {
	case "named":
		args := make([]Type, 0, len(rt.TypeArgs))
		for i, ra := range rt.TypeArgs {
			arg, err := decodeType(ra)
			if err != nil {
				return nil, fmt.Errorf("type argument %d: %w", i, err)
			}
			args = append(args, arg)
		}
		return &Named{Decl: rt.Decl, TypeArgs: args}, nil

	case "struct":
		fields := make([]Field, 0, len(rt.Fields))
		for _, rf := range rt.Fields {
			f, err := decodeField(rf)
			if err != nil {
				return nil, err
			}
			fields = append(fields, f)
		}
		return &Struct{Fields: fields}, nil

	case "map":
		if len(rt.Key) == 0 {
			return nil, fmt.Errorf("map without key: %w", ErrMalformedMetadata)
		}
		if len(rt.Value) == 0 {
			return nil, fmt.Errorf("map without value: %w", ErrMalformedMetadata)
		}
		key, err := decodeType(rt.Key)
		if err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		val, err := decodeType(rt.Value)
		if err != nil {
			return nil, fmt.Errorf("map value: %w", err)
		}
		return &Map{Key: key, Value: val}, nil

	case "list":
		if len(rt.Elem) == 0 {
			return nil, fmt.Errorf("list without element: %w", ErrMalformedMetadata)
		}
		elem, err := decodeType(rt.Elem)
		if err != nil {
			return nil, fmt.Errorf("list element: %w", err)
		}
		return &List{Elem: elem}, nil

	case "union":
		members := make([]Type, 0, len(rt.Members))
		for i, rm := range rt.Members {
			m, err := decodeType(rm)
			if err != nil {
				return nil, fmt.Errorf("union member %d: %w", i, err)
			}
			members = append(members, m)
		}
		return &Union{Members: members}, nil

	case "builtin":
		bk, ok := builtinTokens[rt.Builtin]
		if !ok {
			return nil, fmt.Errorf("unknown builtin %q: %w", rt.Builtin, ErrMalformedMetadata)
		}
		return &Builtin{Builtin: bk}, nil

	case "literal":
		lv, err := decodeLiteral(rt.Literal)
		if err != nil {
			return nil, err
		}
		return &Literal{Value: lv}, nil

	case "pointer":
		if len(rt.Base) == 0 {
			return nil, fmt.Errorf("pointer without base: %w", ErrMalformedMetadata)
		}
		base, err := decodeType(rt.Base)
		if err != nil {
			return nil, fmt.Errorf("pointer base: %w", err)
		}
		return &Pointer{Base: base}, nil

	case "type_param":
		return &TypeParam{Index: rt.Index}, nil

	case "config":
		return &Config{}, nil

	default:
		return nil, fmt.Errorf("unknown type kind %q: %w", rt.Kind, ErrMalformedMetadata)
	}
}

func decodeField(rf rawField) (Field, error) {
	if len(rf.Type) == 0 {
		return Field{}, fmt.Errorf("field %q without type: %w", rf.Name, ErrMalformedMetadata)
	}
	typ, err := decodeType(rf.Type)
	if err != nil {
		return Field{}, fmt.Errorf("field %q: %w", rf.Name, err)
	}

	f := Field{
		Name:       rf.Name,
		Type:       typ,
		Optional:   rf.Optional,
		Validation: rf.Validation,
		Doc:        rf.Doc,
	}

	if rf.Wire != nil {
		spec := &WireSpec{Name: rf.Wire.Name}
		switch rf.Wire.Location {
		case "header":
			spec.Kind = WireSpecHeader
		case "query":
			spec.Kind = WireSpecQuery
		case "cookie":
			spec.Kind = WireSpecCookie
		default:
			return Field{}, fmt.Errorf("field %q: unknown wire location %q: %w", rf.Name, rf.Wire.Location, ErrMalformedMetadata)
		}
		f.Wire = spec
	}

	return f, nil
}

// decodeLiteral reads a literal value, selecting the literal kind from the
// JSON value class. Integral numbers decode as LiteralInt, other numbers as
// LiteralFloat.
func decodeLiteral(raw json.RawMessage) (LiteralValue, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return LiteralValue{Kind: LiteralNull}, nil
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return LiteralValue{}, fmt.Errorf("decode literal: %v: %w", err, ErrMalformedMetadata)
	}

	switch val := v.(type) {
	case string:
		return LiteralValue{Kind: LiteralString, Str: val}, nil
	case bool:
		return LiteralValue{Kind: LiteralBool, Bool: val}, nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return LiteralValue{Kind: LiteralInt, Int: i}, nil
		}
		f, err := val.Float64()
		if err != nil {
			return LiteralValue{}, fmt.Errorf("literal number %q: %w", val.String(), ErrMalformedMetadata)
		}
		return LiteralValue{Kind: LiteralFloat, Float: f}, nil
	default:
		return LiteralValue{}, fmt.Errorf("literal must be a string, number, boolean or null: %w", ErrMalformedMetadata)
	}
}

package meta

import (
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	doc := `{
		"decls": [
			{
				"name": "Box",
				"type_params": [{"name": "T"}],
				"type": {
					"kind": "struct",
					"fields": [
						{"name": "value", "type": {"kind": "type_param", "index": 0}}
					]
				}
			},
			{
				"name": "User",
				"type": {
					"kind": "struct",
					"fields": [
						{"name": "id", "type": {"kind": "builtin", "builtin": "int"}},
						{"name": "tags", "type": {"kind": "list", "elem": {"kind": "builtin", "builtin": "string"}}, "optional": true},
						{"name": "auth", "type": {"kind": "builtin", "builtin": "string"}, "wire": {"location": "header", "name": "Authorization"}},
						{"name": "kind", "type": {"kind": "literal", "value_literal": "admin"}}
					]
				}
			}
		],
		"endpoints": [
			{
				"service": "users",
				"name": "Get",
				"http_methods": ["GET"],
				"request": {"kind": "named", "decl": 1},
				"response": {"kind": "named", "decl": 0, "type_args": [{"kind": "builtin", "builtin": "string"}]},
				"path": {
					"segments": [
						{"type": "literal", "value": "users"},
						{"type": "param", "value": "id", "value_type": "int", "validation": "min=1"}
					]
				}
			},
			{
				"service": "chat",
				"name": "Subscribe",
				"http_methods": ["GET"],
				"streaming_response": true
			}
		]
	}`

	md, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(md.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(md.Decls))
	}

	box := md.Decls[0]
	if box.ID != 0 || box.Name != "Box" {
		t.Errorf("unexpected first decl: %+v", box)
	}
	if len(box.TypeParams) != 1 || box.TypeParams[0].Name != "T" {
		t.Errorf("unexpected type params: %+v", box.TypeParams)
	}
	boxSt, ok := box.Type.(*Struct)
	if !ok {
		t.Fatalf("expected struct decl type, got %T", box.Type)
	}
	if tp, ok := boxSt.Fields[0].Type.(*TypeParam); !ok || tp.Index != 0 {
		t.Errorf("expected type_param field, got %#v", boxSt.Fields[0].Type)
	}

	user, ok := md.Decls[1].Type.(*Struct)
	if !ok {
		t.Fatalf("expected struct decl type, got %T", md.Decls[1].Type)
	}
	if len(user.Fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(user.Fields))
	}
	if user.Fields[0].Name != "id" || user.Fields[0].Optional {
		t.Errorf("unexpected id field: %+v", user.Fields[0])
	}
	if !user.Fields[1].Optional {
		t.Error("expected tags to be optional")
	}
	if _, ok := user.Fields[1].Type.(*List); !ok {
		t.Errorf("expected tags to be a list, got %T", user.Fields[1].Type)
	}
	auth := user.Fields[2]
	if auth.Wire == nil || auth.Wire.Kind != WireSpecHeader || auth.Wire.Name != "Authorization" {
		t.Errorf("unexpected wire spec: %+v", auth.Wire)
	}
	kind := user.Fields[3]
	lit, ok := kind.Type.(*Literal)
	if !ok {
		t.Fatalf("expected literal field type, got %T", kind.Type)
	}
	if lit.Value.Kind != LiteralString || lit.Value.Str != "admin" {
		t.Errorf("unexpected literal: %+v", lit.Value)
	}

	if len(md.Endpoints) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(md.Endpoints))
	}

	get := md.Endpoints[0]
	if get.ServiceName != "users" || get.Name != "Get" {
		t.Errorf("unexpected endpoint identity: %s.%s", get.ServiceName, get.Name)
	}
	if get.Streaming() {
		t.Error("expected non-streaming endpoint")
	}
	req, ok := get.Request.(*Named)
	if !ok || req.Decl != 1 {
		t.Errorf("unexpected request type: %#v", get.Request)
	}
	resp, ok := get.Response.(*Named)
	if !ok || resp.Decl != 0 || len(resp.TypeArgs) != 1 {
		t.Errorf("unexpected response type: %#v", get.Response)
	}
	if get.Path == nil || len(get.Path.Segments) != 2 {
		t.Fatalf("unexpected path: %+v", get.Path)
	}
	seg := get.Path.Segments[1]
	if seg.Type != SegmentParam || seg.Value != "id" || seg.ValueType != ParamInt || seg.Validation != "min=1" {
		t.Errorf("unexpected segment: %+v", seg)
	}

	sub := md.Endpoints[1]
	if !sub.Streaming() || sub.StreamingRequest {
		t.Error("expected a response-streaming endpoint")
	}
	if sub.Request != nil || sub.Response != nil || sub.Handshake != nil {
		t.Error("expected no payload types")
	}
	if sub.Path != nil {
		t.Error("expected no path")
	}
}

func TestDecode_Literals(t *testing.T) {
	tests := []struct {
		name string
		json string
		want LiteralValue
	}{
		{"string", `"on"`, LiteralValue{Kind: LiteralString, Str: "on"}},
		{"int", `42`, LiteralValue{Kind: LiteralInt, Int: 42}},
		{"float", `1.5`, LiteralValue{Kind: LiteralFloat, Float: 1.5}},
		{"bool", `true`, LiteralValue{Kind: LiteralBool, Bool: true}},
		{"null", `null`, LiteralValue{Kind: LiteralNull}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"decls": [{"name": "L", "type": {"kind": "literal", "value_literal": ` + tt.json + `}}]}`
			md, err := Decode([]byte(doc))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			lit, ok := md.Decls[0].Type.(*Literal)
			if !ok {
				t.Fatalf("expected literal, got %T", md.Decls[0].Type)
			}
			if lit.Value != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, lit.Value)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"invalid json", `{`},
		{"decl without type", `{"decls": [{"name": "X"}]}`},
		{"unknown kind", `{"decls": [{"name": "X", "type": {"kind": "tuple"}}]}`},
		{"unknown builtin", `{"decls": [{"name": "X", "type": {"kind": "builtin", "builtin": "complex128"}}]}`},
		{"map without key", `{"decls": [{"name": "X", "type": {"kind": "map", "value": {"kind": "builtin", "builtin": "int"}}}]}`},
		{"field without type", `{"decls": [{"name": "X", "type": {"kind": "struct", "fields": [{"name": "f"}]}}]}`},
		{"unknown wire location", `{"decls": [{"name": "X", "type": {"kind": "struct", "fields": [{"name": "f", "type": {"kind": "builtin", "builtin": "int"}, "wire": {"location": "trailer"}}]}}]}`},
		{"unknown segment type", `{"endpoints": [{"service": "s", "name": "e", "path": {"segments": [{"type": "prefix", "value": "x"}]}}]}`},
		{"unknown value type", `{"endpoints": [{"service": "s", "name": "e", "path": {"segments": [{"type": "param", "value": "x", "value_type": "decimal"}]}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			if !errors.Is(err, ErrMalformedMetadata) {
				t.Errorf("expected ErrMalformedMetadata, got %v", err)
			}
		})
	}
}

func TestData_Decl(t *testing.T) {
	md := &Data{Decls: []Decl{{ID: 0, Name: "A", Type: &Builtin{Builtin: BuiltinInt}}}}

	d, err := md.Decl(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name != "A" {
		t.Errorf("expected decl A, got %q", d.Name)
	}

	if _, err := md.Decl(5); !errors.Is(err, ErrMalformedMetadata) {
		t.Errorf("expected ErrMalformedMetadata for out-of-range id, got %v", err)
	}
}

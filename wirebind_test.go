package wirebind

import (
	"errors"
	"strings"
	"testing"

	"github.com/wirebind/wirebind/meta"
)

func TestComputeEndpoints(t *testing.T) {
	md := &meta.Data{
		Decls: []meta.Decl{
			{ID: 0, Name: "User", Type: &meta.Struct{Fields: []meta.Field{
				{Name: "id", Type: &meta.Builtin{Builtin: meta.BuiltinInt}},
				{Name: "name", Type: &meta.Builtin{Builtin: meta.BuiltinString}},
			}}},
		},
		Endpoints: []meta.Endpoint{
			{
				ServiceName: "users",
				Name:        "Get",
				HTTPMethods: []string{"GET"},
				Path: &meta.PathTemplate{Segments: []meta.PathSegment{
					{Type: meta.SegmentLiteral, Value: "users"},
					{Type: meta.SegmentParam, Value: "id", ValueType: meta.ParamInt},
				}},
				Request: &meta.Struct{Fields: []meta.Field{
					{Name: "id", Type: &meta.Builtin{Builtin: meta.BuiltinInt}},
					{Name: "expand", Type: &meta.Builtin{Builtin: meta.BuiltinBool}},
				}},
				Response: &meta.Named{Decl: 0},
			},
			{
				ServiceName:       "chat",
				Name:              "Subscribe",
				HTTPMethods:       []string{"GET"},
				StreamingResponse: true,
				Response:          &meta.Named{Decl: 0},
			},
		},
	}

	schemas, reg, err := ComputeEndpoints(md)
	if err != nil {
		t.Fatalf("compute endpoints: %v", err)
	}
	if len(schemas) != 2 {
		t.Fatalf("expected 2 endpoints, got %d", len(schemas))
	}
	if reg == nil || reg.Len() == 0 {
		t.Fatal("expected a populated registry")
	}

	get := schemas[0]
	if get.ServiceName != "users" || get.Name != "Get" {
		t.Errorf("unexpected identity: %s.%s", get.ServiceName, get.Name)
	}
	if get.Handshake != nil {
		t.Error("non-streaming endpoint should have no handshake")
	}
	if len(get.Request) != 1 {
		t.Fatalf("expected one request group, got %d", len(get.Request))
	}
	req := get.Request[0].Schema
	if req.Query == nil || !req.Query.Contains("expand") {
		t.Error("expected expand in the query group")
	}
	if req.Combined != nil && req.Combined.Contains("id") {
		t.Error("path-bound id must not appear in field groups")
	}
	if get.Response.Body == nil || !get.Response.Body.Schema.Contains("name") {
		t.Error("expected name in the response body")
	}

	sub := schemas[1]
	if sub.Handshake == nil {
		t.Fatal("streaming endpoint should have a handshake")
	}
	if sub.Handshake.ParseData {
		t.Error("handshake without a type or path params should not parse data")
	}
	if sub.Handshake.Schema.Path == nil || sub.Handshake.Schema.Path.String() != "/chat.Subscribe" {
		t.Errorf("expected default handshake path, got %v", sub.Handshake.Schema.Path)
	}
}

func TestComputeEndpoints_ErrorNamesEndpoint(t *testing.T) {
	md := &meta.Data{
		Endpoints: []meta.Endpoint{
			{
				ServiceName: "users",
				Name:        "Broken",
				HTTPMethods: []string{"NOPE"},
			},
		},
	}

	_, _, err := ComputeEndpoints(md)
	if !errors.Is(err, ErrInvalidMethod) {
		t.Fatalf("expected ErrInvalidMethod, got %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "users.Broken") {
		t.Errorf("expected the error to name the endpoint, got %q", got)
	}
}

package registry

import (
	"errors"
	"reflect"
	"testing"

	"github.com/wirebind/wirebind/meta"
)

func TestBuilder_StructField(t *testing.T) {
	b := NewBuilder(&meta.Data{})

	name, f, err := b.StructField(meta.Field{
		Name:       "age",
		Type:       &meta.Builtin{Builtin: meta.BuiltinInt},
		Optional:   true,
		Validation: "min=0",
		Doc:        "Age in years.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "age" {
		t.Errorf("expected name age, got %q", name)
	}
	basic, ok := f.Value.(*Basic)
	if !ok || basic.Builtin != meta.BuiltinInt {
		t.Errorf("expected int basic value, got %#v", f.Value)
	}
	if !f.Optional || f.Validation != "min=0" || f.Doc != "Age in years." {
		t.Errorf("field metadata not carried: %+v", f)
	}
}

func TestBuilder_StructFieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		field meta.Field
		want  error
	}{
		{
			name:  "missing type",
			field: meta.Field{Name: "x"},
			want:  meta.ErrMalformedMetadata,
		},
		{
			name:  "unresolved type param",
			field: meta.Field{Name: "x", Type: &meta.TypeParam{Index: 0}},
			want:  meta.ErrMalformedMetadata,
		},
		{
			name:  "config value",
			field: meta.Field{Name: "x", Type: &meta.Config{}},
			want:  meta.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(&meta.Data{})
			_, _, err := b.StructField(tt.field)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBuilder_PointerUnwrapsToBase(t *testing.T) {
	b := NewBuilder(&meta.Data{})

	_, f, err := b.StructField(meta.Field{
		Name: "score",
		Type: &meta.Pointer{Base: &meta.Builtin{Builtin: meta.BuiltinFloat64}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	basic, ok := f.Value.(*Basic)
	if !ok || basic.Builtin != meta.BuiltinFloat64 {
		t.Errorf("expected float64 basic value, got %#v", f.Value)
	}
}

func TestBuilder_CyclicDecl(t *testing.T) {
	// Node = struct { next: Node }
	md := &meta.Data{Decls: []meta.Decl{
		{ID: 0, Name: "Node", Type: &meta.Struct{Fields: []meta.Field{
			{Name: "next", Type: &meta.Named{Decl: 0}, Optional: true},
		}}},
	}}
	b := NewBuilder(md)

	_, f, err := b.StructField(meta.Field{
		Name: "root",
		Type: &meta.Named{Decl: 0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dr, ok := f.Value.(*DeclRef)
	if !ok {
		t.Fatalf("expected decl ref, got %#v", f.Value)
	}

	reg := b.Freeze()
	node, ok := reg.Value(dr.Ref).(*Struct)
	if !ok {
		t.Fatalf("expected struct behind decl ref, got %T", reg.Value(dr.Ref))
	}
	next, ok := node.Fields["next"].Value.(*DeclRef)
	if !ok {
		t.Fatalf("expected self-reference, got %#v", node.Fields["next"].Value)
	}
	if next.Ref != dr.Ref {
		t.Errorf("expected the cycle to close on the same ref, got %d and %d", next.Ref, dr.Ref)
	}
}

func TestBuilder_RecursiveGenericDecl(t *testing.T) {
	// Tree[T] = struct { value: T, next: Tree[T] }
	md := &meta.Data{Decls: []meta.Decl{
		{ID: 0, Name: "Tree", TypeParams: []meta.TypeParamDecl{{Name: "T"}},
			Type: &meta.Struct{Fields: []meta.Field{
				{Name: "value", Type: &meta.TypeParam{Index: 0}},
				{Name: "next", Type: &meta.Named{Decl: 0, TypeArgs: []meta.Type{&meta.TypeParam{Index: 0}}}, Optional: true},
			}}},
	}}
	b := NewBuilder(md)

	_, f, err := b.StructField(meta.Field{
		Name: "root",
		Type: &meta.Named{Decl: 0, TypeArgs: []meta.Type{&meta.Builtin{Builtin: meta.BuiltinString}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dr, ok := f.Value.(*DeclRef)
	if !ok {
		t.Fatalf("expected decl ref, got %#v", f.Value)
	}

	reg := b.Freeze()
	tree, ok := reg.Value(dr.Ref).(*Struct)
	if !ok {
		t.Fatalf("expected struct behind decl ref, got %T", reg.Value(dr.Ref))
	}
	val, ok := tree.Fields["value"].Value.(*Basic)
	if !ok || val.Builtin != meta.BuiltinString {
		t.Errorf("expected the type argument to substitute into value, got %#v", tree.Fields["value"].Value)
	}
	next, ok := tree.Fields["next"].Value.(*DeclRef)
	if !ok {
		t.Fatalf("expected self-reference, got %#v", tree.Fields["next"].Value)
	}
	if next.Ref != dr.Ref {
		t.Errorf("expected the instantiation to close its own cycle, got refs %d and %d", next.Ref, dr.Ref)
	}
}

func TestBuilder_GenericInstantiationsDistinct(t *testing.T) {
	// Box[T] = struct { value: T }
	md := &meta.Data{Decls: []meta.Decl{
		{ID: 0, Name: "Box", TypeParams: []meta.TypeParamDecl{{Name: "T"}},
			Type: &meta.Struct{Fields: []meta.Field{
				{Name: "value", Type: &meta.TypeParam{Index: 0}},
			}}},
	}}
	b := NewBuilder(md)

	_, fs, err := b.StructField(meta.Field{
		Name: "a",
		Type: &meta.Named{Decl: 0, TypeArgs: []meta.Type{&meta.Builtin{Builtin: meta.BuiltinString}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, fi, err := b.StructField(meta.Field{
		Name: "b",
		Type: &meta.Named{Decl: 0, TypeArgs: []meta.Type{&meta.Builtin{Builtin: meta.BuiltinInt}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, fs2, err := b.StructField(meta.Field{
		Name: "c",
		Type: &meta.Named{Decl: 0, TypeArgs: []meta.Type{&meta.Builtin{Builtin: meta.BuiltinString}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rs := fs.Value.(*DeclRef).Ref
	ri := fi.Value.(*DeclRef).Ref
	rs2 := fs2.Value.(*DeclRef).Ref
	if rs == ri {
		t.Errorf("expected distinct refs per instantiation, got %d for both", rs)
	}
	if rs != rs2 {
		t.Errorf("expected the same instantiation to intern once, got refs %d and %d", rs, rs2)
	}

	reg := b.Freeze()
	boxInt := reg.Value(ri).(*Struct)
	if v, ok := boxInt.Fields["value"].Value.(*Basic); !ok || v.Builtin != meta.BuiltinInt {
		t.Errorf("expected int instantiation body, got %#v", boxInt.Fields["value"].Value)
	}
}

func TestBuilder_SharedDeclInternedOnce(t *testing.T) {
	md := &meta.Data{Decls: []meta.Decl{
		{ID: 0, Name: "User", Type: &meta.Struct{Fields: []meta.Field{
			{Name: "id", Type: &meta.Builtin{Builtin: meta.BuiltinInt}},
		}}},
	}}
	b := NewBuilder(md)

	_, f1, err := b.StructField(meta.Field{Name: "a", Type: &meta.Named{Decl: 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, f2, err := b.StructField(meta.Field{Name: "b", Type: &meta.Named{Decl: 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r1 := f1.Value.(*DeclRef).Ref
	r2 := f2.Value.(*DeclRef).Ref
	if r1 != r2 {
		t.Errorf("expected the declaration to intern once, got refs %d and %d", r1, r2)
	}
}

func TestBuilder_PanicsAfterFreeze(t *testing.T) {
	b := NewBuilder(&meta.Data{})
	b.RegisterValue(&Basic{Builtin: meta.BuiltinInt})
	b.Freeze()

	defer func() {
		if recover() == nil {
			t.Error("expected a panic on use after Freeze")
		}
	}()
	b.RegisterValue(&Basic{Builtin: meta.BuiltinBool})
}

func TestRegistry_Schema(t *testing.T) {
	b := NewBuilder(&meta.Data{})
	st := NewStruct()
	st.Fields["name"] = Field{Value: &Basic{Builtin: meta.BuiltinString}}
	st.Fields["auth"] = Field{Value: &Basic{Builtin: meta.BuiltinString}, NameOverride: "X-Auth"}
	ref := b.RegisterValue(st)
	reg := b.Freeze()

	s := reg.Schema(ref)
	if s.Ref() != ref {
		t.Errorf("expected ref %d, got %d", ref, s.Ref())
	}
	if !s.Contains("name") || s.Contains("missing") {
		t.Error("unexpected Contains results")
	}
	if got := s.Len(); got != 2 {
		t.Errorf("expected 2 fields, got %d", got)
	}
	if got, want := s.FieldNames(), []string{"auth", "name"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	wire := s.WireNames()
	if wire["auth"] != "X-Auth" || wire["name"] != "name" {
		t.Errorf("unexpected wire names: %v", wire)
	}
}

func TestRegistry_SchemaChasesDeclRefs(t *testing.T) {
	md := &meta.Data{Decls: []meta.Decl{
		{ID: 0, Name: "User", Type: &meta.Struct{Fields: []meta.Field{
			{Name: "id", Type: &meta.Builtin{Builtin: meta.BuiltinInt}},
		}}},
	}}
	b := NewBuilder(md)
	_, f, err := b.StructField(meta.Field{Name: "u", Type: &meta.Named{Decl: 0}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ref := b.RegisterValue(f.Value)
	reg := b.Freeze()

	s := reg.Schema(ref)
	if _, ok := s.Struct(); !ok {
		t.Error("expected the handle to chase through the decl ref to the struct")
	}
	if !s.Contains("id") {
		t.Error("expected id to be visible through the decl ref")
	}
}

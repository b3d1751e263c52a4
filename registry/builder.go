package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wirebind/wirebind/meta"
)

// Builder accumulates interned values during schema construction. It is
// exclusively owned by one construction run and must not be shared across
// goroutines. Freeze consumes it; any mutation afterwards panics.
type Builder struct {
	meta   *meta.Data
	values []Value
	names  map[Ref]string
	taken  map[string]bool
	decls  map[string]Ref
	frozen bool
}

// NewBuilder returns a Builder interning against the given declaration
// table.
func NewBuilder(md *meta.Data) *Builder {
	return &Builder{
		meta:  md,
		names: make(map[Ref]string),
		taken: make(map[string]bool),
		decls: make(map[string]Ref),
	}
}

// RegisterValue interns a value and returns its handle.
func (b *Builder) RegisterValue(v Value) Ref {
	b.mustMutable()
	b.values = append(b.values, v)
	return Ref(len(b.values) - 1)
}

// StructField converts a resolved metadata field into its schema name and
// interned field value.
func (b *Builder) StructField(f meta.Field) (string, Field, error) {
	b.mustMutable()
	if f.Type == nil {
		return "", Field{}, fmt.Errorf("field %q without type: %w", f.Name, meta.ErrMalformedMetadata)
	}
	v, err := b.value(f.Type, nil)
	if err != nil {
		return "", Field{}, fmt.Errorf("field %q: %w", f.Name, err)
	}
	return f.Name, Field{
		Value:      v,
		Optional:   f.Optional,
		Validation: f.Validation,
		Doc:        f.Doc,
	}, nil
}

// value converts a resolved metadata type into a structural value. bind is
// the binding context of the enclosing generic instantiation: concrete type
// arguments substituted for positional type parameters. Named references
// are interned through the declaration table, one entry per instantiation.
func (b *Builder) value(t meta.Type, bind []meta.Type) (Value, error) {
	switch t := t.(type) {
	case *meta.Builtin:
		return &Basic{Builtin: t.Builtin}, nil

	case *meta.Literal:
		return &Literal{Value: t.Value}, nil

	case *meta.Struct:
		st := NewStruct()
		for _, f := range t.Fields {
			if f.Type == nil {
				return nil, fmt.Errorf("field %q without type: %w", f.Name, meta.ErrMalformedMetadata)
			}
			v, err := b.value(f.Type, bind)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			st.Fields[f.Name] = Field{
				Value:      v,
				Optional:   f.Optional,
				Validation: f.Validation,
				Doc:        f.Doc,
			}
		}
		return st, nil

	case *meta.Map:
		if t.Key == nil {
			return nil, fmt.Errorf("map without key: %w", meta.ErrMalformedMetadata)
		}
		if t.Value == nil {
			return nil, fmt.Errorf("map without value: %w", meta.ErrMalformedMetadata)
		}
		key, err := b.value(t.Key, bind)
		if err != nil {
			return nil, err
		}
		val, err := b.value(t.Value, bind)
		if err != nil {
			return nil, err
		}
		return &Map{Key: key, Value: val}, nil

	case *meta.List:
		if t.Elem == nil {
			return nil, fmt.Errorf("list without element: %w", meta.ErrMalformedMetadata)
		}
		elem, err := b.value(t.Elem, bind)
		if err != nil {
			return nil, err
		}
		return &List{Elem: elem}, nil

	case *meta.Union:
		members := make([]Value, 0, len(t.Members))
		for _, m := range t.Members {
			if m == nil {
				return nil, fmt.Errorf("union member without type: %w", meta.ErrMalformedMetadata)
			}
			v, err := b.value(m, bind)
			if err != nil {
				return nil, err
			}
			members = append(members, v)
		}
		return &Union{Members: members}, nil

	case *meta.Pointer:
		if t.Base == nil {
			return nil, fmt.Errorf("pointer without base: %w", meta.ErrMalformedMetadata)
		}
		return b.value(t.Base, bind)

	case *meta.Named:
		args := make([]meta.Type, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			if a == nil {
				return nil, fmt.Errorf("type argument %d without type: %w", i, meta.ErrMalformedMetadata)
			}
			s, err := substitute(a, bind)
			if err != nil {
				return nil, err
			}
			args[i] = s
		}
		ref, err := b.declRef(t.Decl, args)
		if err != nil {
			return nil, err
		}
		return &DeclRef{Ref: ref}, nil

	case *meta.TypeParam:
		if t.Index < 0 || t.Index >= len(bind) {
			return nil, fmt.Errorf("unresolved type parameter %d: %w", t.Index, meta.ErrMalformedMetadata)
		}
		return b.value(bind[t.Index], nil)

	case *meta.Config:
		return nil, fmt.Errorf("config values cannot be registered: %w", meta.ErrUnsupportedType)

	case nil:
		return nil, fmt.Errorf("type without type: %w", meta.ErrMalformedMetadata)

	default:
		return nil, fmt.Errorf("unknown type kind %v: %w", t.Kind(), meta.ErrMalformedMetadata)
	}
}

// declRef interns one instantiation of a declaration, reserving its handle
// before converting the body so self-referential declarations resolve to a
// stable ref instead of recursing forever. args must be concrete; the body
// is interned with them bound to its type parameters.
func (b *Builder) declRef(id uint32, args []meta.Type) (Ref, error) {
	key := instKey(id, args)
	if ref, ok := b.decls[key]; ok {
		return ref, nil
	}

	decl, err := b.meta.Decl(id)
	if err != nil {
		return 0, err
	}
	if decl.Type == nil {
		return 0, fmt.Errorf("declaration %q without type: %w", decl.Name, meta.ErrMalformedMetadata)
	}

	// Reserve the slot first; the body may reference it.
	ref := b.RegisterValue(nil)
	b.decls[key] = ref
	if !b.taken[decl.Name] {
		b.taken[decl.Name] = true
		b.names[ref] = decl.Name
	}

	v, err := b.value(decl.Type, args)
	if err != nil {
		return 0, fmt.Errorf("declaration %q: %w", decl.Name, err)
	}
	b.values[ref] = v
	return ref, nil
}

// substitute replaces type parameters in t with the binding context's
// arguments. The result is free of TypeParam nodes when bind covers every
// index that occurs.
func substitute(t meta.Type, bind []meta.Type) (meta.Type, error) {
	switch t := t.(type) {
	case *meta.TypeParam:
		if t.Index < 0 || t.Index >= len(bind) {
			return nil, fmt.Errorf("unresolved type parameter %d: %w", t.Index, meta.ErrMalformedMetadata)
		}
		return bind[t.Index], nil

	case *meta.Named:
		if len(t.TypeArgs) == 0 {
			return t, nil
		}
		args := make([]meta.Type, len(t.TypeArgs))
		for i, a := range t.TypeArgs {
			s, err := substitute(a, bind)
			if err != nil {
				return nil, err
			}
			args[i] = s
		}
		return &meta.Named{Decl: t.Decl, TypeArgs: args}, nil

	case *meta.Struct:
		fields := make([]meta.Field, len(t.Fields))
		for i, f := range t.Fields {
			s, err := substitute(f.Type, bind)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			nf := f
			nf.Type = s
			fields[i] = nf
		}
		return &meta.Struct{Fields: fields}, nil

	case *meta.Map:
		key, err := substitute(t.Key, bind)
		if err != nil {
			return nil, err
		}
		val, err := substitute(t.Value, bind)
		if err != nil {
			return nil, err
		}
		return &meta.Map{Key: key, Value: val}, nil

	case *meta.List:
		elem, err := substitute(t.Elem, bind)
		if err != nil {
			return nil, err
		}
		return &meta.List{Elem: elem}, nil

	case *meta.Union:
		members := make([]meta.Type, len(t.Members))
		for i, m := range t.Members {
			s, err := substitute(m, bind)
			if err != nil {
				return nil, err
			}
			members[i] = s
		}
		return &meta.Union{Members: members}, nil

	case *meta.Pointer:
		base, err := substitute(t.Base, bind)
		if err != nil {
			return nil, err
		}
		return &meta.Pointer{Base: base}, nil

	default:
		return t, nil
	}
}

// instKey is the interning key for one instantiation of a declaration: the
// declaration id plus a canonical fingerprint of its type arguments.
func instKey(id uint32, args []meta.Type) string {
	if len(args) == 0 {
		return strconv.FormatUint(uint64(id), 10)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d[", id)
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeTypeKey(&sb, a)
	}
	sb.WriteByte(']')
	return sb.String()
}

func writeTypeKey(sb *strings.Builder, t meta.Type) {
	switch t := t.(type) {
	case *meta.Builtin:
		sb.WriteString(t.Builtin.String())
	case *meta.Literal:
		fmt.Fprintf(sb, "lit%d(%v)", t.Value.Kind, t.Value.Interface())
	case *meta.Named:
		fmt.Fprintf(sb, "decl%d", t.Decl)
		if len(t.TypeArgs) > 0 {
			sb.WriteByte('[')
			for i, a := range t.TypeArgs {
				if i > 0 {
					sb.WriteByte(',')
				}
				writeTypeKey(sb, a)
			}
			sb.WriteByte(']')
		}
	case *meta.Struct:
		sb.WriteString("struct{")
		for i, f := range t.Fields {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(f.Name)
			sb.WriteByte(':')
			writeTypeKey(sb, f.Type)
		}
		sb.WriteByte('}')
	case *meta.Map:
		sb.WriteString("map[")
		writeTypeKey(sb, t.Key)
		sb.WriteByte(']')
		writeTypeKey(sb, t.Value)
	case *meta.List:
		sb.WriteString("[]")
		writeTypeKey(sb, t.Elem)
	case *meta.Union:
		sb.WriteString("union(")
		for i, m := range t.Members {
			if i > 0 {
				sb.WriteByte('|')
			}
			writeTypeKey(sb, m)
		}
		sb.WriteByte(')')
	case *meta.Pointer:
		sb.WriteByte('*')
		writeTypeKey(sb, t.Base)
	case *meta.TypeParam:
		fmt.Fprintf(sb, "tp%d", t.Index)
	case *meta.Config:
		sb.WriteString("config")
	default:
		sb.WriteString("?")
	}
}

// Freeze finalizes the builder into an immutable registry snapshot. The
// builder must not be used afterwards.
func (b *Builder) Freeze() *Registry {
	b.mustMutable()
	b.frozen = true

	values := make([]Value, len(b.values))
	copy(values, b.values)
	names := make(map[Ref]string, len(b.names))
	for r, n := range b.names {
		names[r] = n
	}
	return &Registry{values: values, names: names}
}

func (b *Builder) mustMutable() {
	if b.frozen {
		panic("registry: builder used after Freeze")
	}
}

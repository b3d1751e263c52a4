package wirebind

import (
	"fmt"

	"github.com/wirebind/wirebind/meta"
)

// ResolveType monomorphizes a metadata type against the declaration table:
// named references are expanded to their declared bodies with type
// arguments substituted for type parameters. A declaration already being
// expanded on the current resolution stack is returned unexpanded, which
// bounds recursion on cyclic declaration graphs.
func ResolveType(md *meta.Data, t meta.Type) (meta.Type, error) {
	r := typeArgResolver{meta: md}
	resolved, _, err := r.resolve(t)
	return resolved, err
}

// typeArgResolver carries one generic instantiation's binding context plus
// the stack of declaration ids currently being expanded. Each nested
// instantiation constructs its own resolver; nothing is shared or mutated
// across recursive calls.
type typeArgResolver struct {
	meta *meta.Data

	// resolvedArgs is the binding context: resolved type arguments of the
	// enclosing generic instantiation, indexed by type parameter position.
	resolvedArgs []meta.Type

	// decls is the stack of declaration ids being expanded, used to
	// detect cycles.
	decls []uint32
}

// resolve returns the resolved type and whether it differs structurally
// from the input. Unchanged subtrees are returned as-is so containers above
// them can be reused instead of copied.
func (r *typeArgResolver) resolve(t meta.Type) (meta.Type, bool, error) {
	switch t := t.(type) {
	case *meta.Named:
		for _, id := range r.decls {
			if id == t.Decl {
				// Cycle; leave the reference unexpanded, but pin its
				// arguments to the current binding context so the
				// reference stays meaningful outside it.
				if len(t.TypeArgs) == 0 {
					return t, false, nil
				}
				args, changed, err := r.resolveTypes(t.TypeArgs)
				if err != nil {
					return nil, false, err
				}
				if !changed {
					return t, false, nil
				}
				return &meta.Named{Decl: t.Decl, TypeArgs: args}, true, nil
			}
		}

		decl, err := r.meta.Decl(t.Decl)
		if err != nil {
			return nil, false, err
		}
		if decl.Type == nil {
			return nil, false, fmt.Errorf("declaration %q without type: %w", decl.Name, meta.ErrMalformedMetadata)
		}

		// Arguments resolve in the caller's binding context; the
		// declaration body resolves in the context they form.
		args, _, err := r.resolveTypes(t.TypeArgs)
		if err != nil {
			return nil, false, err
		}

		nested := typeArgResolver{
			meta:         r.meta,
			resolvedArgs: args,
			decls:        append(append([]uint32(nil), r.decls...), t.Decl),
		}
		resolved, _, err := nested.resolve(decl.Type)
		if err != nil {
			return nil, false, fmt.Errorf("declaration %q: %w", decl.Name, err)
		}
		return resolved, true, nil

	case *meta.Struct:
		resolved := make([]meta.Type, len(t.Fields))
		changed := false
		for i, f := range t.Fields {
			if f.Type == nil {
				return nil, false, fmt.Errorf("field %q without type: %w", f.Name, meta.ErrMalformedMetadata)
			}
			ft, c, err := r.resolve(f.Type)
			if err != nil {
				return nil, false, fmt.Errorf("field %q: %w", f.Name, err)
			}
			resolved[i] = ft
			changed = changed || c
		}
		if !changed {
			return t, false, nil
		}
		fields := make([]meta.Field, len(t.Fields))
		for i, f := range t.Fields {
			nf := f
			nf.Type = resolved[i]
			fields[i] = nf
		}
		return &meta.Struct{Fields: fields}, true, nil

	case *meta.Map:
		if t.Key == nil {
			return nil, false, fmt.Errorf("map without key: %w", meta.ErrMalformedMetadata)
		}
		if t.Value == nil {
			return nil, false, fmt.Errorf("map without value: %w", meta.ErrMalformedMetadata)
		}
		key, kc, err := r.resolve(t.Key)
		if err != nil {
			return nil, false, err
		}
		val, vc, err := r.resolve(t.Value)
		if err != nil {
			return nil, false, err
		}
		if !kc && !vc {
			return t, false, nil
		}
		return &meta.Map{Key: key, Value: val}, true, nil

	case *meta.List:
		if t.Elem == nil {
			return nil, false, fmt.Errorf("list without element: %w", meta.ErrMalformedMetadata)
		}
		elem, c, err := r.resolve(t.Elem)
		if err != nil {
			return nil, false, err
		}
		if !c {
			return t, false, nil
		}
		return &meta.List{Elem: elem}, true, nil

	case *meta.Union:
		members, _, err := r.resolveTypes(t.Members)
		if err != nil {
			return nil, false, err
		}
		return &meta.Union{Members: members}, true, nil

	case *meta.Builtin, *meta.Literal:
		return t, false, nil

	case *meta.Pointer:
		if t.Base == nil {
			return nil, false, fmt.Errorf("pointer without base: %w", meta.ErrMalformedMetadata)
		}
		// The wrapper is dropped; nullability is the field's concern.
		base, _, err := r.resolve(t.Base)
		if err != nil {
			return nil, false, err
		}
		return base, true, nil

	case *meta.TypeParam:
		if t.Index < 0 || t.Index >= len(r.resolvedArgs) {
			return nil, false, fmt.Errorf("type parameter %d outside binding context (%d arguments): %w", t.Index, len(r.resolvedArgs), meta.ErrMalformedMetadata)
		}
		return r.resolvedArgs[t.Index], true, nil

	case *meta.Config:
		return nil, false, fmt.Errorf("config types are not supported: %w", meta.ErrUnsupportedType)

	case nil:
		return nil, false, fmt.Errorf("type without type: %w", meta.ErrMalformedMetadata)

	default:
		return nil, false, fmt.Errorf("unknown type kind %v: %w", t.Kind(), meta.ErrMalformedMetadata)
	}
}

func (r *typeArgResolver) resolveTypes(types []meta.Type) ([]meta.Type, bool, error) {
	resolved := make([]meta.Type, len(types))
	changed := false
	for i, t := range types {
		if t == nil {
			return nil, false, fmt.Errorf("type without type: %w", meta.ErrMalformedMetadata)
		}
		rt, c, err := r.resolve(t)
		if err != nil {
			return nil, false, err
		}
		resolved[i] = rt
		changed = changed || c
	}
	return resolved, changed, nil
}

package registry

import (
	"fmt"
	"sort"
)

// Registry is the frozen, immutable snapshot of a Builder. It is safe for
// concurrent readers; nothing mutates after Freeze.
type Registry struct {
	values []Value
	names  map[Ref]string
}

// Len returns the number of interned values.
func (r *Registry) Len() int { return len(r.values) }

// Value returns the interned value for a handle.
func (r *Registry) Value(ref Ref) Value {
	if ref < 0 || int(ref) >= len(r.values) {
		panic(fmt.Sprintf("registry: ref %d out of range (%d values)", ref, len(r.values)))
	}
	return r.values[ref]
}

// Schema returns a read handle for the value at ref.
func (r *Registry) Schema(ref Ref) Schema {
	r.Value(ref) // bounds check
	return Schema{reg: r, ref: ref}
}

// Schema is a read-only handle into a frozen registry. The zero value is
// not usable; obtain handles from Registry.Schema.
type Schema struct {
	reg *Registry
	ref Ref
}

// Ref returns the underlying registry handle.
func (s Schema) Ref() Ref { return s.ref }

// Value returns the interned value the handle points at, chasing
// declaration references.
func (s Schema) Value() Value {
	v := s.reg.Value(s.ref)
	for {
		dr, ok := v.(*DeclRef)
		if !ok {
			return v
		}
		v = s.reg.Value(dr.Ref)
	}
}

// Struct returns the struct value behind the handle, or false if the
// handle does not point at a struct.
func (s Schema) Struct() (*Struct, bool) {
	st, ok := s.Value().(*Struct)
	return st, ok
}

// Contains reports whether the handle points at a struct containing the
// named field.
func (s Schema) Contains(name string) bool {
	st, ok := s.Struct()
	if !ok {
		return false
	}
	_, ok = st.Fields[name]
	return ok
}

// FieldNames returns the sorted field names of the struct behind the
// handle. Nil for non-struct values.
func (s Schema) FieldNames() []string {
	st, ok := s.Struct()
	if !ok {
		return nil
	}
	names := make([]string, 0, len(st.Fields))
	for name := range st.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of fields of the struct behind the handle, or 0
// for non-struct values.
func (s Schema) Len() int {
	st, ok := s.Struct()
	if !ok {
		return 0
	}
	return len(st.Fields)
}

// WireNames returns the field-name to wire-name mapping of the struct
// behind the handle, honoring name overrides. Nil for non-struct values.
func (s Schema) WireNames() map[string]string {
	st, ok := s.Struct()
	if !ok {
		return nil
	}
	names := make(map[string]string, len(st.Fields))
	for name, f := range st.Fields {
		names[name] = f.WireName(name)
	}
	return names
}

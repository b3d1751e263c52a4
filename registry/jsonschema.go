package registry

import (
	"fmt"
	"sort"

	js "github.com/swaggest/jsonschema-go"

	"github.com/wirebind/wirebind/meta"
)

// JSONSchema materializes the value at ref into a JSON-Schema document.
// Declarations referenced from the value tree are emitted under
// "definitions" and linked with "$ref", which keeps recursive declarations
// finite.
func (r *Registry) JSONSchema(ref Ref) (js.Schema, error) {
	st := &renderState{
		reg:     r,
		defs:    make(map[string]js.SchemaOrBool),
		visited: make(map[Ref]bool),
	}

	root, err := st.render(r.Value(ref))
	if err != nil {
		return js.Schema{}, err
	}
	for name, def := range st.defs {
		root.WithDefinitionsItem(name, def)
	}
	return root, nil
}

// JSONSchema materializes the schema behind the handle.
func (s Schema) JSONSchema() (js.Schema, error) {
	return s.reg.JSONSchema(s.ref)
}

type renderState struct {
	reg     *Registry
	defs    map[string]js.SchemaOrBool
	visited map[Ref]bool
}

func (st *renderState) render(v Value) (js.Schema, error) {
	var sch js.Schema

	switch v := v.(type) {
	case *Basic:
		renderBasic(&sch, v.Builtin)

	case *Literal:
		renderLiteral(&sch, v.Value)

	case *Struct:
		sch.WithType(js.Object.Type())
		names := make([]string, 0, len(v.Fields))
		for name := range v.Fields {
			names = append(names, name)
		}
		sort.Strings(names)

		var required []string
		for _, name := range names {
			f := v.Fields[name]
			fs, err := st.render(f.Value)
			if err != nil {
				return sch, err
			}
			if f.Doc != "" {
				fs.WithDescription(f.Doc)
			}
			wire := f.WireName(name)
			sch.WithPropertiesItem(wire, fs.ToSchemaOrBool())
			if !f.Optional {
				required = append(required, wire)
			}
		}
		if len(required) > 0 {
			sch.WithRequired(required...)
		}

	case *Map:
		vs, err := st.render(v.Value)
		if err != nil {
			return sch, err
		}
		sch.WithType(js.Object.Type())
		sch.WithAdditionalProperties(vs.ToSchemaOrBool())

	case *List:
		es, err := st.render(v.Elem)
		if err != nil {
			return sch, err
		}
		elemSchema := es.ToSchemaOrBool()
		sch.WithType(js.Array.Type())
		sch.WithItems(js.Items{SchemaOrBool: &elemSchema})

	case *Union:
		members := make([]js.SchemaOrBool, 0, len(v.Members))
		for _, m := range v.Members {
			ms, err := st.render(m)
			if err != nil {
				return sch, err
			}
			members = append(members, ms.ToSchemaOrBool())
		}
		sch.WithAnyOf(members...)

	case *DeclRef:
		name := st.defName(v.Ref)
		if !st.visited[v.Ref] {
			st.visited[v.Ref] = true
			ds, err := st.render(st.reg.Value(v.Ref))
			if err != nil {
				return sch, err
			}
			st.defs[name] = ds.ToSchemaOrBool()
		}
		sch.WithRef("#/definitions/" + name)

	default:
		return sch, fmt.Errorf("cannot render value kind %v", v.ValueKind())
	}

	return sch, nil
}

func (st *renderState) defName(ref Ref) string {
	if name, ok := st.reg.names[ref]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("type%d", ref)
}

func renderBasic(sch *js.Schema, k meta.BuiltinKind) {
	switch k {
	case meta.BuiltinBool:
		sch.WithType(js.Boolean.Type())
	case meta.BuiltinInt, meta.BuiltinInt8, meta.BuiltinInt16, meta.BuiltinInt32, meta.BuiltinInt64,
		meta.BuiltinUint, meta.BuiltinUint8, meta.BuiltinUint16, meta.BuiltinUint32, meta.BuiltinUint64:
		sch.WithType(js.Integer.Type())
	case meta.BuiltinFloat32, meta.BuiltinFloat64:
		sch.WithType(js.Number.Type())
	case meta.BuiltinString:
		sch.WithType(js.String.Type())
	case meta.BuiltinBytes:
		sch.WithType(js.String.Type())
		sch.WithFormat("byte")
	case meta.BuiltinTime:
		sch.WithType(js.String.Type())
		sch.WithFormat("date-time")
	case meta.BuiltinUUID:
		sch.WithType(js.String.Type())
		sch.WithFormat("uuid")
	case meta.BuiltinAny, meta.BuiltinJSON:
		// Unconstrained.
	}
}

func renderLiteral(sch *js.Schema, v meta.LiteralValue) {
	switch v.Kind {
	case meta.LiteralString:
		sch.WithType(js.String.Type())
	case meta.LiteralInt:
		sch.WithType(js.Integer.Type())
	case meta.LiteralFloat:
		sch.WithType(js.Number.Type())
	case meta.LiteralBool:
		sch.WithType(js.Boolean.Type())
	case meta.LiteralNull:
		sch.WithType(js.Null.Type())
		return
	}
	sch.WithEnum(v.Interface())
}

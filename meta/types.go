// Package meta defines the declarative metadata model consumed by the
// schema-encoding layer: a tagged union of type descriptors, struct fields
// with wire placement hints, URL path templates, endpoint descriptions, and
// the indexed declaration table. All values are plain data; nothing in this
// package performs resolution or encoding.
package meta

import (
	"errors"
	"fmt"
)

// ErrMalformedMetadata reports a metadata document with a required
// substructure missing (a type-less field, a map without a key, a pointer
// without a base, an invalid discriminant). It signals a producer-side bug
// and is never retried.
var ErrMalformedMetadata = errors.New("malformed metadata")

// ErrUnsupportedType reports a type variant the encoding layer refuses to
// process. Currently only Config values trigger it.
var ErrUnsupportedType = errors.New("unsupported type")

// TypeKind identifies the variant of a Type.
type TypeKind int

const (
	KindNamed TypeKind = iota
	KindStruct
	KindMap
	KindList
	KindUnion
	KindBuiltin
	KindLiteral
	KindPointer
	KindTypeParam
	KindConfig
)

// String returns the string representation of the type kind.
func (k TypeKind) String() string {
	switch k {
	case KindNamed:
		return "Named"
	case KindStruct:
		return "Struct"
	case KindMap:
		return "Map"
	case KindList:
		return "List"
	case KindUnion:
		return "Union"
	case KindBuiltin:
		return "Builtin"
	case KindLiteral:
		return "Literal"
	case KindPointer:
		return "Pointer"
	case KindTypeParam:
		return "TypeParam"
	case KindConfig:
		return "Config"
	default:
		return "Unknown"
	}
}

// Type is the base interface for all type descriptors.
// It is sealed; only types in this package implement it.
type Type interface {
	// Kind returns the variant tag for type switching.
	Kind() TypeKind

	sealed()
}

type typeBase struct{}

func (typeBase) sealed() {}

// Named references a declaration in the declaration table, optionally
// supplying type arguments for a generic declaration.
type Named struct {
	typeBase

	// Decl is the index of the referenced declaration in Data.Decls.
	Decl uint32

	// TypeArgs are the type arguments for a generic declaration, in
	// positional order. Empty for non-generic declarations.
	TypeArgs []Type
}

// Kind returns KindNamed.
func (*Named) Kind() TypeKind { return KindNamed }

// Struct is an object type with an ordered list of fields.
type Struct struct {
	typeBase

	Fields []Field
}

// Kind returns KindStruct.
func (*Struct) Kind() TypeKind { return KindStruct }

// Map is a key-value mapping.
type Map struct {
	typeBase

	Key   Type
	Value Type
}

// Kind returns KindMap.
func (*Map) Kind() TypeKind { return KindMap }

// List is an ordered collection.
type List struct {
	typeBase

	Elem Type
}

// Kind returns KindList.
func (*List) Kind() TypeKind { return KindList }

// Union is a union of member types (T1 | T2 | ...).
type Union struct {
	typeBase

	Members []Type
}

// Kind returns KindUnion.
func (*Union) Kind() TypeKind { return KindUnion }

// Builtin is a primitive type.
type Builtin struct {
	typeBase

	Builtin BuiltinKind
}

// Kind returns KindBuiltin.
func (*Builtin) Kind() TypeKind { return KindBuiltin }

// Literal is a type inhabited by exactly one fixed value.
type Literal struct {
	typeBase

	Value LiteralValue
}

// Kind returns KindLiteral.
func (*Literal) Kind() TypeKind { return KindLiteral }

// Pointer is a nullable wrapper around a base type. The encoding layer
// resolves it to its base; nullability is expressed through field
// optionality, not through the type tree.
type Pointer struct {
	typeBase

	Base Type
}

// Kind returns KindPointer.
func (*Pointer) Kind() TypeKind { return KindPointer }

// TypeParam is a positional reference into the type arguments of the
// enclosing generic instantiation. It is only meaningful while resolving
// within the binding context that supplied those arguments.
type TypeParam struct {
	typeBase

	Index int
}

// Kind returns KindTypeParam.
func (*TypeParam) Kind() TypeKind { return KindTypeParam }

// Config marks a configuration value type. Schema encoding does not
// support it; resolution fails on encounter.
type Config struct {
	typeBase
}

// Kind returns KindConfig.
func (*Config) Kind() TypeKind { return KindConfig }

// BuiltinKind identifies a primitive type.
type BuiltinKind int

const (
	BuiltinAny BuiltinKind = iota
	BuiltinBool
	BuiltinInt
	BuiltinInt8
	BuiltinInt16
	BuiltinInt32
	BuiltinInt64
	BuiltinUint
	BuiltinUint8
	BuiltinUint16
	BuiltinUint32
	BuiltinUint64
	BuiltinFloat32
	BuiltinFloat64
	BuiltinString
	BuiltinBytes
	BuiltinTime
	BuiltinUUID
	BuiltinJSON
)

var builtinNames = map[BuiltinKind]string{
	BuiltinAny:     "any",
	BuiltinBool:    "bool",
	BuiltinInt:     "int",
	BuiltinInt8:    "int8",
	BuiltinInt16:   "int16",
	BuiltinInt32:   "int32",
	BuiltinInt64:   "int64",
	BuiltinUint:    "uint",
	BuiltinUint8:   "uint8",
	BuiltinUint16:  "uint16",
	BuiltinUint32:  "uint32",
	BuiltinUint64:  "uint64",
	BuiltinFloat32: "float32",
	BuiltinFloat64: "float64",
	BuiltinString:  "string",
	BuiltinBytes:   "bytes",
	BuiltinTime:    "time",
	BuiltinUUID:    "uuid",
	BuiltinJSON:    "json",
}

// String returns the metadata token for the builtin kind.
func (k BuiltinKind) String() string {
	if s, ok := builtinNames[k]; ok {
		return s
	}
	return fmt.Sprintf("builtin(%d)", int(k))
}

// LiteralKind identifies the value class of a literal type.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralInt
	LiteralFloat
	LiteralBool
	LiteralNull
)

// LiteralValue is the fixed value of a Literal type. Exactly one of the
// value fields is meaningful, selected by Kind.
type LiteralValue struct {
	Kind  LiteralKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
}

// Interface returns the literal value as an untyped Go value.
func (v LiteralValue) Interface() any {
	switch v.Kind {
	case LiteralString:
		return v.Str
	case LiteralInt:
		return v.Int
	case LiteralFloat:
		return v.Float
	case LiteralBool:
		return v.Bool
	default:
		return nil
	}
}

// Field is a single struct member: a name, a type, optional validation
// metadata (a validator tag expression) and an optional explicit wire
// placement. A nil Wire means "use the encoding context's default
// location".
type Field struct {
	Name string
	Type Type

	// Optional indicates the field may be absent on the wire.
	Optional bool

	// Validation is a validator tag expression (e.g. "required,min=3").
	// Carried through resolution as opaque metadata.
	Validation string

	// Doc is the field's documentation summary, if any.
	Doc string

	// Wire explicitly places the field; nil defers to the context default.
	Wire *WireSpec
}

// WireSpecKind identifies an explicit field placement.
type WireSpecKind int

const (
	WireSpecHeader WireSpecKind = iota
	WireSpecQuery
	WireSpecCookie
)

// String returns the metadata token for the wire spec kind.
func (k WireSpecKind) String() string {
	switch k {
	case WireSpecHeader:
		return "header"
	case WireSpecQuery:
		return "query"
	case WireSpecCookie:
		return "cookie"
	default:
		return fmt.Sprintf("wirespec(%d)", int(k))
	}
}

// WireSpec is an explicit wire placement for a field. Name overrides the
// on-the-wire name for header and cookie placements; when empty the field
// name is used.
type WireSpec struct {
	Kind WireSpecKind
	Name string
}

package meta

import "fmt"

// SegmentType identifies the matching behavior of a path segment.
type SegmentType int

const (
	// SegmentLiteral matches its value verbatim.
	SegmentLiteral SegmentType = iota

	// SegmentParam matches exactly one path element and binds it to the
	// segment's value as a parameter name.
	SegmentParam

	// SegmentWildcard matches one or more trailing path elements.
	SegmentWildcard

	// SegmentFallback matches zero or more trailing path elements.
	SegmentFallback
)

// String returns the metadata token for the segment type.
func (t SegmentType) String() string {
	switch t {
	case SegmentLiteral:
		return "literal"
	case SegmentParam:
		return "param"
	case SegmentWildcard:
		return "wildcard"
	case SegmentFallback:
		return "fallback"
	default:
		return fmt.Sprintf("segment(%d)", int(t))
	}
}

// Valid reports whether t is a known segment type discriminant.
func (t SegmentType) Valid() bool {
	return t >= SegmentLiteral && t <= SegmentFallback
}

// ParamType is the declared value type of a non-literal path segment.
type ParamType int

const (
	ParamString ParamType = iota
	ParamBool
	ParamInt
	ParamInt8
	ParamInt16
	ParamInt32
	ParamInt64
	ParamUint
	ParamUint8
	ParamUint16
	ParamUint32
	ParamUint64
	ParamUUID
)

var paramTypeNames = map[ParamType]string{
	ParamString: "string",
	ParamBool:   "bool",
	ParamInt:    "int",
	ParamInt8:   "int8",
	ParamInt16:  "int16",
	ParamInt32:  "int32",
	ParamInt64:  "int64",
	ParamUint:   "uint",
	ParamUint8:  "uint8",
	ParamUint16: "uint16",
	ParamUint32: "uint32",
	ParamUint64: "uint64",
	ParamUUID:   "uuid",
}

// String returns the metadata token for the param type.
func (t ParamType) String() string {
	if s, ok := paramTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("param(%d)", int(t))
}

// Valid reports whether t is a known param type discriminant.
func (t ParamType) Valid() bool {
	_, ok := paramTypeNames[t]
	return ok
}

// PathSegment is one element of a path template. Value holds the literal
// text for literal segments and the parameter name for all other kinds.
type PathSegment struct {
	Type      SegmentType
	Value     string
	ValueType ParamType

	// Validation is a validator tag expression applied to the extracted
	// parameter value. Empty for literal segments.
	Validation string
}

// PathTemplate is an ordered sequence of path segments describing the URL
// an endpoint is mounted at.
type PathTemplate struct {
	Segments []PathSegment
}

// HasParams reports whether the template contains any non-literal segment.
func (p *PathTemplate) HasParams() bool {
	for _, seg := range p.Segments {
		if seg.Type != SegmentLiteral {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the template.
func (p *PathTemplate) Clone() *PathTemplate {
	if p == nil {
		return nil
	}
	segs := make([]PathSegment, len(p.Segments))
	copy(segs, p.Segments)
	return &PathTemplate{Segments: segs}
}

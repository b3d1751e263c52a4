package wirebind

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wirebind/wirebind/meta"
)

var paramValidate = validator.New()

// PathParam describes one parameter bound by a path template.
type PathParam struct {
	Name string
	Type meta.ParamType

	// Validation is the validator tag expression applied to extracted
	// values, if any.
	Validation string
}

// Path is the compiled descriptor for an endpoint's path template. It is
// built once per endpoint and is immutable afterwards.
type Path struct {
	segments []meta.PathSegment
}

// PathFromTemplate compiles a path template. It rejects invalid segment or
// value type discriminants and trailing-matcher segments (wildcard,
// fallback) that are not last.
func PathFromTemplate(tmpl *meta.PathTemplate) (*Path, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("path template without segments: %w", meta.ErrMalformedMetadata)
	}
	for i, seg := range tmpl.Segments {
		if !seg.Type.Valid() {
			return nil, fmt.Errorf("invalid path segment type %v: %w", seg.Type, meta.ErrMalformedMetadata)
		}
		if seg.Type != meta.SegmentLiteral && !seg.ValueType.Valid() {
			return nil, fmt.Errorf("path segment %q: invalid value type %v: %w", seg.Value, seg.ValueType, meta.ErrMalformedMetadata)
		}
		last := i == len(tmpl.Segments)-1
		if (seg.Type == meta.SegmentWildcard || seg.Type == meta.SegmentFallback) && !last {
			return nil, fmt.Errorf("path segment %q: trailing matcher before end of template: %w", seg.Value, meta.ErrMalformedMetadata)
		}
	}
	segs := make([]meta.PathSegment, len(tmpl.Segments))
	copy(segs, tmpl.Segments)
	return &Path{segments: segs}, nil
}

// Params returns the parameters bound by the path, in segment order.
func (p *Path) Params() []PathParam {
	var params []PathParam
	for _, seg := range p.segments {
		if seg.Type == meta.SegmentLiteral {
			continue
		}
		params = append(params, PathParam{
			Name:       seg.Value,
			Type:       seg.ValueType,
			Validation: seg.Validation,
		})
	}
	return params
}

// HasParams reports whether the path binds any parameter.
func (p *Path) HasParams() bool {
	return len(p.Params()) > 0
}

// String renders the path as a route pattern: literals verbatim, ":name"
// for params, "*name" for wildcards and "!name" for fallbacks.
func (p *Path) String() string {
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		switch seg.Type {
		case meta.SegmentParam:
			b.WriteByte(':')
		case meta.SegmentWildcard:
			b.WriteByte('*')
		case meta.SegmentFallback:
			b.WriteByte('!')
		}
		b.WriteString(seg.Value)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// Match extracts parameter values from a request path. The second return
// value is false when the path does not match the template shape; value
// type checks and validation are the caller's concern via ValidateParams.
func (p *Path) Match(reqPath string) (map[string]string, bool) {
	elems := splitPath(reqPath)
	params := make(map[string]string)

	i := 0
	for _, seg := range p.segments {
		switch seg.Type {
		case meta.SegmentLiteral:
			if i >= len(elems) || elems[i] != seg.Value {
				return nil, false
			}
			i++

		case meta.SegmentParam:
			if i >= len(elems) {
				return nil, false
			}
			params[seg.Value] = elems[i]
			i++

		case meta.SegmentWildcard:
			// Consumes one or more trailing elements.
			if i >= len(elems) {
				return nil, false
			}
			params[seg.Value] = strings.Join(elems[i:], "/")
			i = len(elems)

		case meta.SegmentFallback:
			// Consumes whatever remains, possibly nothing.
			params[seg.Value] = strings.Join(elems[i:], "/")
			i = len(elems)
		}
	}

	if i != len(elems) {
		return nil, false
	}
	return params, true
}

// ValidateParams type-checks extracted parameter values against their
// declared value types and applies each segment's validation expression.
func (p *Path) ValidateParams(params map[string]string) error {
	for _, param := range p.Params() {
		val, ok := params[param.Name]
		if !ok {
			return fmt.Errorf("path parameter %q missing", param.Name)
		}
		if err := checkParamValue(param.Type, val); err != nil {
			return fmt.Errorf("path parameter %q: %w", param.Name, err)
		}
		if param.Validation == "" {
			continue
		}
		if err := paramValidate.Var(val, param.Validation); err != nil {
			return fmt.Errorf("path parameter %q: %w", param.Name, err)
		}
	}
	return nil
}

func checkParamValue(t meta.ParamType, val string) error {
	switch t {
	case meta.ParamString:
		return nil
	case meta.ParamUUID:
		if err := paramValidate.Var(val, "uuid"); err != nil {
			return fmt.Errorf("%q is not a uuid", val)
		}
	case meta.ParamBool:
		if _, err := strconv.ParseBool(val); err != nil {
			return fmt.Errorf("%q is not a bool", val)
		}
	case meta.ParamInt, meta.ParamInt8, meta.ParamInt16, meta.ParamInt32, meta.ParamInt64:
		if _, err := strconv.ParseInt(val, 10, bitSize(t)); err != nil {
			return fmt.Errorf("%q is not a %s", val, t)
		}
	case meta.ParamUint, meta.ParamUint8, meta.ParamUint16, meta.ParamUint32, meta.ParamUint64:
		if _, err := strconv.ParseUint(val, 10, bitSize(t)); err != nil {
			return fmt.Errorf("%q is not a %s", val, t)
		}
	}
	return nil
}

func bitSize(t meta.ParamType) int {
	switch t {
	case meta.ParamInt8, meta.ParamUint8:
		return 8
	case meta.ParamInt16, meta.ParamUint16:
		return 16
	case meta.ParamInt32, meta.ParamUint32:
		return 32
	default:
		return 64
	}
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

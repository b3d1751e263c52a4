package wirebind

import "fmt"

// Method is a parsed HTTP method. The set is closed: metadata may only
// name methods this enum knows about.
type Method int

const (
	MethodGet Method = iota + 1
	MethodHead
	MethodPost
	MethodPut
	MethodPatch
	MethodDelete
	MethodOptions
	MethodTrace
	MethodConnect
)

var methodNames = map[Method]string{
	MethodGet:     "GET",
	MethodHead:    "HEAD",
	MethodPost:    "POST",
	MethodPut:     "PUT",
	MethodPatch:   "PATCH",
	MethodDelete:  "DELETE",
	MethodOptions: "OPTIONS",
	MethodTrace:   "TRACE",
	MethodConnect: "CONNECT",
}

var methodTokens = func() map[string]Method {
	m := make(map[string]Method, len(methodNames))
	for meth, s := range methodNames {
		m[s] = meth
	}
	return m
}()

// ParseMethod parses an HTTP method token. Tokens are matched verbatim
// against the canonical upper-case names.
func ParseMethod(s string) (Method, error) {
	m, ok := methodTokens[s]
	if !ok {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidMethod)
	}
	return m, nil
}

// ParseMethods parses a list of method tokens, preserving order.
func ParseMethods(tokens []string) ([]Method, error) {
	methods := make([]Method, 0, len(tokens))
	for _, t := range tokens {
		m, err := ParseMethod(t)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, nil
}

// String returns the canonical method token.
func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// SupportsBody reports whether the method conventionally carries a request
// body. Methods that do default unannotated fields to the body; all others
// default them to the query string.
func (m Method) SupportsBody() bool {
	switch m {
	case MethodPost, MethodPut, MethodPatch:
		return true
	default:
		return false
	}
}

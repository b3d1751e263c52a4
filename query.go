package wirebind

import (
	"fmt"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/wirebind/wirebind/registry"
)

var queryDecoder = schema.NewDecoder()

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

// Query is the group of fields travelling in the query string.
type Query struct {
	Schema registry.Schema
}

// Contains reports whether the query group owns the named field.
func (q *Query) Contains(name string) bool {
	return q.Schema.Contains(name)
}

// Decode binds the query values the schema owns into dst, which must be a
// pointer to a struct. Keys outside the computed query group are dropped
// before decoding, so body- or header-placed fields can never be smuggled
// in through the query string.
func (q *Query) Decode(dst any, values url.Values) error {
	filtered := make(url.Values, len(values))
	for key, vals := range values {
		if q.Schema.Contains(key) {
			filtered[key] = vals
		}
	}
	if err := queryDecoder.Decode(dst, filtered); err != nil {
		return fmt.Errorf("decode query: %w", err)
	}
	return nil
}

package wirebind

import (
	"fmt"

	"github.com/wirebind/wirebind/meta"
	"github.com/wirebind/wirebind/registry"
)

// ResponseEncoding computes the response encoding for an endpoint.
// Responses carry no path or query; unannotated fields default to the body
// and only header overrides are honored.
func ResponseEncoding(b *registry.Builder, md *meta.Data, ep *meta.Endpoint) (SchemaUnderConstruction, error) {
	if ep.Response == nil {
		return SchemaUnderConstruction{}, nil
	}

	config := EncodingConfig{
		Meta:           md,
		Builder:        b,
		DefaultLoc:     LocBody,
		SupportsBody:   true,
		SupportsHeader: true,
	}
	schema, err := config.Compute(ep.Response)
	if err != nil {
		return SchemaUnderConstruction{}, fmt.Errorf("response encoding: %w", err)
	}
	return schema, nil
}

package wirebind

import (
	"fmt"

	"github.com/wirebind/wirebind/meta"
	"github.com/wirebind/wirebind/registry"
)

// EndpointSchemas is the full set of materialized wire schemas for one
// endpoint: the optional streaming handshake, one request schema per
// method-group, and the response schema.
type EndpointSchemas struct {
	ServiceName string
	Name        string

	Handshake *HandshakeSchema
	Request   []ReqSchema
	Response  Schema
}

// ComputeEndpoints computes the wire schemas for every endpoint in md
// against a single shared registry. All schemas are interned before the
// registry is frozen, so cross-endpoint value sharing is preserved. The
// returned registry and schemas are immutable.
func ComputeEndpoints(md *meta.Data) ([]EndpointSchemas, *registry.Registry, error) {
	b := registry.NewBuilder(md)

	type pending struct {
		ep        *meta.Endpoint
		handshake *HandshakeSchemaUnderConstruction
		request   []ReqSchemaUnderConstruction
		response  SchemaUnderConstruction
	}

	staged := make([]pending, 0, len(md.Endpoints))
	for i := range md.Endpoints {
		ep := &md.Endpoints[i]

		handshake, err := HandshakeEncoding(b, md, ep)
		if err != nil {
			return nil, nil, fmt.Errorf("endpoint %s.%s: %w", ep.ServiceName, ep.Name, err)
		}
		request, err := RequestEncoding(b, md, ep)
		if err != nil {
			return nil, nil, fmt.Errorf("endpoint %s.%s: %w", ep.ServiceName, ep.Name, err)
		}
		response, err := ResponseEncoding(b, md, ep)
		if err != nil {
			return nil, nil, fmt.Errorf("endpoint %s.%s: %w", ep.ServiceName, ep.Name, err)
		}

		staged = append(staged, pending{
			ep:        ep,
			handshake: handshake,
			request:   request,
			response:  response,
		})
	}

	reg := b.Freeze()

	out := make([]EndpointSchemas, 0, len(staged))
	for _, p := range staged {
		es := EndpointSchemas{
			ServiceName: p.ep.ServiceName,
			Name:        p.ep.Name,
		}

		if p.handshake != nil {
			hs, err := p.handshake.Build(reg)
			if err != nil {
				return nil, nil, fmt.Errorf("endpoint %s.%s: %w", p.ep.ServiceName, p.ep.Name, err)
			}
			es.Handshake = &hs
		}
		for _, r := range p.request {
			rs, err := r.Build(reg)
			if err != nil {
				return nil, nil, fmt.Errorf("endpoint %s.%s: %w", p.ep.ServiceName, p.ep.Name, err)
			}
			es.Request = append(es.Request, rs)
		}
		resp, err := p.response.Build(reg)
		if err != nil {
			return nil, nil, fmt.Errorf("endpoint %s.%s: %w", p.ep.ServiceName, p.ep.Name, err)
		}
		es.Response = resp

		out = append(out, es)
	}

	return out, reg, nil
}

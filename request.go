package wirebind

import (
	"fmt"

	"github.com/wirebind/wirebind/meta"
	"github.com/wirebind/wirebind/registry"
)

// ReqSchemaUnderConstruction is one method-group's request schema, pending
// registry freeze.
type ReqSchemaUnderConstruction struct {
	Methods []Method
	Schema  SchemaUnderConstruction
}

// Build materializes the request schema against a frozen registry.
func (r ReqSchemaUnderConstruction) Build(reg *registry.Registry) (ReqSchema, error) {
	schema, err := r.Schema.Build(reg)
	if err != nil {
		return ReqSchema{}, err
	}
	return ReqSchema{Methods: r.Methods, Schema: schema}, nil
}

// ReqSchema is the materialized request schema for one method-group.
type ReqSchema struct {
	Methods []Method
	Schema  Schema
}

// RequestEncoding computes the request encodings for an endpoint, one per
// method-group. Methods sharing a default location for unannotated fields
// share a group; explicitly placed fields land identically in every group.
func RequestEncoding(b *registry.Builder, md *meta.Data, ep *meta.Endpoint) ([]ReqSchemaUnderConstruction, error) {
	// Streaming payloads are pure body messages; query, header and path
	// play no part, and a single group under a placeholder method covers
	// every declared method.
	if ep.Streaming() {
		if ep.Request == nil {
			return []ReqSchemaUnderConstruction{{
				Methods: []Method{MethodGet},
			}}, nil
		}

		config := EncodingConfig{
			Meta:         md,
			Builder:      b,
			DefaultLoc:   LocBody,
			SupportsBody: true,
		}
		schema, err := config.Compute(ep.Request)
		if err != nil {
			return nil, fmt.Errorf("request encoding: %w", err)
		}
		return []ReqSchemaUnderConstruction{{
			Methods: []Method{MethodGet},
			Schema:  schema,
		}}, nil
	}

	methods, err := ParseMethods(ep.HTTPMethods)
	if err != nil {
		return nil, fmt.Errorf("request encoding: %w", err)
	}

	rpcPath := ep.Path
	if rpcPath == nil {
		rpcPath = defaultPath(ep)
	}

	// Without a request type every method shares one encoding; only the
	// path carries data.
	if ep.Request == nil {
		return []ReqSchemaUnderConstruction{{
			Methods: methods,
			Schema:  SchemaUnderConstruction{rpcPath: rpcPath.Clone()},
		}}, nil
	}

	var schemas []ReqSchemaUnderConstruction
	for _, group := range splitByLoc(methods) {
		config := EncodingConfig{
			Meta:           md,
			Builder:        b,
			DefaultLoc:     group.loc,
			Path:           rpcPath,
			SupportsBody:   true,
			SupportsQuery:  true,
			SupportsHeader: true,
			SupportsPath:   true,
		}
		schema, err := config.Compute(ep.Request)
		if err != nil {
			return nil, fmt.Errorf("request encoding: %w", err)
		}
		schemas = append(schemas, ReqSchemaUnderConstruction{
			Methods: group.methods,
			Schema:  schema,
		})
	}

	return schemas, nil
}

type methodGroup struct {
	loc     DefaultLoc
	methods []Method
}

// splitByLoc groups methods by the default location their body-support
// implies, preserving the order of first occurrence.
func splitByLoc(methods []Method) []methodGroup {
	var groups []methodGroup
	index := make(map[DefaultLoc]int)

	for _, m := range methods {
		loc := LocQuery
		if m.SupportsBody() {
			loc = LocBody
		}
		i, ok := index[loc]
		if !ok {
			i = len(groups)
			index[loc] = i
			groups = append(groups, methodGroup{loc: loc})
		}
		groups[i].methods = append(groups[i].methods, m)
	}

	return groups
}

// Package wirebind computes wire-ready schemas for RPC endpoints from
// declarative metadata. Given an endpoint's request, response and handshake
// types it resolves generic declarations into concrete type trees, splits
// struct fields across HTTP transport channels (body, query string, header,
// cookie and URL path), and interns the resulting groups into a schema
// registry for later validation and serialization.
//
// Construction is synchronous and single-threaded: one registry.Builder is
// exclusively owned while a service's endpoints are processed, then frozen
// into an immutable snapshot. Every schema built against that snapshot is
// safe to share across goroutines.
package wirebind

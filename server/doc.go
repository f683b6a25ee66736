// Package server hosts the speakeralign HTTP API.
//
// Routes are registered on a Gin engine mounted under a root ServeMux. The
// middleware chain (recovery, request ID, tracing, CORS, body limit, request
// logging) wraps the whole mux, and h2c lets clients speak HTTP/2 without TLS.
//
// Built-in endpoints (server/endpoint):
//
//   - /health: component and provider health
//   - /ready: readiness probe backed by the same checker
//   - /info: build version and uptime
//   - /metrics: Go runtime statistics
package server

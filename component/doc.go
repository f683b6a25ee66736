// Package component manages the lifecycle of the long-running parts of the
// service: the HTTP server and the telemetry exporters.
//
// Components start in registration order and stop in reverse order. Their
// Health results feed the /health endpoint together with provider probes.
package component

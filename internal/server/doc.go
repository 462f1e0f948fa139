// Package server exposes a running playback over HTTP: Prometheus metrics
// on /metrics and a JSON status document on /healthz. Every route is
// wrapped with security headers and request accounting.
package server

// Package metrics holds the Prometheus collectors of the reconciler and the
// optional /metrics listener.
package metrics

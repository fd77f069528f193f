// Package metrics collects runtime memory statistics and exports
// multiplication metrics in the Prometheus format.
package metrics

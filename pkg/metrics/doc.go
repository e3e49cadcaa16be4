// Package metrics exposes Prometheus counters for validation outcomes and
// breach API lookups. Batch runs are short-lived, so instead of serving
// /metrics the collector is dumped to a textfile at the end of the run.
package metrics

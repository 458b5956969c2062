// Package metrics defines the Prometheus collectors exported by the
// video library: HTTP request metrics, database query metrics, indexer
// run metrics, and like counter outcomes.
//
// All collectors are registered via promauto at package load and served
// on the dedicated metrics port.
package metrics

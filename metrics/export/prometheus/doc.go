// Package prometheus renders authsvc metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] accepts an [authsvc.Engine] and exposes an
// [net/http.Handler] that renders all engine counters. Counter names are
// prefixed authsvc_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the
//     Handler.
//   - Mutate engine state.
package prometheus

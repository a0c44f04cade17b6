// Package telemetry records operational events for the notation service.
//
// Events are appended to the roll log: one entry per handled request, with
// the expression, the evaluated total when there is one, the gRPC status
// code and the active trace identifiers. Tracing itself lives in
// platform/otel; this package only persists what a later audit needs.
package telemetry

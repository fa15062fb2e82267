// Package tracing integrates OpenTelemetry with the compiler frontend so
// that pipeline stages (preprocessing, lexing, rendering) can be timed and
// inspected. All instrumentation is kept in a separate package so that
// applications which do not require tracing can exclude it from their build.
package tracing

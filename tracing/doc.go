// Package tracing wraps OpenTelemetry so that the coordinator and workers
// can open spans without importing the SDK. Until Init is called spans are
// no-ops.
package tracing

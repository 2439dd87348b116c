// Package tracer provides a lightweight tracing abstraction for the directory module.
//
// The directory code depends only on the Tracer and Span interfaces defined here,
// not on OpenTelemetry APIs, so the loader can be traced in production and run
// without tracing overhead in tests.
//
// Implementations:
//   - NoopTracer: For tests (zero overhead)
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans for distributed tracing.
// Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	// The returned context carries the new span for child operations.
	//
	// Example:
	//   ctx, span := t.Start(ctx, tracer.SpanDirectoryFetch,
	//       tracer.Int64(tracer.AttrBatchSize, 50),
	//   )
	//   defer span.End(err)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Float64 creates a float64 attribute.
func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names used by the directory module.
const (
	SpanDirectoryLoad  = "directory.load"
	SpanDirectoryFetch = "directory.fetch"
)

// Attribute keys used by the directory module.
const (
	AttrBatchSize       = "directory.batch_size"
	AttrRecordCount     = "directory.record_count"
	AttrNationalities   = "directory.nationality_count"
	AttrHTTPStatus      = "http.status_code"
	AttrFailureCategory = "directory.failure_category"
	AttrSeeded          = "directory.seeded"
	AttrDiscarded       = "directory.discarded"
)

// Event names used by the directory module.
const (
	EventResponseDecoded = "response.decoded"
)

// Package bsperr defines the error kinds from the core's error-handling
// design: each is a concrete type satisfying errors.Is/errors.As rather
// than a bare string, so callers can branch on kind without parsing
// messages.
package bsperr

import "fmt"

// VersionUnsupportedError reports that the Tooling API connection
// refused to proceed because the project's Gradle version is below the
// minimum this adapter supports.
type VersionUnsupportedError struct {
	GradleVersion string
	MinSupported  string
}

func (e *VersionUnsupportedError) Error() string {
	return fmt.Sprintf("gradle version %s is unsupported (minimum %s)", e.GradleVersion, e.MinSupported)
}

// ProbeFailureError wraps a project's extraction failure. For a single
// project it is not fatal: BuildAggregator records it in the result's
// Errors and omits that project. BuildAggregator also returns it, failing
// the whole aggregation, when build discovery or scheduling itself fails.
type ProbeFailureError struct {
	ProjectDir string
	Err        error
}

func (e *ProbeFailureError) Error() string {
	return fmt.Sprintf("probe failed for project %s: %v", e.ProjectDir, e.Err)
}

func (e *ProbeFailureError) Unwrap() error { return e.Err }

// CapabilityUnavailableError is the Go-side realization of the source's
// "ReflectionMissing": an optional Android/internal member was absent
// on this Gradle/AGP version. It signals "skip this enrichment", not a
// failure.
type CapabilityUnavailableError struct {
	Member string
}

func (e *CapabilityUnavailableError) Error() string {
	return fmt.Sprintf("capability unavailable: %s", e.Member)
}

// TargetNotFoundError is returned by TargetGraph lookups against a
// snapshot that has no entry for the given key.
type TargetNotFoundError struct {
	Key string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target not found: %s", e.Key)
}

// AggregationCancelledError signals cooperative cancellation of a
// BuildAggregator.Run call. The prior TargetGraph snapshot is retained.
type AggregationCancelledError struct {
	Cause error
}

func (e *AggregationCancelledError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("aggregation cancelled: %v", e.Cause)
	}
	return "aggregation cancelled"
}

func (e *AggregationCancelledError) Unwrap() error { return e.Cause }

// ModelDeserializationError reports a structurally invalid model
// (missing a mandatory identity field) returned from a probe. Unlike
// ProbeFailureError, this fails the aggregation as a whole.
type ModelDeserializationError struct {
	Field string
}

func (e *ModelDeserializationError) Error() string {
	return fmt.Sprintf("model deserialization failed: missing field %q", e.Field)
}

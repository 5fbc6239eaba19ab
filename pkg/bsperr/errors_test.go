package bsperr

import (
	"errors"
	"testing"
)

func TestProbeFailureUnwraps(t *testing.T) {
	cause := errors.New("no such project")
	err := &ProbeFailureError{ProjectDir: "/proj/foo", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is(err, cause) = false, want true")
	}
}

func TestAggregationCancelledWithoutCause(t *testing.T) {
	err := &AggregationCancelledError{}
	if err.Error() != "aggregation cancelled" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestTargetNotFoundAs(t *testing.T) {
	var err error = &TargetNotFoundError{Key: "file:///x?sourceset=main"}
	var target *TargetNotFoundError
	if !errors.As(err, &target) {
		t.Fatalf("errors.As failed to bind *TargetNotFoundError")
	}
	if target.Key != "file:///x?sourceset=main" {
		t.Fatalf("unexpected key: %s", target.Key)
	}
}

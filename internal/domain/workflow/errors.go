package workflow

import (
	"errors"
	"fmt"
)

var ErrNoCurrentStep = errors.New("no pending workflow step")

// ConfigError means the workflow for a new request cannot be generated at
// all. Nothing is persisted when it is returned.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "workflow configuration error: " + e.Reason
}

// CorruptionError means an already-approved step sits after the earliest
// pending one. It is never auto-repaired; clients get a generic message and
// an administrator runs an explicit repair.
type CorruptionError struct {
	TripID string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("workflow state for request %s is inconsistent; contact an administrator", e.TripID)
}

// Package moderation implements the warning ledger, the escalation engine
// and the appeal and redemption workflows. The package holds no global
// state: every service takes its stores, clock and notifier as constructor
// parameters so the whole core can run against an in-memory store in tests.
package moderation

import (
	"errors"
	"fmt"
	"time"
)

// ErrStoreTimeout marks a transient store failure. Callers may retry the
// operation; no partial state is left behind.
var ErrStoreTimeout = errors.New("store operation timed out")

// ValidationError reports malformed or missing required input. The
// operation made no state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %q: %s", e.Field, e.Reason)
}

// ConflictError reports an operation that violates a workflow invariant,
// such as a duplicate pending appeal. The operation made no state change.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

// CooldownError reports a rate or time constraint that is not yet met.
// Remaining is how long the caller has to wait.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active, retry in %s", e.Remaining.Round(time.Second))
}

// ConfigError reports an administrator misconfiguration. It is rejected at
// configuration time, never silently accepted.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

// IsRetryable reports whether the caller may safely retry the operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreTimeout)
}

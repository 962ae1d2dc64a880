package domain

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a DomainError. Kinds are comparable and can be used
// directly as errors.Is targets.
type ErrorKind string

const (
	InvalidMoisture  ErrorKind = "invalid_moisture"
	InvalidRoughness ErrorKind = "invalid_roughness"
	InvalidCost      ErrorKind = "invalid_cost"
	InvalidRange     ErrorKind = "invalid_range"
)

func (k ErrorKind) Error() string { return string(k) }

// DomainError reports a single input that falls outside the model's domain.
type DomainError struct {
	Kind   ErrorKind `json:"kind"`
	Field  string    `json:"field"`
	Reason string    `json:"reason"`
}

func newDomainError(kind ErrorKind, field, format string, args ...any) *DomainError {
	return &DomainError{Kind: kind, Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *DomainError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *DomainError) Unwrap() error { return e.Kind }

// ValidationError aggregates every DomainError found in one input record.
type ValidationError struct {
	Errors []*DomainError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, de := range e.Errors {
		parts[i] = de.Error()
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, de := range e.Errors {
		errs[i] = de
	}
	return errs
}

// Kinds returns the distinct error kinds in first-seen order.
func (e *ValidationError) Kinds() []ErrorKind {
	return distinctKinds(e.Errors)
}

func distinctKinds(errs []*DomainError) []ErrorKind {
	seen := make(map[ErrorKind]bool, len(errs))
	kinds := make([]ErrorKind, 0, len(errs))
	for _, de := range errs {
		if !seen[de.Kind] {
			seen[de.Kind] = true
			kinds = append(kinds, de.Kind)
		}
	}
	return kinds
}

package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Request is the wire record submitted for assessment.
type Request struct {
	ID      string `json:"id,omitempty"`
	CaseRef string `json:"case_ref,omitempty"`
	Input   Input  `json:"input"`
}

// Assessment is an accepted, computed request.
type Assessment struct {
	ID         string    `json:"id"`
	CaseRef    string    `json:"case_ref,omitempty"`
	Status     string    `json:"status"`
	Input      Input     `json:"input"`
	Result     Result    `json:"result"`
	ComputedAt time.Time `json:"computed_at"`
}

// Rejection reports why a request could not be assessed.
type Rejection struct {
	ID         string         `json:"id"`
	CaseRef    string         `json:"case_ref,omitempty"`
	Status     string         `json:"status"`
	Errors     []*DomainError `json:"errors"`
	RejectedAt time.Time      `json:"rejected_at"`
}

// Kinds returns the distinct error kinds of the rejection as metric labels,
// in first-seen order.
func (r Rejection) Kinds() []string {
	kinds := distinctKinds(r.Errors)
	labels := make([]string, len(kinds))
	for i, k := range kinds {
		labels[i] = string(k)
	}
	return labels
}

// ParseRequest decodes a raw message value into a Request. Unknown enum
// labels decode to their zero value and are reported by validation.
func ParseRequest(raw RawMessage) (Request, error) {
	var req Request
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return Request{}, fmt.Errorf("parse assessment request: %w", err)
	}
	if req.ID == "" && len(raw.Key) > 0 {
		req.ID = string(raw.Key)
	}
	return req, nil
}

// Assess computes a request. Requests without an ID get a deterministic one
// derived from their input, so resubmitting the same record is idempotent.
func Assess(req Request) (Assessment, error) {
	result, err := Compute(req.Input)
	if err != nil {
		return Assessment{}, err
	}
	return Assessment{
		ID:         requestID(req),
		CaseRef:    req.CaseRef,
		Status:     StatusAccepted,
		Input:      req.Input,
		Result:     result,
		ComputedAt: clock.Now().UTC(),
	}, nil
}

// Reject builds the rejection record for a failed assessment. Errors that
// are not domain errors are reported under InvalidRange with no field.
func Reject(req Request, err error) Rejection {
	var details []*DomainError
	var ve *ValidationError
	var de *DomainError
	switch {
	case errors.As(err, &ve):
		details = ve.Errors
	case errors.As(err, &de):
		details = []*DomainError{de}
	default:
		details = []*DomainError{{Kind: InvalidRange, Reason: err.Error()}}
	}
	return Rejection{
		ID:         requestID(req),
		CaseRef:    req.CaseRef,
		Status:     StatusRejected,
		Errors:     details,
		RejectedAt: clock.Now().UTC(),
	}
}

func requestID(req Request) string {
	if req.ID != "" {
		return req.ID
	}
	return generateID(req.Input)
}

// generateID hashes the canonical JSON of an input. encoding/json emits
// struct fields in declaration order, so equal inputs hash equally.
func generateID(in Input) string {
	data, err := json.Marshal(in)
	if err != nil {
		data = []byte(fmt.Sprintf("%+v", in))
	}
	hash := sha256.Sum256(data)
	return "dust-" + hex.EncodeToString(hash[:8])
}

// SerializeAssessment marshals an assessment into an output event keyed by ID.
func SerializeAssessment(a Assessment) (OutputEvent, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize assessment: %w", err)
	}
	return OutputEvent{
		Key:   []byte(a.ID),
		Value: data,
		Headers: map[string]string{
			"status":       StatusAccepted,
			"processed_at": a.ComputedAt.Format(time.RFC3339),
		},
	}, nil
}

// SerializeRejection marshals a rejection into an output event keyed by ID.
func SerializeRejection(r Rejection) (OutputEvent, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize rejection: %w", err)
	}
	return OutputEvent{
		Key:   []byte(r.ID),
		Value: data,
		Headers: map[string]string{
			"status":       StatusRejected,
			"processed_at": r.RejectedAt.Format(time.RFC3339),
		},
	}, nil
}

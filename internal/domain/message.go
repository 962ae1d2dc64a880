package domain

import (
	"context"
	"time"
)

// RawMessage is an unprocessed assessment request from the source topic.
type RawMessage struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Outcome status values carried in the "status" header and JSON body.
const (
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

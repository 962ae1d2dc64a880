package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/dust-damage-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToRawMessage(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"case_ref":"MZL-1"}`),
		Topic:     "dust-assessment-requests",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("yard-survey")},
		},
	}

	raw := mapMessageToRawMessage(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"case_ref":"MZL-1"}`, string(raw.Value))
	assert.Equal(t, "dust-assessment-requests", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "yard-survey", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestToMessage(t *testing.T) {
	processed := time.Date(2024, time.November, 27, 9, 30, 0, 0, time.UTC)
	a := domain.Assessment{
		ID:         "dust-1",
		Status:     domain.StatusAccepted,
		Input:      domain.DefaultInput(),
		ComputedAt: processed,
	}
	event, err := domain.SerializeAssessment(a)
	require.NoError(t, err)

	msg := toMessage(event)

	assert.Equal(t, []byte("dust-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"status":"accepted"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "processed_at", msg.Headers[0].Key)
	assert.Equal(t, []byte(processed.Format(time.RFC3339)), msg.Headers[0].Value)
	assert.Equal(t, "status", msg.Headers[1].Key)
	assert.Equal(t, []byte("accepted"), msg.Headers[1].Value)
}

func TestToMessage_NoHeaders(t *testing.T) {
	msg := toMessage(domain.OutputEvent{Key: []byte("k"), Value: []byte("{}")})
	assert.Empty(t, msg.Headers)
}

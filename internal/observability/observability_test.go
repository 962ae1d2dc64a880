package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "json")

	logger.Info("dropped")
	logger.Warn("kept", "assessment_id", "dust-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "dust-1", line["assessment_id"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "text")
	logger.Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestObserveRejection(t *testing.T) {
	m := NewMetricsForTesting()
	m.ObserveRejection([]string{"invalid_moisture", "invalid_range"})
	m.ObserveRejection([]string{"invalid_range"})

	assert.InDelta(t, 1, testutil.ToFloat64(m.Rejections.WithLabelValues("invalid_moisture")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Rejections.WithLabelValues("invalid_range")), 0)
}

func TestNewMetricsForTesting_Repeatable(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetricsForTesting()
		NewMetricsForTesting()
	})
}

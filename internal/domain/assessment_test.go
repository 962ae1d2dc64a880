package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCaseRef = "MZL-2024-1127"
	testRequest = `{
		"case_ref": "MZL-2024-1127",
		"input": {
			"site": {
				"ground_wind_speed": 5.0,
				"moisture_percent": 2.0,
				"particle_size": "TSP",
				"handling_count": 1,
				"load_per_handling_t": 2,
				"yard_area_m2": 453,
				"region": "urban",
				"measured_wind_speed": 5.0,
				"threshold_friction_velocity": 0.45,
				"disturbance_count": 1
			},
			"coefficients": {"hazard": 1, "environment_function": 1, "receptor_sensitivity": 1, "exceedance": 1},
			"unit_abatement_cost": 2000
		}
	}`
)

var frozen = time.Date(2024, time.November, 27, 9, 30, 0, 0, time.UTC)

func freezeClock(t *testing.T) {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(frozen))
	t.Cleanup(func() { SetClock(nil) })
}

func TestParseRequest(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		req, err := ParseRequest(RawMessage{Value: []byte(testRequest)})
		require.NoError(t, err)
		assert.Equal(t, testCaseRef, req.CaseRef)
		assert.Empty(t, req.ID)
		if diff := cmp.Diff(DefaultInput(), req.Input); diff != "" {
			t.Fatalf("input mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("key becomes id", func(t *testing.T) {
		req, err := ParseRequest(RawMessage{Key: []byte("req-7"), Value: []byte(testRequest)})
		require.NoError(t, err)
		assert.Equal(t, "req-7", req.ID)
	})

	t.Run("body id wins over key", func(t *testing.T) {
		req, err := ParseRequest(RawMessage{Key: []byte("req-7"), Value: []byte(`{"id":"body-1","input":{}}`)})
		require.NoError(t, err)
		assert.Equal(t, "body-1", req.ID)
	})

	t.Run("source labels", func(t *testing.T) {
		body := strings.Replace(strings.Replace(testRequest, `"TSP"`, `"pm2.5"`, 1), `"urban"`, `"郊区"`, 1)
		req, err := ParseRequest(RawMessage{Value: []byte(body)})
		require.NoError(t, err)
		assert.Equal(t, PM25, req.Input.Site.ParticleSize)
		assert.Equal(t, Suburban, req.Input.Site.Region)
	})

	t.Run("unknown labels surface in validation", func(t *testing.T) {
		body := strings.Replace(testRequest, `"TSP"`, `"PM1"`, 1)
		req, err := ParseRequest(RawMessage{Value: []byte(body)})
		require.NoError(t, err)
		assert.Equal(t, ParticleSizeUnknown, req.Input.Site.ParticleSize)
		assert.ErrorIs(t, Validate(req.Input), InvalidRange)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseRequest(RawMessage{Value: []byte("{invalid json")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse assessment request")
	})
}

func TestAssess(t *testing.T) {
	freezeClock(t)

	a, err := Assess(Request{CaseRef: testCaseRef, Input: DefaultInput()})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a.ID, "dust-"))
	assert.Len(t, a.ID, len("dust-")+16)
	assert.Equal(t, testCaseRef, a.CaseRef)
	assert.Equal(t, StatusAccepted, a.Status)
	assert.Equal(t, frozen, a.ComputedAt)
	assert.InDelta(t, wantDamage, a.Result.Damage.Amount, 1e-9)

	t.Run("deterministic id", func(t *testing.T) {
		b, err := Assess(Request{Input: DefaultInput()})
		require.NoError(t, err)
		assert.Equal(t, a.ID, b.ID)

		in := DefaultInput()
		in.Site.YardArea = 454
		c, err := Assess(Request{Input: in})
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, c.ID)
	})

	t.Run("caller id kept", func(t *testing.T) {
		b, err := Assess(Request{ID: "case-42", Input: DefaultInput()})
		require.NoError(t, err)
		assert.Equal(t, "case-42", b.ID)
	})

	t.Run("invalid input", func(t *testing.T) {
		in := DefaultInput()
		in.Site.MoisturePercent = 0
		_, err := Assess(Request{Input: in})
		assert.ErrorIs(t, err, InvalidMoisture)
	})
}

func TestReject(t *testing.T) {
	freezeClock(t)

	in := DefaultInput()
	in.Site.MoisturePercent = 0
	in.UnitAbatementCost = -5
	req := Request{ID: "req-1", CaseRef: testCaseRef, Input: in}
	_, err := Assess(req)
	require.Error(t, err)

	r := Reject(req, err)
	assert.Equal(t, "req-1", r.ID)
	assert.Equal(t, StatusRejected, r.Status)
	assert.Equal(t, frozen, r.RejectedAt)
	require.Len(t, r.Errors, 2)
	assert.Equal(t, InvalidMoisture, r.Errors[0].Kind)
	assert.Equal(t, InvalidCost, r.Errors[1].Kind)

	t.Run("single domain error", func(t *testing.T) {
		_, err := FrictionVelocity(5, 10, 10)
		r := Reject(Request{Input: in}, err)
		require.Len(t, r.Errors, 1)
		assert.Equal(t, InvalidRoughness, r.Errors[0].Kind)
		assert.True(t, strings.HasPrefix(r.ID, "dust-"))
	})

	t.Run("foreign error", func(t *testing.T) {
		r := Reject(Request{ID: "x"}, errors.New("boom"))
		require.Len(t, r.Errors, 1)
		assert.Equal(t, InvalidRange, r.Errors[0].Kind)
		assert.Equal(t, "boom", r.Errors[0].Reason)
	})
}

func TestSerializeAssessment(t *testing.T) {
	freezeClock(t)

	a, err := Assess(Request{ID: "evt-1", Input: DefaultInput()})
	require.NoError(t, err)

	out, err := SerializeAssessment(a)
	require.NoError(t, err)
	assert.Equal(t, []byte("evt-1"), out.Key)
	assert.Equal(t, StatusAccepted, out.Headers["status"])
	assert.Equal(t, "2024-11-27T09:30:00Z", out.Headers["processed_at"])
	assert.Contains(t, string(out.Value), `"particle_size":"TSP"`)
	assert.Contains(t, string(out.Value), `"region":"urban"`)

	var roundtrip Assessment
	require.NoError(t, json.Unmarshal(out.Value, &roundtrip))
	if diff := cmp.Diff(a, roundtrip); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestRejectionKinds(t *testing.T) {
	r := Rejection{Errors: []*DomainError{
		{Kind: InvalidRange, Field: "site.yard_area_m2"},
		{Kind: InvalidMoisture, Field: "site.moisture_percent"},
		{Kind: InvalidRange, Field: "site.handling_count"},
	}}
	assert.Equal(t, []string{"invalid_range", "invalid_moisture"}, r.Kinds())
	assert.Empty(t, Rejection{}.Kinds())
}

func TestSerializeRejection(t *testing.T) {
	freezeClock(t)

	in := DefaultInput()
	in.Site.MoisturePercent = 0
	req := Request{ID: "evt-2", Input: in}
	_, err := Assess(req)
	require.Error(t, err)

	out, err := SerializeRejection(Reject(req, err))
	require.NoError(t, err)
	assert.Equal(t, []byte("evt-2"), out.Key)
	assert.Equal(t, StatusRejected, out.Headers["status"])
	assert.Contains(t, string(out.Value), `"kind":"invalid_moisture"`)
	assert.Contains(t, string(out.Value), `"field":"site.moisture_percent"`)
}

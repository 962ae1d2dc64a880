package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/couchcryptid/dust-damage-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// workbook builds an in-memory xlsx with rows written from A1.
func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

// Columns deliberately out of canonical order and in mixed case.
var inputHeader = []any{
	"Case_Ref", "particle_size", "region", "ground_wind_speed", "moisture_percent",
	"handling_count", "load_per_handling_t", "yard_area_m2", "measured_wind_speed",
	"threshold_friction_velocity", "disturbance_count", "hazard", "environment_function",
	"receptor_sensitivity", "exceedance", "UNIT_ABATEMENT_COST",
}

func inputRow(caseRef string, moisture, area any) []any {
	return []any{caseRef, "TSP", "urban", 5.0, moisture, 1, 2, area, 5.0, 0.45, 1, 1, 1, 1, 1, 2000}
}

func TestReadRequests(t *testing.T) {
	buf := workbook(t,
		inputHeader,
		inputRow("MZL-1", 2.0, 453),
		[]any{},
		inputRow("MZL-2", 0, 453),
		inputRow("MZL-3", 2.0, "large"),
	)

	rows, err := ReadRequests(buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, 2, rows[0].Row)
	require.NoError(t, rows[0].Err)
	assert.Equal(t, "MZL-1", rows[0].Request.CaseRef)
	assert.Equal(t, domain.DefaultInput(), rows[0].Request.Input)

	assert.Equal(t, 4, rows[1].Row)
	require.NoError(t, rows[1].Err)

	assert.Equal(t, 5, rows[2].Row)
	require.Error(t, rows[2].Err)
	assert.Contains(t, rows[2].Err.Error(), "row 5")
	assert.Contains(t, rows[2].Err.Error(), "yard_area_m2")
}

func TestReadRequests_MissingColumns(t *testing.T) {
	buf := workbook(t,
		[]any{"case_ref", "ground_wind_speed"},
		[]any{"MZL-1", 5.0},
	)
	_, err := ReadRequests(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "moisture_percent")
	assert.NotContains(t, err.Error(), "case_ref")
}

func TestReadRequests_NoDataRows(t *testing.T) {
	_, err := ReadRequests(workbook(t, inputHeader))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}

func TestReadRequests_FractionalCount(t *testing.T) {
	row := inputRow("MZL-1", 2.0, 453)
	row[5] = 1.5 // handling_count
	rows, err := ReadRequests(workbook(t, inputHeader, row))
	require.NoError(t, err)
	require.Error(t, rows[0].Err)
	assert.Contains(t, rows[0].Err.Error(), "handling_count")
}

func TestEvaluate(t *testing.T) {
	rows, err := ReadRequests(workbook(t,
		inputHeader,
		inputRow("MZL-1", 2.0, 453),
		inputRow("MZL-2", 0, 453),
		inputRow("MZL-3", 2.0, "large"),
	))
	require.NoError(t, err)

	outcomes := Evaluate(rows)
	require.Len(t, outcomes, 3)

	require.NotNil(t, outcomes[0].Assessment)
	assert.InDelta(t, 36.34675520264749, outcomes[0].Assessment.Result.Damage.Amount, 1e-9)

	require.NotNil(t, outcomes[1].Rejection)
	assert.Equal(t, domain.InvalidMoisture, outcomes[1].Rejection.Errors[0].Kind)

	assert.Nil(t, outcomes[2].Assessment)
	assert.Nil(t, outcomes[2].Rejection)
	require.Error(t, outcomes[2].Err)
}

func TestWriteAndReadResults(t *testing.T) {
	rows, err := ReadRequests(workbook(t,
		inputHeader,
		inputRow("MZL-1", 2.0, 453),
		inputRow("MZL-2", 0, 453),
	))
	require.NoError(t, err)
	outcomes := Evaluate(rows)

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, outcomes))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, ResultsSheet, f.GetSheetName(0))
	require.NoError(t, f.Close())

	results, err := ReadResults(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, results, 2)

	accepted := results[0]
	assert.Equal(t, domain.StatusAccepted, accepted.Status)
	assert.Equal(t, "MZL-1", accepted.Request.CaseRef)
	assert.Equal(t, domain.DefaultInput(), accepted.Request.Input)

	want := outcomes[0].Assessment.Result
	assert.InDelta(t, want.Emission.Loading.MassT, accepted.Recorded.Emission.Loading.MassT, 1e-15)
	assert.InDelta(t, want.Emission.Erosion.MassT, accepted.Recorded.Emission.Erosion.MassT, 1e-15)
	assert.InDelta(t, want.Emission.TotalEmissionT, accepted.Recorded.Emission.TotalEmissionT, 1e-15)
	assert.InDelta(t, want.Damage.Amount, accepted.Recorded.Damage.Amount, 1e-9)
	assert.InDelta(t, 2.0, accepted.Recorded.Damage.AdjustmentCoefficient, 0)
	assert.Empty(t, accepted.Errors)

	rejected := results[1]
	assert.Equal(t, domain.StatusRejected, rejected.Status)
	assert.Contains(t, rejected.Errors, "invalid_moisture")
	assert.Contains(t, rejected.Errors, "site.moisture_percent")
}

func TestWriteResults_ParseErrorRow(t *testing.T) {
	outcomes := []Outcome{{Row: 2, Err: assert.AnError}}

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, outcomes))

	results, err := ReadResults(&buf)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusRejected, results[0].Status)
	assert.Equal(t, assert.AnError.Error(), results[0].Errors)
}

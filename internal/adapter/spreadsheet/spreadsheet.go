// Package spreadsheet imports assessment requests from xlsx workbooks and
// exports computed results.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/dust-damage-service/internal/domain"
	"github.com/xuri/excelize/v2"
)

// RequestRow is one data row of an input workbook. Err is set when the row
// could not be parsed; Request is then incomplete.
type RequestRow struct {
	Row     int
	Request domain.Request
	Err     error
}

// Outcome is the assessment of one input row.
type Outcome struct {
	Row        int
	Request    domain.Request
	Assessment *domain.Assessment
	Rejection  *domain.Rejection
	Err        error
}

// ResultRow is one row read back from a results workbook.
type ResultRow struct {
	Row     int
	Request domain.Request
	Status  string
	// Recorded holds the computed values stored in the row. Only the
	// columns written by WriteResults are populated.
	Recorded domain.Result
	Errors   string
}

// ReadRequests reads one request per data row from the first sheet. The
// header row names the columns; their order is free and names are matched
// case-insensitively.
func ReadRequests(r io.Reader) ([]RequestRow, error) {
	rows, err := readSheet(r, "")
	if err != nil {
		return nil, err
	}

	index, err := headerIndex(rows[0], requestColumns)
	if err != nil {
		return nil, err
	}

	out := make([]RequestRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rowNum := i + 2
		req, err := parseRequest(cells{row: row, index: index})
		if err != nil {
			err = fmt.Errorf("row %d: %w", rowNum, err)
		}
		out = append(out, RequestRow{Row: rowNum, Request: req, Err: err})
	}
	return out, nil
}

// Evaluate assesses every parsed row. Rows that failed to parse carry their
// parse error through; rows that fail validation carry a Rejection.
func Evaluate(rows []RequestRow) []Outcome {
	out := make([]Outcome, len(rows))
	for i, row := range rows {
		o := Outcome{Row: row.Row, Request: row.Request}
		switch {
		case row.Err != nil:
			o.Err = row.Err
		default:
			a, err := domain.Assess(row.Request)
			if err != nil {
				rej := domain.Reject(row.Request, err)
				o.Rejection = &rej
			} else {
				o.Assessment = &a
			}
		}
		out[i] = o
	}
	return out
}

// WriteResults writes a workbook with a Results sheet holding each
// outcome's inputs, intermediate values, damage, status and errors.
func WriteResults(w io.Writer, outcomes []Outcome) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ResultsSheet); err != nil {
		return fmt.Errorf("create results sheet: %w", err)
	}

	header := make([]any, 0, len(requestColumns)+len(resultColumns))
	for _, c := range requestColumns {
		header = append(header, c)
	}
	for _, c := range resultColumns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, o := range outcomes {
		values := append(requestValues(o.Request), outcomeValues(o)...)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ResultsSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func outcomeValues(o Outcome) []any {
	if o.Assessment != nil {
		return resultValues(o.Assessment.Result)
	}

	values := make([]any, len(resultColumns))
	for i := range values {
		values[i] = ""
	}
	values[0] = domain.StatusRejected
	switch {
	case o.Rejection != nil:
		msgs := make([]string, len(o.Rejection.Errors))
		for i, e := range o.Rejection.Errors {
			msgs[i] = fmt.Sprintf("%s: %s", e.Kind, e.Error())
		}
		values[len(values)-1] = strings.Join(msgs, "; ")
	case o.Err != nil:
		values[len(values)-1] = o.Err.Error()
	}
	return values
}

// ReadResults reads a workbook produced by WriteResults.
func ReadResults(r io.Reader) ([]ResultRow, error) {
	rows, err := readSheet(r, ResultsSheet)
	if err != nil {
		return nil, err
	}

	index, err := headerIndex(rows[0], append(append([]string(nil), requestColumns...), resultColumns...))
	if err != nil {
		return nil, err
	}

	out := make([]ResultRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rowNum := i + 2
		c := cells{row: row, index: index}
		res := ResultRow{
			Row:    rowNum,
			Status: c.str(colStatus),
			Errors: c.str(colErrors),
		}
		// Rejected rows may hold unparseable inputs; keep what parses.
		res.Request, err = parseRequest(c)
		if err != nil && res.Status == domain.StatusAccepted {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		if res.Status == domain.StatusAccepted {
			if res.Recorded, err = parseRecorded(c); err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
		}
		out = append(out, res)
	}
	return out, nil
}

func readSheet(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}
	return rows, nil
}

func headerIndex(header []string, want []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, c := range want {
		if _, ok := index[c]; !ok && !optionalColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// cells reads named values from one row, collecting the first error.
type cells struct {
	row   []string
	index map[string]int
	errs  []error
}

func (c *cells) str(name string) string {
	i, ok := c.index[name]
	if !ok || i >= len(c.row) {
		return ""
	}
	return strings.TrimSpace(c.row[i])
}

func (c *cells) float(name string) float64 {
	s := c.str(name)
	if s == "" {
		c.errs = append(c.errs, fmt.Errorf("%s: missing value", name))
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.errs = append(c.errs, fmt.Errorf("%s: not a number: %q", name, s))
		return 0
	}
	return v
}

func (c *cells) int(name string) int {
	v := c.float(name)
	if v != math.Trunc(v) {
		c.errs = append(c.errs, fmt.Errorf("%s: not a whole number: %v", name, v))
		return 0
	}
	return int(v)
}

func (c *cells) text(name string, dst interface{ UnmarshalText([]byte) error }) {
	if err := dst.UnmarshalText([]byte(c.str(name))); err != nil {
		c.errs = append(c.errs, fmt.Errorf("%s: %w", name, err))
	}
}

func (c *cells) err() error {
	return errors.Join(c.errs...)
}

func parseRequest(c cells) (domain.Request, error) {
	req := domain.Request{
		ID:      c.str(colID),
		CaseRef: c.str(colCaseRef),
	}
	s := &req.Input.Site
	s.GroundWindSpeed = c.float(colGroundWindSpeed)
	s.MoisturePercent = c.float(colMoisturePercent)
	c.text(colParticleSize, &s.ParticleSize)
	s.HandlingCount = c.int(colHandlingCount)
	s.LoadPerHandling = c.float(colLoadPerHandling)
	s.YardArea = c.float(colYardArea)
	c.text(colRegion, &s.Region)
	s.MeasuredWindSpeed = c.float(colMeasuredWindSpeed)
	s.ThresholdFrictionVelocity = c.float(colThresholdFriction)
	s.DisturbanceCount = c.int(colDisturbanceCount)

	co := &req.Input.Coefficients
	co.Hazard = c.float(colHazard)
	co.EnvironmentFunction = c.float(colEnvironmentFunction)
	co.ReceptorSensitivity = c.float(colReceptorSensitivity)
	co.Exceedance = c.float(colExceedance)
	req.Input.UnitAbatementCost = c.float(colUnitAbatementCost)

	return req, c.err()
}

func parseRecorded(c cells) (domain.Result, error) {
	var r domain.Result
	r.Emission.Loading.EmissionFactor = c.float(colLoadingFactor)
	r.Emission.Loading.MassT = c.float(colLoadingMassT)
	r.Emission.Erosion.FrictionVelocity = c.float(colFrictionVelocity)
	r.Emission.Erosion.Potential = c.float(colPotential)
	r.Emission.Erosion.EmissionFactor = c.float(colErosionFactor)
	r.Emission.Erosion.MassT = c.float(colErosionMassT)
	r.Emission.TotalEmissionT = c.float(colTotalEmissionT)
	r.Damage.AdjustmentCoefficient = c.float(colAdjustmentCoefficient)
	r.Damage.UnitAbatementCost = c.float(colUnitAbatementCost)
	r.Damage.Amount = c.float(colDamage)
	return r, c.err()
}

package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.ngs.io/perf-worksheet/internal/adapter/store"
	"go.ngs.io/perf-worksheet/internal/domain"
	"go.ngs.io/perf-worksheet/internal/interp"
	"go.ngs.io/perf-worksheet/internal/log"
)

// memAircraft is an in-memory AircraftLoader.
type memAircraft map[string]domain.Aircraft

func (m memAircraft) LoadAircraft(id string) (*domain.Aircraft, error) {
	a, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrAircraftNotFound, id)
	}
	return &a, nil
}

func (m memAircraft) ListAircraft() ([]string, error) {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids, nil
}

func c172s() domain.Aircraft {
	return domain.Aircraft{
		ID:             "C172S",
		MaxGrossWeight: 2550,
		ClimbPerformance: domain.ClimbPerformance{
			PressureAltitudes: []float64{0, 2000, 4000, 6000, 8000, 10000, 12000},
			Temperatures:      []float64{-20, 0, 20, 40},
			Data: [][]float64{
				{855, 785, 710, 645},
				{760, 695, 625, 560},
				{685, 620, 555, 495},
				{575, 515, 450, 390},
				{465, 405, 345, 285},
				{360, 300, 240, 180},
				{255, 195, 135, 80},
			},
			ClimbSpeeds: []float64{74, 73, 72, 71, 70, 69, 68},
		},
		Maneuvering: domain.Maneuvering{
			Weights: []float64{1900, 2200, 2550},
			Va:      []float64{90, 96, 105},
		},
	}
}

func newTestUseCase(strict bool) (*WorksheetUseCase, *bytes.Buffer) {
	var buf bytes.Buffer
	lg := log.NewWriter(&buf, "debug")
	return NewWorksheetUseCase(memAircraft{"C172S": c172s()}, lg, strict), &buf
}

func valueOf(t *testing.T, name string, f Figure) int {
	t.Helper()
	if f.Value == nil {
		t.Fatalf("%s = %s (%s), want a value", name, f.Text, f.Error)
	}
	return *f.Value
}

func TestDecodeEncode(t *testing.T) {
	uc, buf := newTestUseCase(false)

	if ws := uc.Decode(""); ws.Performance.Altitude.Departure != 8000 {
		t.Errorf("Decode(\"\") did not return the default worksheet")
	}
	if buf.Len() != 0 {
		t.Errorf("empty state should not log: %s", buf.String())
	}

	ws := domain.DefaultWorksheet()
	ws.Sortie.Pilot = "Jane Doe"
	ws.Performance.Temperature.Arrival = 30
	data, err := uc.Encode(ws)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got := uc.Decode(data)
	if got.Sortie.Pilot != "Jane Doe" || got.Performance.Temperature.Arrival != 30 {
		t.Errorf("Decode(Encode(ws)) = %+v", got)
	}

	buf.Reset()
	bad := uc.Decode("%7B%22sortie%22%3A")
	if bad.Sortie.Pilot != "" || bad.Performance.Altitude.Departure != 8000 {
		t.Errorf("corrupt state did not fall back to the default worksheet")
	}
	if !strings.Contains(buf.String(), "WARN") {
		t.Errorf("corrupt state was not logged")
	}

	// A type mismatch part way through must not leave a half-decoded worksheet.
	mixed := uc.Decode(`{"sortie":{"pilot":"X"},"perf":{"temp":{"dep":"warm"}}}`)
	if mixed.Sortie.Pilot != "" {
		t.Errorf("partially decoded worksheet returned: %+v", mixed.Sortie)
	}
}

func TestShareURL(t *testing.T) {
	uc, _ := newTestUseCase(false)
	ws := domain.DefaultWorksheet()

	got, err := uc.ShareURL("https://example.com/worksheet", ws)
	if err != nil {
		t.Fatalf("ShareURL: %v", err)
	}
	if !strings.HasPrefix(got, "https://example.com/worksheet?data=%7B") {
		t.Errorf("ShareURL() = %s", got)
	}

	got, err = uc.ShareURL("https://example.com/?tab=perf", ws)
	if err != nil {
		t.Fatalf("ShareURL: %v", err)
	}
	if !strings.HasPrefix(got, "https://example.com/?tab=perf&data=") {
		t.Errorf("ShareURL() = %s", got)
	}
}

func TestCalculateWithoutAircraft(t *testing.T) {
	uc, _ := newTestUseCase(false)
	calc, err := uc.Calculate(domain.DefaultWorksheet())
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	for _, leg := range domain.AllLegs {
		lf := calc.Legs[leg]
		if pa := valueOf(t, "pressure altitude", lf.PressureAltitude); pa != 8000 {
			t.Errorf("%s pressure altitude = %d, want 8000", leg, pa)
		}
		if da := valueOf(t, "density altitude", lf.DensityAltitude); da != 10640 {
			t.Errorf("%s density altitude = %d, want 10640", leg, da)
		}
		if lf.RateOfClimbMGW.Text != TBD || lf.Vy.Text != TBD {
			t.Errorf("%s climb figures should be TBD without an aircraft", leg)
		}
	}
	if calc.Va.Text != TBD || calc.ServiceCeiling.Text != TBD || calc.PercentMGW.Text != TBD {
		t.Errorf("aircraft figures should be TBD: %+v", calc)
	}
}

func TestCalculate(t *testing.T) {
	uc, _ := newTestUseCase(false)
	ws := domain.DefaultWorksheet()
	ws.Sortie.Aircraft = "C172S"
	w := 2300.0
	ws.SetWeight(&w)

	calc, err := uc.Calculate(ws)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	lf := calc.Legs[domain.Departure]
	tests := []struct {
		name     string
		fig      Figure
		expected int
	}{
		{"roc at max gross", lf.RateOfClimbMGW, 342},
		{"roc", lf.RateOfClimb, 376},
		{"vy", lf.Vy, 70},
		{"vx", lf.Vx, 63},
		{"va", calc.Va, 99},
		{"percent mgw", calc.PercentMGW, 90},
		{"service ceiling", calc.ServiceCeiling, 8800},
	}
	for _, tt := range tests {
		if got := valueOf(t, tt.name, tt.fig); got != tt.expected {
			t.Errorf("%s = %d, want %d", tt.name, got, tt.expected)
		}
	}
	if calc.WeightBand != domain.WeightCaution {
		t.Errorf("weight band = %s, want %s", calc.WeightBand, domain.WeightCaution)
	}
}

func TestCalculateWithoutWeight(t *testing.T) {
	uc, _ := newTestUseCase(false)
	ws := domain.DefaultWorksheet()
	ws.Sortie.Aircraft = "C172S"

	calc, err := uc.Calculate(ws)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	lf := calc.Legs[domain.Operating]
	if got := valueOf(t, "roc at max gross", lf.RateOfClimbMGW); got != 342 {
		t.Errorf("roc at max gross = %d, want 342", got)
	}
	if lf.RateOfClimb.Text != TBD {
		t.Errorf("actual roc should be TBD without a weight, got %s", lf.RateOfClimb.Text)
	}
	if calc.Va.Text != TBD || calc.WeightBand != "" {
		t.Errorf("weight figures should be TBD: %+v", calc)
	}
	valueOf(t, "service ceiling", calc.ServiceCeiling)
}

func TestCalculateUnknownAircraft(t *testing.T) {
	uc, _ := newTestUseCase(false)
	ws := domain.DefaultWorksheet()
	ws.Sortie.Aircraft = "PA28"

	_, err := uc.Calculate(ws)
	if !errors.Is(err, store.ErrAircraftNotFound) {
		t.Errorf("Calculate() error = %v, want ErrAircraftNotFound", err)
	}
}

func TestCalculateStrictTables(t *testing.T) {
	uc, buf := newTestUseCase(true)
	ws := domain.DefaultWorksheet()
	ws.Sortie.Aircraft = "C172S"
	ws.Performance.Altitude.Operating = 14000

	calc, err := uc.Calculate(ws)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	op := calc.Legs[domain.Operating]
	if op.RateOfClimbMGW.Text != TBD || !strings.Contains(op.RateOfClimbMGW.Error, "outside table range") {
		t.Errorf("operating roc = %+v, want TBD with a range error", op.RateOfClimbMGW)
	}
	if calc.Legs[domain.Departure].RateOfClimbMGW.Value == nil {
		t.Errorf("departure roc should still be computed")
	}
	if !strings.Contains(buf.String(), "rate of climb unavailable") {
		t.Errorf("range failure was not logged")
	}

	rec := findRecord(t, buf, "rate of climb unavailable")
	if rec["leg"] != string(domain.Operating) || rec["aircraft"] != "C172S" {
		t.Errorf("log record missing leg context: %v", rec)
	}
}

// findRecord returns the first JSON log record with the given message.
func findRecord(t *testing.T, buf *bytes.Buffer, msg string) map[string]any {
	t.Helper()
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("log line is not JSON: %q", line)
		}
		if rec["msg"] == msg {
			return rec
		}
	}
	t.Fatalf("no %q record in log", msg)
	return nil
}

func TestCalculateWarnsOnExtrapolation(t *testing.T) {
	uc, buf := newTestUseCase(false)
	ws := domain.DefaultWorksheet()
	ws.Sortie.Aircraft = "C172S"
	ws.Performance.Altitude.Operating = 14000

	calc, err := uc.Calculate(ws)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if calc.Legs[domain.Operating].RateOfClimbMGW.Value == nil {
		t.Errorf("operating roc should be extrapolated")
	}
	if !strings.Contains(buf.String(), "extrapolating outside table bounds") {
		t.Errorf("extrapolation warning was not logged")
	}
	if rec := findRecord(t, buf, "extrapolating outside table bounds"); rec["leg"] != string(domain.Operating) {
		t.Errorf("extrapolation warning leg = %v, want operating", rec["leg"])
	}
	if rec := findRecord(t, buf, "worksheet calculated"); rec["level"] != "DEBUG" {
		t.Errorf("calculation summary level = %v, want DEBUG", rec["level"])
	}
}

func TestAltitudes(t *testing.T) {
	uc, _ := newTestUseCase(false)
	got := uc.Altitudes(5000, 30.92, 15)
	if got.PressureAltitudeRound != 4000 {
		t.Errorf("pressure altitude = %d, want 4000", got.PressureAltitudeRound)
	}
	if got.StandardTemperatureC < 6.999 || got.StandardTemperatureC > 7.001 {
		t.Errorf("standard temperature = %g, want 7", got.StandardTemperatureC)
	}
	if got.DensityAltitudeRound != 4960 {
		t.Errorf("density altitude = %d, want 4960", got.DensityAltitudeRound)
	}
}

func TestInterpolate(t *testing.T) {
	uc, _ := newTestUseCase(false)
	table := interp.Table{
		XAxis: []float64{0, 10},
		YAxis: []float64{0, 10},
		Data:  [][]float64{{0, 10}, {10, 20}},
	}

	res, err := uc.Interpolate(InterpolateRequest{Table: table, X: 5, Y: 5})
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	if res.Value != 10 || res.WasExtrapolated {
		t.Errorf("Interpolate() = %+v", res)
	}

	res, err = uc.Interpolate(InterpolateRequest{Table: table, X: 15, Y: 5})
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	if res.Value != 20 || !res.WasExtrapolated {
		t.Errorf("Interpolate() = %+v, want extrapolated 20", res)
	}

	no := false
	_, err = uc.Interpolate(InterpolateRequest{Table: table, X: 15, Y: 5, AllowExtrapolation: &no})
	if !IsInputError(err) {
		t.Errorf("expected a range error, got %v", err)
	}

	_, err = uc.Interpolate(InterpolateRequest{Table: interp.Table{}, X: 1, Y: 1})
	if !IsInputError(err) {
		t.Errorf("expected a validation error, got %v", err)
	}
	if IsInputError(errors.New("disk on fire")) {
		t.Errorf("unrelated error reported as input error")
	}
}

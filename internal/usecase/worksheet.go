package usecase

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"go.ngs.io/perf-worksheet/internal/adapter/store"
	"go.ngs.io/perf-worksheet/internal/domain"
	"go.ngs.io/perf-worksheet/internal/interp"
	"go.ngs.io/perf-worksheet/internal/log"
	"go.ngs.io/perf-worksheet/internal/urlstate"
)

// TBD is shown in place of a figure that cannot be computed.
const TBD = "TBD"

// Figure is one derived number on the worksheet. Value is nil and Text is
// TBD when it could not be computed; Error then says why.
type Figure struct {
	Value *int   `json:"value"`
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

func figure(v int) Figure {
	return Figure{Value: &v, Text: strconv.Itoa(v)}
}

func unknown(reason string) Figure {
	return Figure{Text: TBD, Error: reason}
}

// LegFigures are the derived figures for one leg of the sortie.
type LegFigures struct {
	PressureAltitude Figure `json:"pressure_altitude"`
	DensityAltitude  Figure `json:"density_altitude"`
	RateOfClimbMGW   Figure `json:"roc_mgw"`
	RateOfClimb      Figure `json:"roc"`
	Vx               Figure `json:"vx"`
	Vy               Figure `json:"vy"`
}

// Calculations are the figures derived from a worksheet.
type Calculations struct {
	Aircraft       string                    `json:"aircraft,omitempty"`
	Legs           map[domain.Leg]LegFigures `json:"legs"`
	Va             Figure                    `json:"va"`
	PercentMGW     Figure                    `json:"percent_mgw"`
	WeightBand     domain.WeightBand         `json:"weight_band,omitempty"`
	ServiceCeiling Figure                    `json:"service_ceiling"`
}

// AltitudesResponse holds pressure and density altitude for one reading.
type AltitudesResponse struct {
	PressureAltitudeFt    float64 `json:"pressure_altitude_ft"`
	DensityAltitudeFt     float64 `json:"density_altitude_ft"`
	StandardTemperatureC  float64 `json:"standard_temperature_c"`
	PressureAltitudeRound int     `json:"pressure_altitude_rounded"`
	DensityAltitudeRound  int     `json:"density_altitude_rounded"`
}

// InterpolateRequest is an ad-hoc table lookup.
type InterpolateRequest struct {
	Table               interp.Table `json:"table"`
	X                   float64      `json:"x"`
	Y                   float64      `json:"y"`
	AllowExtrapolation  *bool        `json:"allow_extrapolation"`
	WarnOnExtrapolation *bool        `json:"warn_on_extrapolation"`
}

// WorksheetUseCase decodes, encodes, and evaluates worksheets.
type WorksheetUseCase struct {
	aircraft store.AircraftLoader
	codec    *urlstate.Codec
	lg       *log.Logger
	opts     interp.Options
}

// NewWorksheetUseCase creates a new worksheet use case. With strictTables
// set, lookups outside an aircraft's charts fail instead of extrapolating.
func NewWorksheetUseCase(aircraft store.AircraftLoader, lg *log.Logger, strictTables bool) *WorksheetUseCase {
	opts := interp.DefaultOptions()
	opts.AllowExtrapolation = !strictTables
	opts.WarnOnExtrapolation = true
	opts.Logger = lg

	return &WorksheetUseCase{
		aircraft: aircraft,
		codec:    urlstate.NewCodec(lg),
		lg:       lg,
		opts:     opts,
	}
}

// Decode returns the worksheet carried in a data parameter. Missing or
// unreadable state yields the default worksheet.
func (uc *WorksheetUseCase) Decode(data string) domain.Worksheet {
	ws := domain.DefaultWorksheet()
	if data == "" {
		return ws
	}
	if !uc.codec.DeserializeInto(data, &ws) {
		return domain.DefaultWorksheet()
	}
	return ws
}

// Encode returns the data parameter value for ws.
func (uc *WorksheetUseCase) Encode(ws domain.Worksheet) (string, error) {
	return uc.codec.Serialize(ws)
}

// ShareURL returns base with ws attached as the data parameter, or base
// alone if ws has nothing to carry.
func (uc *WorksheetUseCase) ShareURL(base string, ws domain.Worksheet) (string, error) {
	data, err := uc.Encode(ws)
	if err != nil {
		return "", err
	}
	if data == "" {
		return base, nil
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + urlstate.Param + "=" + data, nil
}

// ListAircraft returns the ids of all known aircraft.
func (uc *WorksheetUseCase) ListAircraft() ([]string, error) {
	return uc.aircraft.ListAircraft()
}

// GetAircraft returns the profile for an aircraft id.
func (uc *WorksheetUseCase) GetAircraft(id string) (*domain.Aircraft, error) {
	return uc.aircraft.LoadAircraft(id)
}

// Calculate derives the worksheet figures. Figures that need an aircraft
// or a weight are TBD when those are missing; an aircraft id with no
// profile is an error.
func (uc *WorksheetUseCase) Calculate(ws domain.Worksheet) (*Calculations, error) {
	calc := &Calculations{
		Aircraft: ws.Sortie.Aircraft,
		Legs:     make(map[domain.Leg]LegFigures, len(domain.AllLegs)),
	}
	lg := uc.lg.With(slog.String("aircraft", ws.Sortie.Aircraft))

	var aircraft *domain.Aircraft
	if ws.Sortie.Aircraft != "" {
		a, err := uc.aircraft.LoadAircraft(ws.Sortie.Aircraft)
		if err != nil {
			return nil, fmt.Errorf("failed to load aircraft: %w", err)
		}
		aircraft = a
	}

	percent, havePercent := 0, false
	switch {
	case aircraft == nil:
		calc.Va = unknown("no aircraft selected")
		calc.PercentMGW = unknown("no aircraft selected")
		calc.ServiceCeiling = unknown("no aircraft selected")
	case ws.Weight.Pounds == nil:
		calc.Va = unknown("weight not entered")
		calc.PercentMGW = unknown("weight not entered")
	default:
		weight := *ws.Weight.Pounds
		percent, havePercent = aircraft.PercentMGW(weight), true
		calc.PercentMGW = figure(percent)
		calc.WeightBand = domain.BandForPercentMGW(percent)
		calc.Va = compute(lg, func() (int, error) { return aircraft.Va(weight, uc.opts) })
	}
	if aircraft != nil {
		oat := ws.Performance.Temperature.Departure
		calc.ServiceCeiling = compute(lg, func() (int, error) { return aircraft.ServiceCeiling(oat) })
	}

	for _, leg := range domain.AllLegs {
		pa := domain.PressureAltitude(ws.Performance.Altitude.Get(leg), ws.Performance.Altimeter.Get(leg))
		oat := ws.Performance.Temperature.Get(leg)
		lf := LegFigures{
			PressureAltitude: figure(roundInt(pa)),
			DensityAltitude:  figure(roundInt(domain.DensityAltitude(pa, oat))),
		}

		if aircraft == nil {
			lf.RateOfClimbMGW = unknown("no aircraft selected")
			lf.RateOfClimb = unknown("no aircraft selected")
			lf.Vx = unknown("no aircraft selected")
			lf.Vy = unknown("no aircraft selected")
			calc.Legs[leg] = lf
			continue
		}

		lf.Vy = figure(roundInt(aircraft.Vy(pa)))
		lf.Vx = figure(aircraft.Vx(pa))

		legLg := lg.With(slog.String("leg", string(leg)))
		opts := uc.opts
		opts.Logger = legLg

		roc, err := aircraft.RateOfClimb(pa, oat, opts)
		switch {
		case err != nil:
			legLg.Warn("rate of climb unavailable", slog.Any("error", err))
			lf.RateOfClimbMGW = unknown(err.Error())
			lf.RateOfClimb = unknown(err.Error())
		case !havePercent:
			lf.RateOfClimbMGW = figure(roc)
			lf.RateOfClimb = unknown("weight not entered")
		default:
			lf.RateOfClimbMGW = figure(roc)
			lf.RateOfClimb = figure(domain.ActualRateOfClimb(roc, percent))
		}
		calc.Legs[leg] = lf
	}

	lg.Debug("worksheet calculated", slog.String("va", calc.Va.Text),
		slog.String("percent_mgw", calc.PercentMGW.Text), slog.String("service_ceiling", calc.ServiceCeiling.Text))
	return calc, nil
}

func compute(lg *log.Logger, f func() (int, error)) Figure {
	v, err := f()
	if err != nil {
		lg.Warn("figure unavailable", slog.Any("error", err))
		return unknown(err.Error())
	}
	return figure(v)
}

// Altitudes computes pressure and density altitude for an indicated
// altitude, altimeter setting, and temperature in °C.
func (uc *WorksheetUseCase) Altitudes(altitudeFt, altimeterInHg, tempC float64) AltitudesResponse {
	pa := domain.PressureAltitude(altitudeFt, altimeterInHg)
	da := domain.DensityAltitude(pa, tempC)
	return AltitudesResponse{
		PressureAltitudeFt:    pa,
		DensityAltitudeFt:     da,
		StandardTemperatureC:  domain.StandardTemperatureC(pa),
		PressureAltitudeRound: roundInt(pa),
		DensityAltitudeRound:  roundInt(da),
	}
}

// Interpolate evaluates an arbitrary table. Unset options take the
// defaults.
func (uc *WorksheetUseCase) Interpolate(req InterpolateRequest) (*interp.Result, error) {
	opts := interp.DefaultOptions()
	opts.Logger = uc.lg
	if req.AllowExtrapolation != nil {
		opts.AllowExtrapolation = *req.AllowExtrapolation
	}
	if req.WarnOnExtrapolation != nil {
		opts.WarnOnExtrapolation = *req.WarnOnExtrapolation
	}

	res, err := interp.InterpolateDetailed(req.Table, req.X, req.Y, opts)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// IsInputError reports whether err was caused by the caller's input rather
// than by the server.
func IsInputError(err error) bool {
	var ve *interp.ValidationError
	var re *interp.RangeError
	return errors.As(err, &ve) || errors.As(err, &re)
}

func roundInt(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Command climb-generator writes the climb charts of an aircraft data file
// as per-aircraft NetCDF grids or CSV tables, optionally resampled onto a
// finer pressure-altitude step.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go.ngs.io/perf-worksheet/internal/adapter/store/climbgrid"
	"go.ngs.io/perf-worksheet/internal/adapter/store/csv"
	"go.ngs.io/perf-worksheet/internal/adapter/store/profile"
	"go.ngs.io/perf-worksheet/internal/domain"
	"go.ngs.io/perf-worksheet/internal/interp"
	"go.ngs.io/perf-worksheet/internal/log"
)

func main() {
	// Command line flags
	aircraftPath := flag.String("aircraft", "./data/aircraft.json", "Path to aircraft data JSON file")
	outDir := flag.String("out", "./data/climb", "Output directory for climb charts")
	format := flag.String("format", "nc", "Output format: nc, csv, or both")
	only := flag.String("id", "", "Aircraft id to export (default: all)")
	step := flag.Float64("step", 0, "Resample pressure altitude to this step in ft (0 keeps the chart rows)")
	logLevel := flag.String("log-level", "info", "Log level")

	flag.Parse()

	lg := log.NewWriter(os.Stderr, *logLevel)

	writeNC, writeCSV := false, false
	switch *format {
	case "nc":
		writeNC = true
	case "csv":
		writeCSV = true
	case "both":
		writeNC, writeCSV = true, true
	default:
		lg.Errorf("Unknown format: %s (use nc, csv, or both)", *format)
		os.Exit(2)
	}

	profiles := profile.NewStore(*aircraftPath, nil)
	ids, err := profiles.ListAircraft()
	if err != nil {
		lg.Error("Failed to load aircraft data", slog.Any("error", err))
		os.Exit(1)
	}
	if *only != "" {
		ids = []string{*only}
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		lg.Error("Failed to create output directory", slog.Any("error", err))
		os.Exit(1)
	}

	for _, id := range ids {
		a, err := profiles.LoadAircraft(id)
		if err != nil {
			lg.Error("Failed to load aircraft", slog.String("id", id), slog.Any("error", err))
			os.Exit(1)
		}

		cp := a.ClimbPerformance
		if *step > 0 {
			cp, err = resample(a, *step)
			if err != nil {
				lg.Error("Failed to resample climb chart", slog.String("id", id), slog.Any("error", err))
				os.Exit(1)
			}
		}

		if writeNC {
			path := filepath.Join(*outDir, climbgrid.FileName(a.ID))
			if err := climbgrid.WriteFile(path, cp); err != nil {
				lg.Error("Failed to write NetCDF chart", slog.String("path", path), slog.Any("error", err))
				os.Exit(1)
			}
			lg.Info("Wrote climb grid", slog.String("path", path),
				slog.Int("altitudes", len(cp.PressureAltitudes)), slog.Int("temperatures", len(cp.Temperatures)))
		}
		if writeCSV {
			path := filepath.Join(*outDir, csv.FileName(a.ID))
			if err := writeCSVFile(path, cp); err != nil {
				lg.Error("Failed to write CSV chart", slog.String("path", path), slog.Any("error", err))
				os.Exit(1)
			}
			lg.Info("Wrote climb table", slog.String("path", path))
		}
	}

	fmt.Printf("Exported %d climb chart(s) to %s: %s\n", len(ids), *outDir, strings.Join(ids, ", "))
}

// resample evaluates the chart on a regular pressure-altitude axis from the
// first to the last tabulated altitude. Climb speeds are carried over from
// the next tabulated altitude up.
func resample(a *domain.Aircraft, step float64) (domain.ClimbPerformance, error) {
	src := a.ClimbPerformance
	lo, hi := src.PressureAltitudes[0], src.PressureAltitudes[len(src.PressureAltitudes)-1]
	n := int(math.Floor((hi-lo)/step)) + 1

	out := domain.ClimbPerformance{
		Temperatures: src.Temperatures,
	}
	opts := interp.Options{}
	for i := 0; i < n; i++ {
		pa := lo + float64(i)*step
		row := make([]float64, len(src.Temperatures))
		for j, oat := range src.Temperatures {
			roc, err := a.RateOfClimb(pa, oat, opts)
			if err != nil {
				return domain.ClimbPerformance{}, err
			}
			row[j] = float64(roc)
		}
		out.PressureAltitudes = append(out.PressureAltitudes, pa)
		out.Data = append(out.Data, row)
		if len(src.ClimbSpeeds) > 0 {
			out.ClimbSpeeds = append(out.ClimbSpeeds, a.Vy(pa))
		}
	}
	return out, nil
}

func writeCSVFile(path string, cp domain.ClimbPerformance) error {
	//nolint:gosec // G304: Output path comes from the -out flag.
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := csv.WriteClimb(f, cp); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Package csv provides CSV-based climb chart loading.
//
// A chart file is named <id>_climb.csv (lower-case id). The header row is
// "pressure_altitude", then one temperature (°C) per column, then an
// optional "climb_speed" column:
//
//	pressure_altitude,-20,0,20,40,climb_speed
//	0,855,785,710,645,74
//	2000,760,695,625,560,73
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.ngs.io/perf-worksheet/internal/domain"
)

const (
	altitudeColumn = "pressure_altitude"
	speedColumn    = "climb_speed"
)

// ClimbStore provides access to climb charts in a directory.
type ClimbStore struct {
	dataDir string
}

// NewClimbStore creates a new CSV-based climb chart store.
func NewClimbStore(dataDir string) *ClimbStore {
	return &ClimbStore{
		dataDir: dataDir,
	}
}

// FileName returns the chart file name for an aircraft.
func FileName(aircraftID string) string {
	return strings.ToLower(aircraftID) + "_climb.csv"
}

// LoadClimb loads the climb chart for an aircraft. The error wraps
// fs.ErrNotExist when the directory has no chart for it.
func (s *ClimbStore) LoadClimb(aircraftID string) (*domain.ClimbPerformance, error) {
	path := filepath.Join(s.dataDir, FileName(aircraftID))

	//nolint:gosec // G304: File path constructed from dataDir (config) and aircraft id.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open climb chart for %s: %w", aircraftID, err)
	}
	defer func() { _ = file.Close() }()

	cp, err := ReadClimb(file)
	if err != nil {
		return nil, fmt.Errorf("climb chart %s: %w", path, err)
	}
	return cp, nil
}

// ReadClimb parses a climb chart.
func ReadClimb(r io.Reader) (*domain.ClimbPerformance, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	// Read header.
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) < 2 || strings.TrimSpace(header[0]) != altitudeColumn {
		return nil, fmt.Errorf("invalid CSV header: expected first column to be %s, got %v", altitudeColumn, header)
	}

	tempCols := header[1:]
	hasSpeed := strings.TrimSpace(tempCols[len(tempCols)-1]) == speedColumn
	if hasSpeed {
		tempCols = tempCols[:len(tempCols)-1]
	}
	if len(tempCols) == 0 {
		return nil, fmt.Errorf("invalid CSV header: no temperature columns")
	}

	cp := &domain.ClimbPerformance{
		Temperatures: make([]float64, len(tempCols)),
	}
	for i, h := range tempCols {
		temp, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid temperature in header column %d: %w", i+1, err)
		}
		cp.Temperatures[i] = temp
	}

	// Read data rows.
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if len(record) != len(header) {
			return nil, fmt.Errorf("invalid CSV record: expected %d columns, got %d", len(header), len(record))
		}

		values := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid value %q in column %s: %w", field, header[i], err)
			}
			values[i] = v
		}

		cp.PressureAltitudes = append(cp.PressureAltitudes, values[0])
		cp.Data = append(cp.Data, values[1:1+len(tempCols)])
		if hasSpeed {
			cp.ClimbSpeeds = append(cp.ClimbSpeeds, values[len(values)-1])
		}
	}

	if len(cp.PressureAltitudes) == 0 {
		return nil, fmt.Errorf("no data rows in climb chart")
	}

	return cp, nil
}

// WriteClimb writes cp in the chart format.
func WriteClimb(w io.Writer, cp domain.ClimbPerformance) error {
	hasSpeed := len(cp.ClimbSpeeds) == len(cp.PressureAltitudes)

	writer := csv.NewWriter(w)
	header := []string{altitudeColumn}
	for _, t := range cp.Temperatures {
		header = append(header, formatFloat(t))
	}
	if hasSpeed {
		header = append(header, speedColumn)
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for i, pa := range cp.PressureAltitudes {
		if i >= len(cp.Data) {
			return fmt.Errorf("climb data has %d rows, expected %d", len(cp.Data), len(cp.PressureAltitudes))
		}
		record := []string{formatFloat(pa)}
		for _, v := range cp.Data[i] {
			record = append(record, formatFloat(v))
		}
		if hasSpeed {
			record = append(record, formatFloat(cp.ClimbSpeeds[i]))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

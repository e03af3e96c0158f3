// Package climbgrid reads aircraft climb charts stored as NetCDF grids.
//
// Each aircraft has one file, <id>_climb.nc (lower-case id), with
// dimensions pressure_altitude and temperature and these variables:
//
//	pressure_altitude(pressure_altitude)              ft
//	temperature(temperature)                          °C
//	rate_of_climb(pressure_altitude, temperature)     ft/min at max gross weight
//	climb_speed(pressure_altitude)                    KIAS, optional
package climbgrid

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/perf-worksheet/internal/domain"
)

// Dimension and variable names.
const (
	PressureAltitudeVar = "pressure_altitude"
	TemperatureVar      = "temperature"
	RateOfClimbVar      = "rate_of_climb"
	ClimbSpeedVar       = "climb_speed"
)

// Store provides access to climb grids in a directory.
type Store struct {
	dataDir string
	cache   map[string]*domain.ClimbPerformance // Cache loaded grids.
	mu      sync.RWMutex                        // Protect cache.
}

// NewStore creates a new climb grid store.
func NewStore(dataDir string) *Store {
	return &Store{
		dataDir: dataDir,
		cache:   make(map[string]*domain.ClimbPerformance),
	}
}

// FileName returns the grid file name for an aircraft.
func FileName(aircraftID string) string {
	return strings.ToLower(aircraftID) + "_climb.nc"
}

// LoadClimb loads the climb chart for an aircraft. The error wraps
// fs.ErrNotExist when the directory has no grid for it.
func (s *Store) LoadClimb(aircraftID string) (*domain.ClimbPerformance, error) {
	key := strings.ToLower(aircraftID)

	// Check cache first.
	s.mu.RLock()
	if cp, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return cp, nil
	}
	s.mu.RUnlock()

	path := filepath.Join(s.dataDir, FileName(aircraftID))
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("climb grid for %s: %w", aircraftID, err)
	}

	cp, err := ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load climb grid for %s: %w", aircraftID, err)
	}

	s.mu.Lock()
	s.cache[key] = cp
	s.mu.Unlock()

	return cp, nil
}

// ReadFile reads a climb grid file.
func ReadFile(path string) (*domain.ClimbPerformance, error) {
	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	altitudes, err := read1D(nc, PressureAltitudeVar)
	if err != nil {
		return nil, err
	}
	temps, err := read1D(nc, TemperatureVar)
	if err != nil {
		return nil, err
	}

	v, err := nc.Var(RateOfClimbVar)
	if err != nil {
		return nil, fmt.Errorf("variable %s not found: %w", RateOfClimbVar, err)
	}
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("expected 2D %s, got %dD", RateOfClimbVar, len(dims))
	}
	dim0Len, err := dims[0].Len()
	if err != nil {
		return nil, fmt.Errorf("failed to get dim0 length: %w", err)
	}
	dim1Len, err := dims[1].Len()
	if err != nil {
		return nil, fmt.Errorf("failed to get dim1 length: %w", err)
	}
	if dim0Len != uint64(len(altitudes)) || dim1Len != uint64(len(temps)) {
		return nil, fmt.Errorf("dimension mismatch: %s is [%d, %d], expected [%d, %d]",
			RateOfClimbVar, dim0Len, dim1Len, len(altitudes), len(temps))
	}

	flat := make([]float64, len(altitudes)*len(temps))
	if err := v.ReadFloat64s(flat); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", RateOfClimbVar, err)
	}
	data := make([][]float64, len(altitudes))
	for i := range data {
		data[i] = flat[i*len(temps) : (i+1)*len(temps)]
	}

	cp := &domain.ClimbPerformance{
		PressureAltitudes: altitudes,
		Temperatures:      temps,
		Data:              data,
	}

	// Climb speeds are optional.
	if _, err := nc.Var(ClimbSpeedVar); err == nil {
		speeds, err := read1D(nc, ClimbSpeedVar)
		if err != nil {
			return nil, err
		}
		if len(speeds) != len(altitudes) {
			return nil, fmt.Errorf("%s has %d values, expected %d", ClimbSpeedVar, len(speeds), len(altitudes))
		}
		cp.ClimbSpeeds = speeds
	}

	return cp, nil
}

// WriteFile writes cp as a climb grid file, replacing any existing file.
func WriteFile(path string, cp domain.ClimbPerformance) error {
	nAlt, nTemp := len(cp.PressureAltitudes), len(cp.Temperatures)
	if nAlt == 0 || nTemp == 0 {
		return fmt.Errorf("climb chart axes cannot be empty")
	}
	if len(cp.Data) != nAlt {
		return fmt.Errorf("climb data rows (%d) must match pressure altitudes (%d)", len(cp.Data), nAlt)
	}

	flat := make([]float64, 0, nAlt*nTemp)
	for i, row := range cp.Data {
		if len(row) != nTemp {
			return fmt.Errorf("climb data row %d has %d columns, expected %d", i, len(row), nTemp)
		}
		flat = append(flat, row...)
	}

	f, err := netcdf.CreateFile(path, netcdf.CLOBBER)
	if err != nil {
		return fmt.Errorf("failed to create NetCDF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	altDim, err := f.AddDim(PressureAltitudeVar, uint64(nAlt))
	if err != nil {
		return fmt.Errorf("failed to add dimension: %w", err)
	}
	tempDim, err := f.AddDim(TemperatureVar, uint64(nTemp))
	if err != nil {
		return fmt.Errorf("failed to add dimension: %w", err)
	}

	altVar, err := f.AddVar(PressureAltitudeVar, netcdf.DOUBLE, []netcdf.Dim{altDim})
	if err != nil {
		return fmt.Errorf("failed to add variable: %w", err)
	}
	tempVar, err := f.AddVar(TemperatureVar, netcdf.DOUBLE, []netcdf.Dim{tempDim})
	if err != nil {
		return fmt.Errorf("failed to add variable: %w", err)
	}
	rocVar, err := f.AddVar(RateOfClimbVar, netcdf.DOUBLE, []netcdf.Dim{altDim, tempDim})
	if err != nil {
		return fmt.Errorf("failed to add variable: %w", err)
	}
	var speedVar netcdf.Var
	hasSpeeds := len(cp.ClimbSpeeds) == nAlt
	if hasSpeeds {
		speedVar, err = f.AddVar(ClimbSpeedVar, netcdf.DOUBLE, []netcdf.Dim{altDim})
		if err != nil {
			return fmt.Errorf("failed to add variable: %w", err)
		}
	}

	if err := f.EndDef(); err != nil {
		return fmt.Errorf("failed to end define mode: %w", err)
	}

	if err := altVar.WriteFloat64s(cp.PressureAltitudes); err != nil {
		return fmt.Errorf("failed to write %s: %w", PressureAltitudeVar, err)
	}
	if err := tempVar.WriteFloat64s(cp.Temperatures); err != nil {
		return fmt.Errorf("failed to write %s: %w", TemperatureVar, err)
	}
	if err := rocVar.WriteFloat64s(flat); err != nil {
		return fmt.Errorf("failed to write %s: %w", RateOfClimbVar, err)
	}
	if hasSpeeds {
		if err := speedVar.WriteFloat64s(cp.ClimbSpeeds); err != nil {
			return fmt.Errorf("failed to write %s: %w", ClimbSpeedVar, err)
		}
	}

	return nil
}

// read1D reads a 1D variable as float64.
func read1D(nc netcdf.Dataset, name string) ([]float64, error) {
	v, err := nc.Var(name)
	if err != nil {
		return nil, fmt.Errorf("variable %s not found: %w", name, err)
	}
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("expected 1D %s, got %dD", name, len(dims))
	}
	n, err := dims[0].Len()
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	if err := v.ReadFloat64s(out); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return out, nil
}

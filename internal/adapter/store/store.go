package store

import (
	"errors"
	"io/fs"

	"go.ngs.io/perf-worksheet/internal/domain"
)

// ErrAircraftNotFound is returned for an aircraft id with no profile.
var ErrAircraftNotFound = errors.New("aircraft not found")

// AircraftLoader is the interface for loading aircraft performance profiles.
type AircraftLoader interface {
	// LoadAircraft loads the profile for an aircraft id (e.g., "C172S").
	LoadAircraft(id string) (*domain.Aircraft, error)

	// ListAircraft returns the ids of all known profiles.
	ListAircraft() ([]string, error)
}

// ClimbLoader loads a climb chart kept outside the aircraft profile.
// Implementations return an error wrapping fs.ErrNotExist when they hold
// no chart for the aircraft.
type ClimbLoader interface {
	LoadClimb(aircraftID string) (*domain.ClimbPerformance, error)
}

// ClimbLoaders tries each loader in turn and returns the first chart found.
type ClimbLoaders []ClimbLoader

func (ls ClimbLoaders) LoadClimb(aircraftID string) (*domain.ClimbPerformance, error) {
	for _, l := range ls {
		cp, err := l.LoadClimb(aircraftID)
		if err == nil {
			return cp, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fs.ErrNotExist
}

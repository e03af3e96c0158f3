// Package profile loads aircraft performance profiles from a JSON file.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/brunoga/deep"

	"go.ngs.io/perf-worksheet/internal/adapter/store"
	"go.ngs.io/perf-worksheet/internal/domain"
)

// File is the layout of an aircraft data file.
type File struct {
	Aircraft []domain.Aircraft `json:"aircraft"`
}

// Store provides access to the profiles in one JSON file. The file is
// read on first use; climb charts from the optional loader replace the
// ones in the file.
type Store struct {
	path   string
	climbs store.ClimbLoader

	mu       sync.RWMutex
	aircraft map[string]*domain.Aircraft // Keyed by upper-case id.
	ids      []string
}

// NewStore creates a profile store. climbs may be nil.
func NewStore(path string, climbs store.ClimbLoader) *Store {
	return &Store{
		path:   path,
		climbs: climbs,
	}
}

// LoadAircraft returns a copy of the profile for id. Ids are matched
// without regard to case.
func (s *Store) LoadAircraft(id string) (*domain.Aircraft, error) {
	if err := s.load(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	a, ok := s.aircraft[strings.ToUpper(id)]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrAircraftNotFound, id)
	}
	return deep.MustCopy(a), nil
}

// ListAircraft returns profile ids in file order.
func (s *Store) ListAircraft() ([]string, error) {
	if err := s.load(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ids), nil
}

func (s *Store) load() error {
	s.mu.RLock()
	loaded := s.aircraft != nil
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.aircraft != nil {
		return nil
	}

	//nolint:gosec // G304: Path comes from configuration.
	b, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read aircraft data: %w", err)
	}
	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("failed to parse aircraft data %s: %w", s.path, err)
	}

	aircraft := make(map[string]*domain.Aircraft, len(f.Aircraft))
	ids := make([]string, 0, len(f.Aircraft))
	for i := range f.Aircraft {
		a := &f.Aircraft[i]
		key := strings.ToUpper(a.ID)
		if _, dup := aircraft[key]; dup {
			return fmt.Errorf("duplicate aircraft id %s in %s", a.ID, s.path)
		}

		if s.climbs != nil {
			cp, err := s.climbs.LoadClimb(a.ID)
			switch {
			case err == nil:
				a.ClimbPerformance = mergeClimb(a.ClimbPerformance, *cp)
			case !errors.Is(err, fs.ErrNotExist):
				return fmt.Errorf("failed to load climb chart for %s: %w", a.ID, err)
			}
		}

		if err := a.Validate(); err != nil {
			return fmt.Errorf("invalid aircraft data in %s: %w", s.path, err)
		}
		aircraft[key] = a
		ids = append(ids, a.ID)
	}

	s.aircraft = aircraft
	s.ids = ids
	return nil
}

// mergeClimb takes the chart from grid, keeping the profile's climb speeds
// when the grid has none.
func mergeClimb(profile, grid domain.ClimbPerformance) domain.ClimbPerformance {
	if len(grid.ClimbSpeeds) == 0 && len(profile.ClimbSpeeds) == len(grid.PressureAltitudes) {
		grid.ClimbSpeeds = profile.ClimbSpeeds
	}
	return grid
}

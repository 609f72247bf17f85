// Package state persists the per-watchlist snapshot maps that alert
// decisions diff against. Each watchlist kind owns one JSON file keyed by
// uppercase symbol; a run reads the whole file once up front and writes it
// back once at the end.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/logger"
	"github.com/Vamsi-Chanakya/IPOAlertingSystem/internal/models"
)

const (
	ipoStateFile      = "ipo_state.json"
	volStateFile      = "volatility_state.json"
	upcomingStateFile = "upcoming_ipo_state.json"
)

// Store reads and writes the per-watchlist state files under one directory.
type Store struct {
	dir string
}

// NewStore creates the state directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// LoadIPO returns the IPO watchlist snapshot. Missing or unreadable files
// yield an empty map: state loss degrades to a cold start, never a crash.
func (s *Store) LoadIPO() map[string]models.IPOStateEntry {
	return load[models.IPOStateEntry](filepath.Join(s.dir, ipoStateFile))
}

// SaveIPO replaces the IPO watchlist snapshot.
func (s *Store) SaveIPO(entries map[string]models.IPOStateEntry) error {
	return save(filepath.Join(s.dir, ipoStateFile), entries)
}

// LoadVolatility returns the volatility watchlist snapshot.
func (s *Store) LoadVolatility() map[string]models.VolatilityStateEntry {
	return load[models.VolatilityStateEntry](filepath.Join(s.dir, volStateFile))
}

// SaveVolatility replaces the volatility watchlist snapshot.
func (s *Store) SaveVolatility(entries map[string]models.VolatilityStateEntry) error {
	return save(filepath.Join(s.dir, volStateFile), entries)
}

// LoadUpcoming returns the upcoming-IPO watchlist snapshot.
func (s *Store) LoadUpcoming() map[string]models.UpcomingStateEntry {
	return load[models.UpcomingStateEntry](filepath.Join(s.dir, upcomingStateFile))
}

// SaveUpcoming replaces the upcoming-IPO watchlist snapshot.
func (s *Store) SaveUpcoming(entries map[string]models.UpcomingStateEntry) error {
	return save(filepath.Join(s.dir, upcomingStateFile), entries)
}

func load[T any](path string) map[string]T {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read state file %s: %v", path, err)
		}
		return map[string]T{}
	}
	var entries map[string]T
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("Malformed state file %s, starting empty: %v", path, err)
		return map[string]T{}
	}
	if entries == nil {
		entries = map[string]T{}
	}
	return entries
}

// save writes the whole snapshot to a temp file and renames it into place,
// so a crash mid-write leaves the previous file intact.
func save[T any](path string, entries map[string]T) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Package state persists the small between-run timestamps that throttle
// alerts and digests. Plain JSON files; each run is a separate process, so
// a database would be overkill.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	alertFile   = "last_alert.json"
	summaryFile = "last_summary.json"
)

type record struct {
	Timestamp time.Time `json:"timestamp"`
}

// Store reads and writes run timestamps under a single directory.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// LastAlert returns the time of the most recent opportunity alert, or the
// zero time when none has been recorded.
func (s *Store) LastAlert() (time.Time, error) {
	return s.read(alertFile)
}

// TouchAlert records now as the most recent opportunity alert time.
func (s *Store) TouchAlert(now time.Time) error {
	return s.write(alertFile, now)
}

// LastSummary returns the time of the most recent digest, or the zero time
// when none has been recorded.
func (s *Store) LastSummary() (time.Time, error) {
	return s.read(summaryFile)
}

// TouchSummary records now as the most recent digest time.
func (s *Store) TouchSummary(now time.Time) error {
	return s.write(summaryFile, now)
}

func (s *Store) read(name string) (time.Time, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read %s: %w", name, err)
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		// A corrupt file behaves like a missing one; the worst case is one
		// extra digest.
		return time.Time{}, nil
	}
	return rec.Timestamp, nil
}

// write goes through a temp file and rename so a crash mid-write never
// leaves a truncated record behind.
func (s *Store) write(name string, ts time.Time) error {
	data, err := json.Marshal(record{Timestamp: ts.UTC()})
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

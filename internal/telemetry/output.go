// Package telemetry records finished rounds to CSV.
package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
)

// RoundRecord is one finished round.
type RoundRecord struct {
	EndedAt  time.Time `csv:"ended_at"`
	Session  string    `csv:"session"`
	Variant  string    `csv:"variant"`
	Level    int       `csv:"level"`
	Outcome  string    `csv:"outcome"` // "win" or "fail"
	Cause    string    `csv:"cause"`   // Kind whose cut ended the round
	Score    int       `csv:"score"`
	Recipe   string    `csv:"recipe"`
	Frames   int       `csv:"frames"`
	Seconds  float64   `csv:"seconds"`
	Spawned  int       `csv:"spawned"`
	Windows  int       `csv:"slice_windows"` // Blinks that opened a slice window
	Tracking bool      `csv:"tracking"`      // A tracker page was attached
}

// OutputManager appends round records to rounds.csv. A nil manager
// discards records, so callers need not check whether output is enabled.
type OutputManager struct {
	mu            sync.Mutex
	dir           string
	roundsFile    *os.File
	headerWritten bool
}

// NewOutputManager opens dir/rounds.csv for appending.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, "rounds.csv")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening rounds.csv: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat rounds.csv: %w", err)
	}

	return &OutputManager{
		dir:           dir,
		roundsFile:    f,
		headerWritten: info.Size() > 0,
	}, nil
}

// Dir returns the output directory.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteRound appends a round record.
func (om *OutputManager) WriteRound(r RoundRecord) error {
	if om == nil {
		return nil
	}
	om.mu.Lock()
	defer om.mu.Unlock()

	records := []RoundRecord{r}

	if !om.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.roundsFile); err != nil {
			return fmt.Errorf("writing round: %w", err)
		}
		om.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.roundsFile); err != nil {
		return fmt.Errorf("writing round: %w", err)
	}
	return nil
}

// Close closes the output file.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	om.mu.Lock()
	defer om.mu.Unlock()
	return om.roundsFile.Close()
}

package algocloth

import (
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-cloth/internal/sim"
)

// Tuning is the worker-count tuning cache. It stores the measured best
// worker count per problem size so integrators created with Workers == 0
// can reuse benchmark results across runs.
type Tuning = sim.Tuning

// NewTuning creates a new empty tuning cache.
func NewTuning() *Tuning {
	return sim.NewTuning()
}

// RecordWorkerDecision stores the best worker count for a problem size in
// the default tuning cache. cmd/benchsim emits calls to this function.
func RecordWorkerDecision(particles, springs, workers int) {
	sim.DefaultTuning.Record(particles, springs, workers)
}

// ImportTuning loads tuning data from a file in the format produced by
// ExportTuning.
func ImportTuning(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open tuning file: %w", err)
	}

	defer f.Close()

	if err := sim.DefaultTuning.Import(f); err != nil {
		return fmt.Errorf("failed to import tuning: %w", err)
	}

	return nil
}

// ImportTuningFromString loads tuning data from a string. This is useful
// for embedding tuning data in compiled binaries.
func ImportTuningFromString(data string) error {
	if err := sim.DefaultTuning.Import(strings.NewReader(data)); err != nil {
		return fmt.Errorf("failed to import tuning from string: %w", err)
	}

	return nil
}

// ExportTuning saves the default tuning cache to a file. The file can be
// loaded later with ImportTuning.
func ExportTuning(filename string) error {
	return ExportTuningTo(filename, sim.DefaultTuning)
}

// ExportTuningTo saves a specific tuning cache to a file.
func ExportTuningTo(filename string, tuning *Tuning) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create tuning file: %w", err)
	}

	defer file.Close()

	if err := tuning.Export(file); err != nil {
		return fmt.Errorf("failed to export tuning: %w", err)
	}

	return nil
}

// ClearTuning removes all entries from the default tuning cache.
func ClearTuning() {
	sim.DefaultTuning.Clear()
}

// TuningLen returns the number of entries in the default tuning cache.
func TuningLen() int {
	return sim.DefaultTuning.Len()
}

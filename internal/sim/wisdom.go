package sim

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// TuningKey identifies a problem size for worker-count tuning.
type TuningKey struct {
	Particles int
	Springs   int
}

// Tuning stores measured best worker counts per problem size. It is the
// simulation analogue of an FFT wisdom cache: benchmark once, reuse the
// decision across runs via Import/Export.
type Tuning struct {
	mu      sync.RWMutex
	entries map[TuningKey]int
}

// NewTuning creates an empty tuning cache.
func NewTuning() *Tuning {
	return &Tuning{entries: make(map[TuningKey]int)}
}

// DefaultTuning is the process-wide tuning cache consulted by integrators
// when no explicit worker count is configured.
var DefaultTuning = NewTuning()

// Record stores the best worker count for a problem size, overwriting any
// previous entry.
func (t *Tuning) Record(particles, springs, workers int) {
	if workers < 1 {
		return
	}

	t.mu.Lock()
	t.entries[TuningKey{Particles: particles, Springs: springs}] = workers
	t.mu.Unlock()
}

// Lookup returns the recorded worker count for a problem size.
func (t *Tuning) Lookup(particles, springs int) (int, bool) {
	t.mu.RLock()
	workers, ok := t.entries[TuningKey{Particles: particles, Springs: springs}]
	t.mu.RUnlock()

	return workers, ok
}

// Len returns the number of entries in the cache.
func (t *Tuning) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.entries)
}

// Clear removes all entries.
func (t *Tuning) Clear() {
	t.mu.Lock()
	t.entries = make(map[TuningKey]int)
	t.mu.Unlock()
}

const tuningHeader = "# algo-cloth tuning v1"

// Export writes the cache in a portable text format: a header line
// followed by "particles springs workers" records in sorted order.
func (t *Tuning) Export(w io.Writer) error {
	t.mu.RLock()
	keys := make([]TuningKey, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Particles != keys[j].Particles {
			return keys[i].Particles < keys[j].Particles
		}
		return keys[i].Springs < keys[j].Springs
	})

	lines := make([]string, 0, len(keys)+1)
	lines = append(lines, tuningHeader)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%d %d %d", k.Particles, k.Springs, t.entries[k]))
	}
	t.mu.RUnlock()

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")

	return err
}

// Import merges records from r into the cache. Lines starting with '#'
// and blank lines are ignored; malformed records are an error.
func (t *Tuning) Import(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var particles, springs, workers int
		if _, err := fmt.Sscanf(line, "%d %d %d", &particles, &springs, &workers); err != nil {
			return fmt.Errorf("malformed tuning record %q: %w", line, err)
		}

		if particles < 0 || springs < 0 || workers < 1 {
			return fmt.Errorf("invalid tuning record %q", line)
		}

		t.Record(particles, springs, workers)
	}

	return scanner.Err()
}

package algocloth

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-cloth/internal/sim"
)

// WaveDeformer displaces mesh points with a traveling sine wave along the
// Y axis:
//
//	out = p + (0, sin(speed*time + p.x*frequency) * amplitude, 0)
//
// It is a pure per-point map and leaves the input untouched, which makes
// it suitable for deforming render meshes independently of the dynamics.
type WaveDeformer[T Float] struct {
	// Amplitude is the peak displacement. Zero means 10.
	Amplitude T

	// Frequency scales the point's X coordinate into wave phase.
	// Zero means 0.1.
	Frequency T

	// Speed scales time into wave phase. Zero means 1.
	Speed T

	// Workers is the worker count for the map. Zero means one worker
	// per logical CPU.
	Workers int
}

// Apply writes the deformed points into dst. dst and src must have the
// same length; they may alias.
func (d *WaveDeformer[T]) Apply(dst, src []Vec3[T], time T) error {
	if len(dst) != len(src) {
		return fmt.Errorf("%w: %d dst points, %d src points", ErrLengthMismatch, len(dst), len(src))
	}

	amplitude := d.Amplitude
	if amplitude == 0 {
		amplitude = 10
	}

	frequency := d.Frequency
	if frequency == 0 {
		frequency = 0.1
	}

	speed := d.Speed
	if speed == 0 {
		speed = 1
	}

	deform := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			p := src[i]
			p.Y += T(math.Sin(float64(speed*time+p.X*frequency))) * amplitude
			dst[i] = p
		}
	}

	workers := sim.ResolveWorkers(d.Workers)
	if workers <= 1 || len(src) < 1024 {
		deform(0, len(src))
		return nil
	}

	sim.ParallelRanges(len(src), workers, func(_, lo, hi int) {
		deform(lo, hi)
	})

	return nil
}

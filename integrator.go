package algocloth

import (
	"github.com/cwbudde/algo-cloth/internal/cpu"
	"github.com/cwbudde/algo-cloth/internal/sim"
)

// defaultMinLength is the length below which a spring is considered
// degenerate under the clamp policy.
const defaultMinLength = 1e-9

// Options controls integrator behavior.
//
// The zero value simulates without gravity on a single auto-sized worker
// pool with the clamp policy. Use DefaultOptions for standard gravity.
type Options[T Float] struct {
	// Gravity is the constant external acceleration applied to free
	// particles. Pinned particles never receive it.
	Gravity Vec3[T]

	// Workers is the worker count for the force and integration passes.
	// Zero consults the tuning cache for this problem size and falls
	// back to one worker per logical CPU.
	Workers int

	// Degenerate selects the zero-length spring policy.
	Degenerate DegeneratePolicy

	// MinLength is the degeneracy threshold. Zero means a default epsilon.
	MinLength T

	// CheckFinite makes Simulate verify the particle state for NaN/Inf
	// after the final sub-step and return ErrNonFinite on failure.
	CheckFinite bool
}

// DefaultOptions returns options with standard gravity (0, -9.8, 0).
func DefaultOptions[T Float]() Options[T] {
	return Options[T]{
		Gravity: Vec3[T]{Y: -9.8},
	}
}

// Integrator advances a System with explicit sub-stepped semi-implicit
// Euler integration. Dispatch, worker count, and scratch buffers are all
// resolved at creation time so the per-step path does no allocation.
//
// An Integrator owns its System's force buffer during Simulate and must
// not be used concurrently with other access to the same System.
type Integrator[T Float] struct {
	sys  *System[T]
	opts Options[T]

	workers  int
	minLen   T
	kern     sim.Kernels[T]
	partials [][]Vec3[T] // per-worker force buffers, nil when workers == 1
}

// NewIntegrator creates an integrator for sys.
func NewIntegrator[T Float](sys *System[T], opts Options[T]) (*Integrator[T], error) {
	workers := opts.Workers
	if workers <= 0 {
		if tuned, ok := sim.DefaultTuning.Lookup(sys.NumParticles(), sys.NumSprings()); ok {
			workers = tuned
		} else {
			workers = sim.ResolveWorkers(0)
		}
	}

	minLen := opts.MinLength
	if minLen <= 0 {
		minLen = T(defaultMinLength)
	}

	it := &Integrator[T]{
		sys:     sys,
		opts:    opts,
		workers: workers,
		minLen:  minLen,
		kern:    sim.SelectKernels[T](cpu.DetectFeatures()),
	}

	if workers > 1 {
		it.partials = make([][]Vec3[T], workers)
		for w := range it.partials {
			it.partials[w] = make([]Vec3[T], sys.NumParticles())
		}
	}

	return it, nil
}

// Workers returns the effective worker count.
func (it *Integrator[T]) Workers() int {
	return it.workers
}

// System returns the system being advanced.
func (it *Integrator[T]) System() *System[T] {
	return it.sys
}

// Simulate advances the system by substeps iterations of size dt/substeps
// and returns a copy of the final particle positions.
//
// Each sub-step runs two passes with a barrier in between: spring forces
// are fully accumulated first, then every particle is integrated and its
// force slot cleared. On error the system state may be partially advanced
// and should be re-validated before reuse.
func (it *Integrator[T]) Simulate(dt T, substeps int) ([]Vec3[T], error) {
	if !(dt > 0) {
		return nil, ErrInvalidTimestep
	}

	if substeps < 1 {
		return nil, ErrInvalidSubsteps
	}

	simDt := dt / T(substeps)
	for s := 0; s < substeps; s++ {
		it.step(simDt)
	}

	if it.opts.CheckFinite {
		if err := it.sys.CheckFinite(); err != nil {
			return nil, err
		}
	}

	return it.sys.Positions(), nil
}

// step runs one force pass and one integration pass.
func (it *Integrator[T]) step(dt T) {
	sys := it.sys

	it.kern.EvalSprings(sys.f, sys.x, sys.v, &sys.springs, it.opts.Degenerate, it.minLen, it.workers, it.partials)
	it.kern.Integrate(sys.x, sys.v, sys.f, sys.w, it.opts.Gravity, dt, it.workers)
}

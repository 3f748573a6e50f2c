package sim

import (
	"github.com/cwbudde/algo-cloth/internal/cpu"
	"github.com/cwbudde/algo-cloth/internal/ctypes"
)

// evalFunc evaluates spring forces for springs [lo, hi) into f.
type evalFunc[T ctypes.Float] func(f, x, v []ctypes.Vec3[T], sp *Springs[T], policy DegeneratePolicy, minLen T, lo, hi int)

// integrateFunc advances particles [lo, hi) by dt.
type integrateFunc[T ctypes.Float] func(x, v, f []ctypes.Vec3[T], w []T, g ctypes.Vec3[T], dt T, lo, hi int)

// Kernels groups the force and integration kernels selected for a
// precision and CPU feature set.
type Kernels[T ctypes.Float] struct {
	eval      evalFunc[T]
	integrate integrateFunc[T]
}

// SelectKernels returns the best available kernels for the detected
// features. Only the generic implementations are registered today; the
// dispatch exists so vectorized variants can slot in per feature level.
func SelectKernels[T ctypes.Float](features cpu.Features) Kernels[T] {
	if features.ForceGeneric {
		return genericKernels[T]()
	}

	// No feature-specific kernels yet.
	return genericKernels[T]()
}

func genericKernels[T ctypes.Float]() Kernels[T] {
	return Kernels[T]{
		eval:      evalSpringsRange[T],
		integrate: integrateRange[T],
	}
}

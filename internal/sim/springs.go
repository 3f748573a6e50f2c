// Package sim implements the core mass-spring simulation kernels.
//
// The kernels operate on flat particle and spring arrays. Force evaluation
// and particle integration are two separate passes; a sub-step runs the
// force pass to completion before the integration pass reads the forces.
package sim

import "github.com/cwbudde/algo-cloth/internal/ctypes"

// Springs holds the spring topology and material coefficients in
// structure-of-arrays layout. Indices stores particle index pairs
// back to back: spring s connects Indices[2*s] and Indices[2*s+1].
type Springs[T ctypes.Float] struct {
	Indices []int32
	Rest    []T
	Ke      []T
	Kd      []T
}

// Count returns the number of springs.
func (s *Springs[T]) Count() int {
	return len(s.Indices) / 2
}

// DegeneratePolicy selects how zero-length springs are handled during
// force evaluation. The spring direction is undefined at zero length,
// so the kernel must either clamp the length or drop the contribution.
type DegeneratePolicy uint8

const (
	// DegenerateClamp clamps the current spring length to a minimum
	// epsilon before normalizing, bounding the force on nearly
	// coincident particles. Exactly coincident particles have a zero
	// direction vector and contribute no force.
	DegenerateClamp DegeneratePolicy = iota

	// DegenerateSkip drops the force contribution of a zero-length
	// spring for the current sub-step.
	DegenerateSkip
)

// String returns a human-readable name for the policy.
func (p DegeneratePolicy) String() string {
	switch p {
	case DegenerateClamp:
		return "clamp"
	case DegenerateSkip:
		return "skip"
	default:
		return "unknown"
	}
}

package algocloth

import (
	"github.com/cwbudde/algo-cloth/internal/ctypes"
	"github.com/cwbudde/algo-cloth/internal/sim"
)

// Float is a type constraint for the floating-point precisions supported
// by the simulation. The canonical definition is in internal/ctypes.
type Float = ctypes.Float

// Vec3 is a 3-component vector in the simulation's working precision.
// The canonical definition is in internal/ctypes.
type Vec3[T Float] = ctypes.Vec3[T]

// DegeneratePolicy selects how zero-length springs are handled.
type DegeneratePolicy = sim.DegeneratePolicy

const (
	// DegenerateClamp clamps degenerate spring lengths to a minimum
	// epsilon before normalizing. This is the default.
	DegenerateClamp = sim.DegenerateClamp

	// DegenerateSkip drops the force contribution of degenerate springs
	// for the current sub-step.
	DegenerateSkip = sim.DegenerateSkip
)

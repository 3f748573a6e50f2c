package algocloth

import "errors"

// Sentinel errors returned by system construction and simulation.
var (
	// ErrEmptySystem is returned when a system is constructed with no particles.
	ErrEmptySystem = errors.New("algocloth: empty particle set")

	// ErrLengthMismatch is returned when per-particle or per-spring arrays
	// do not agree on the particle or spring count.
	ErrLengthMismatch = errors.New("algocloth: array length mismatch")

	// ErrSpringIndexOutOfRange is returned when a spring references a
	// particle index outside the particle set, or connects a particle
	// to itself.
	ErrSpringIndexOutOfRange = errors.New("algocloth: spring index out of range")

	// ErrNegativeInverseMass is returned when an inverse mass is negative.
	// Zero denotes a pinned particle and is valid.
	ErrNegativeInverseMass = errors.New("algocloth: negative inverse mass")

	// ErrInvalidRestLength is returned when a spring rest length is not
	// strictly positive.
	ErrInvalidRestLength = errors.New("algocloth: invalid rest length")

	// ErrNegativeCoefficient is returned when a stiffness or damping
	// coefficient is negative.
	ErrNegativeCoefficient = errors.New("algocloth: negative spring coefficient")

	// ErrInvalidTimestep is returned when Simulate is called with a
	// non-positive timestep.
	ErrInvalidTimestep = errors.New("algocloth: invalid timestep")

	// ErrInvalidSubsteps is returned when Simulate is called with fewer
	// than one sub-step.
	ErrInvalidSubsteps = errors.New("algocloth: invalid substep count")

	// ErrNonFinite is returned when a finite check finds NaN or Inf in
	// the particle state. The state must be re-validated before reuse.
	ErrNonFinite = errors.New("algocloth: non-finite particle state")
)

package algocloth

import (
	"fmt"

	"github.com/cwbudde/algo-cloth/internal/sim"
)

// System holds the particle and spring state of a mass-spring simulation
// in structure-of-arrays layout.
//
// The arrays are fixed at construction: positions and velocities are
// mutated in place across sub-steps, the force buffer is recomputed and
// cleared every sub-step, and the topology never changes. An inverse mass
// of zero pins a particle.
type System[T Float] struct {
	x []Vec3[T] // positions
	v []Vec3[T] // velocities
	f []Vec3[T] // accumulated forces, zero between sub-steps
	w []T       // inverse masses

	springs sim.Springs[T]
}

// NewSystem builds a validated system from flat particle and spring
// arrays. springIndices stores particle index pairs back to back, so
// len(springIndices) must be twice the spring count.
//
// All input slices are copied; the caller's slices are not retained.
// Validation failures wrap one of the package sentinel errors.
func NewSystem[T Float](positions, velocities []Vec3[T], invMass []T, springIndices []int32, rest, ke, kd []T) (*System[T], error) {
	n := len(positions)
	if n == 0 {
		return nil, ErrEmptySystem
	}

	if len(velocities) != n || len(invMass) != n {
		return nil, fmt.Errorf("%w: %d positions, %d velocities, %d inverse masses",
			ErrLengthMismatch, n, len(velocities), len(invMass))
	}

	if len(springIndices)%2 != 0 {
		return nil, fmt.Errorf("%w: odd spring index count %d", ErrLengthMismatch, len(springIndices))
	}

	m := len(springIndices) / 2
	if len(rest) != m || len(ke) != m || len(kd) != m {
		return nil, fmt.Errorf("%w: %d springs, %d rest lengths, %d stiffness, %d damping",
			ErrLengthMismatch, m, len(rest), len(ke), len(kd))
	}

	for i, w := range invMass {
		if w < 0 {
			return nil, fmt.Errorf("%w: particle %d", ErrNegativeInverseMass, i)
		}
	}

	for s := 0; s < m; s++ {
		i, j := springIndices[2*s], springIndices[2*s+1]
		if i < 0 || int(i) >= n || j < 0 || int(j) >= n || i == j {
			return nil, fmt.Errorf("%w: spring %d connects %d and %d", ErrSpringIndexOutOfRange, s, i, j)
		}

		if !(rest[s] > 0) {
			return nil, fmt.Errorf("%w: spring %d rest length %v", ErrInvalidRestLength, s, rest[s])
		}

		if ke[s] < 0 || kd[s] < 0 {
			return nil, fmt.Errorf("%w: spring %d ke=%v kd=%v", ErrNegativeCoefficient, s, ke[s], kd[s])
		}
	}

	return &System[T]{
		x: append([]Vec3[T](nil), positions...),
		v: append([]Vec3[T](nil), velocities...),
		f: make([]Vec3[T], n),
		w: append([]T(nil), invMass...),
		springs: sim.Springs[T]{
			Indices: append([]int32(nil), springIndices...),
			Rest:    append([]T(nil), rest...),
			Ke:      append([]T(nil), ke...),
			Kd:      append([]T(nil), kd...),
		},
	}, nil
}

// NumParticles returns the particle count.
func (s *System[T]) NumParticles() int {
	return len(s.x)
}

// NumSprings returns the spring count.
func (s *System[T]) NumSprings() int {
	return s.springs.Count()
}

// Positions returns a copy of the current particle positions.
func (s *System[T]) Positions() []Vec3[T] {
	return append([]Vec3[T](nil), s.x...)
}

// Velocities returns a copy of the current particle velocities.
func (s *System[T]) Velocities() []Vec3[T] {
	return append([]Vec3[T](nil), s.v...)
}

// InverseMasses returns a copy of the per-particle inverse masses.
func (s *System[T]) InverseMasses() []T {
	return append([]T(nil), s.w...)
}

// SpringIndices returns a copy of the flat spring index pairs.
func (s *System[T]) SpringIndices() []int32 {
	return append([]int32(nil), s.springs.Indices...)
}

// RestLengths returns a copy of the per-spring rest lengths.
func (s *System[T]) RestLengths() []T {
	return append([]T(nil), s.springs.Rest...)
}

// Stiffness returns a copy of the per-spring stiffness coefficients.
func (s *System[T]) Stiffness() []T {
	return append([]T(nil), s.springs.Ke...)
}

// Damping returns a copy of the per-spring damping coefficients.
func (s *System[T]) Damping() []T {
	return append([]T(nil), s.springs.Kd...)
}

// Pin sets the inverse mass of particle i to zero, fixing it in place.
func (s *System[T]) Pin(i int) {
	s.w[i] = 0
}

// CheckFinite returns ErrNonFinite if any position or velocity contains
// NaN or Inf.
func (s *System[T]) CheckFinite() error {
	for i := range s.x {
		if !s.x[i].IsFinite() {
			return fmt.Errorf("%w: position of particle %d", ErrNonFinite, i)
		}

		if !s.v[i].IsFinite() {
			return fmt.Errorf("%w: velocity of particle %d", ErrNonFinite, i)
		}
	}

	return nil
}

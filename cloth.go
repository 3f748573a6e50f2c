package algocloth

import "fmt"

// GridConfig controls cloth grid construction.
//
// Spring kinds follow the usual cloth decomposition: structural springs
// connect horizontal and vertical neighbors, shear springs connect
// diagonal neighbors, and bend springs skip one particle along rows and
// columns. A kind with both coefficients zero is omitted entirely.
type GridConfig[T Float] struct {
	// Mass is the mass of each free particle. Zero means 1.
	Mass T

	StructuralKe T
	StructuralKd T

	ShearKe T
	ShearKd T

	BendKe T
	BendKd T

	// PinTopRow fixes the first row of particles in place.
	PinTopRow bool
}

// DefaultGridConfig returns a grid configuration with moderately stiff
// structural and shear springs and a pinned top row.
func DefaultGridConfig[T Float]() GridConfig[T] {
	return GridConfig[T]{
		Mass:         1,
		StructuralKe: 1000,
		StructuralKd: 1,
		ShearKe:      1000,
		ShearKd:      1,
		PinTopRow:    true,
	}
}

// NewClothGrid builds a cols-by-rows cloth in the XY plane with the given
// particle spacing. Particle (c, r) sits at (c*spacing, -r*spacing, 0),
// so the cloth hangs downward from row zero. Rest lengths are taken from
// the initial particle distances.
func NewClothGrid[T Float](cols, rows int, spacing T, cfg GridConfig[T]) (*System[T], error) {
	if cols < 2 || rows < 2 {
		return nil, fmt.Errorf("%w: grid %dx%d needs at least 2x2 particles", ErrEmptySystem, cols, rows)
	}

	if !(spacing > 0) {
		return nil, fmt.Errorf("%w: grid spacing %v", ErrInvalidRestLength, spacing)
	}

	mass := cfg.Mass
	if mass <= 0 {
		mass = 1
	}

	n := cols * rows
	positions := make([]Vec3[T], n)
	velocities := make([]Vec3[T], n)
	invMass := make([]T, n)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			positions[i] = Vec3[T]{X: T(c) * spacing, Y: -T(r) * spacing}
			invMass[i] = 1 / mass

			if cfg.PinTopRow && r == 0 {
				invMass[i] = 0
			}
		}
	}

	b := newSpringBuilder[T](positions)
	idx := func(c, r int) int32 { return int32(r*cols + c) }

	if cfg.StructuralKe > 0 || cfg.StructuralKd > 0 {
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if c+1 < cols {
					b.add(idx(c, r), idx(c+1, r), cfg.StructuralKe, cfg.StructuralKd)
				}
				if r+1 < rows {
					b.add(idx(c, r), idx(c, r+1), cfg.StructuralKe, cfg.StructuralKd)
				}
			}
		}
	}

	if cfg.ShearKe > 0 || cfg.ShearKd > 0 {
		for r := 0; r+1 < rows; r++ {
			for c := 0; c+1 < cols; c++ {
				b.add(idx(c, r), idx(c+1, r+1), cfg.ShearKe, cfg.ShearKd)
				b.add(idx(c+1, r), idx(c, r+1), cfg.ShearKe, cfg.ShearKd)
			}
		}
	}

	if cfg.BendKe > 0 || cfg.BendKd > 0 {
		for r := 0; r < rows; r++ {
			for c := 0; c+2 < cols; c++ {
				b.add(idx(c, r), idx(c+2, r), cfg.BendKe, cfg.BendKd)
			}
		}
		for c := 0; c < cols; c++ {
			for r := 0; r+2 < rows; r++ {
				b.add(idx(c, r), idx(c, r+2), cfg.BendKe, cfg.BendKd)
			}
		}
	}

	return NewSystem(positions, velocities, invMass, b.indices, b.rest, b.ke, b.kd)
}

// NewRope builds a horizontal chain of n particles spaced along the X
// axis and connected by structural springs. The first particle is pinned.
func NewRope[T Float](n int, spacing, mass, ke, kd T) (*System[T], error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: rope needs at least 2 particles", ErrEmptySystem)
	}

	if !(spacing > 0) {
		return nil, fmt.Errorf("%w: rope spacing %v", ErrInvalidRestLength, spacing)
	}

	if mass <= 0 {
		mass = 1
	}

	positions := make([]Vec3[T], n)
	velocities := make([]Vec3[T], n)
	invMass := make([]T, n)

	for i := 0; i < n; i++ {
		positions[i] = Vec3[T]{X: T(i) * spacing}
		invMass[i] = 1 / mass
	}
	invMass[0] = 0

	b := newSpringBuilder[T](positions)
	for i := 0; i+1 < n; i++ {
		b.add(int32(i), int32(i+1), ke, kd)
	}

	return NewSystem(positions, velocities, invMass, b.indices, b.rest, b.ke, b.kd)
}

// springBuilder accumulates springs with rest lengths measured from the
// initial positions.
type springBuilder[T Float] struct {
	positions []Vec3[T]
	indices   []int32
	rest      []T
	ke        []T
	kd        []T
}

func newSpringBuilder[T Float](positions []Vec3[T]) *springBuilder[T] {
	return &springBuilder[T]{positions: positions}
}

func (b *springBuilder[T]) add(i, j int32, ke, kd T) {
	b.indices = append(b.indices, i, j)
	b.rest = append(b.rest, b.positions[i].Sub(b.positions[j]).Length())
	b.ke = append(b.ke, ke)
	b.kd = append(b.kd, kd)
}

package algocloth

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-12

func newTwoParticleSystem(t *testing.T, stretch float64, invMass [2]float64) *System[float64] {
	t.Helper()

	sys, err := NewSystem(
		[]Vec3[float64]{{}, {X: 1 + stretch}},
		[]Vec3[float64]{{}, {}},
		invMass[:],
		[]int32{0, 1},
		[]float64{1},
		[]float64{100},
		[]float64{0},
	)
	if err != nil {
		t.Fatalf("NewSystem() error: %v", err)
	}

	return sys
}

func TestIntegrator_Equilibrium(t *testing.T) {
	t.Parallel()

	// A spring at exactly its rest length with zero velocity and no
	// gravity produces zero net displacement.
	sys := newTwoParticleSystem(t, 0, [2]float64{1, 1})

	it, err := NewIntegrator(sys, Options[float64]{})
	if err != nil {
		t.Fatalf("NewIntegrator() error: %v", err)
	}

	positions, err := it.Simulate(0.01, 4)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}

	want := []Vec3[float64]{{}, {X: 1}}
	for i := range positions {
		if positions[i] != want[i] {
			t.Errorf("particle %d moved: got %v, want %v", i, positions[i], want[i])
		}
	}
}

func TestIntegrator_StretchedSpringForce(t *testing.T) {
	t.Parallel()

	// A spring stretched by 0.5 with ke=100 and no damping pulls the
	// particles together with force magnitude ke*0.5 = 50. After one
	// sub-step the velocity change is f*w*dt.
	const (
		stretch = 0.5
		ke      = 100.0
		dt      = 1e-3
	)

	sys := newTwoParticleSystem(t, stretch, [2]float64{1, 1})

	it, err := NewIntegrator(sys, Options[float64]{})
	if err != nil {
		t.Fatalf("NewIntegrator() error: %v", err)
	}

	if _, err := it.Simulate(dt, 1); err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}

	wantSpeed := ke * stretch * dt
	v := sys.Velocities()

	if math.Abs(v[0].X-wantSpeed) > tol {
		t.Errorf("particle 0 velocity X = %v, want %v (pulled toward particle 1)", v[0].X, wantSpeed)
	}

	if math.Abs(v[1].X+wantSpeed) > tol {
		t.Errorf("particle 1 velocity X = %v, want %v (pulled toward particle 0)", v[1].X, -wantSpeed)
	}

	// Newton's third law: momentum is conserved.
	if math.Abs(v[0].X+v[1].X) > tol {
		t.Errorf("net momentum = %v, want 0", v[0].X+v[1].X)
	}
}

func TestIntegrator_PinnedParticlesNeverMove(t *testing.T) {
	t.Parallel()

	// Pinned particles ignore both spring forces and gravity.
	sys := newTwoParticleSystem(t, 3, [2]float64{0, 0})

	opts := DefaultOptions[float64]()
	it, err := NewIntegrator(sys, opts)
	if err != nil {
		t.Fatalf("NewIntegrator() error: %v", err)
	}

	positions, err := it.Simulate(0.1, 10)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}

	want := []Vec3[float64]{{}, {X: 4}}
	for i := range positions {
		if positions[i] != want[i] {
			t.Errorf("pinned particle %d moved: got %v, want %v", i, positions[i], want[i])
		}
	}

	for i, v := range sys.Velocities() {
		if (v != Vec3[float64]{}) {
			t.Errorf("pinned particle %d has velocity %v, want zero", i, v)
		}
	}
}

func TestIntegrator_ForceBufferClearedAfterSubstep(t *testing.T) {
	t.Parallel()

	sys := newTwoParticleSystem(t, 0.5, [2]float64{1, 1})

	opts := DefaultOptions[float64]()
	it, err := NewIntegrator(sys, opts)
	if err != nil {
		t.Fatalf("NewIntegrator() error: %v", err)
	}

	if _, err := it.Simulate(0.01, 3); err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}

	for i, f := range sys.f {
		if (f != Vec3[float64]{}) {
			t.Errorf("force buffer for particle %d = %v, want zero after integration", i, f)
		}
	}
}

func TestIntegrator_SequentialComposition(t *testing.T) {
	t.Parallel()

	// Two Simulate(h, 1) calls perform the same sub-step sequence as a
	// single Simulate(2h, 2) call.
	cfg := DefaultGridConfig[float64]()

	sysA, err := NewClothGrid(8, 6, 0.1, cfg)
	if err != nil {
		t.Fatalf("NewClothGrid() error: %v", err)
	}

	sysB, err := NewClothGrid(8, 6, 0.1, cfg)
	if err != nil {
		t.Fatalf("NewClothGrid() error: %v", err)
	}

	opts := DefaultOptions[float64]()

	itA, err := NewIntegrator(sysA, opts)
	if err != nil {
		t.Fatalf("NewIntegrator() error: %v", err)
	}

	itB, err := NewIntegrator(sysB, opts)
	if err != nil {
		t.Fatalf("NewIntegrator() error: %v", err)
	}

	const h = 0.005

	if _, err := itA.Simulate(h, 1); err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}

	posA, err := itA.Simulate(h, 1)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}

	posB, err := itB.Simulate(2*h, 2)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}

	for i := range posA {
		if posA[i] != posB[i] {
			t.Errorf("particle %d: two dt=%v steps give %v, one 2dt/2-substep call gives %v", i, h, posA[i], posB[i])
		}
	}
}

func TestIntegrator_ReferenceScenario(t *testing.T) {
	t.Parallel()

	// Two particles at (0,0,0) and (1,0,0), rest=1, ke=100, kd=0,
	// particle 0 pinned, gravity (0,-9.8,0), dt=0.01, one sub-step.
	// The spring is at rest, so the free particle only accelerates
	// downward: y = -9.8 * 0.01 * 0.01 = -0.00098.
	sys := newTwoParticleSystem(t, 0, [2]float64{0, 1})

	it, err := NewIntegrator(sys, DefaultOptions[float64]())
	if err != nil {
		t.Fatalf("NewIntegrator() error: %v", err)
	}

	positions, err := it.Simulate(0.01, 1)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}

	if (positions[0] != Vec3[float64]{}) {
		t.Errorf("pinned particle moved to %v, want (0,0,0)", positions[0])
	}

	want := Vec3[float64]{X: 1, Y: -0.00098}
	if math.Abs(positions[1].X-want.X) > tol ||
		math.Abs(positions[1].Y-want.Y) > tol ||
		math.Abs(positions[1].Z-want.Z) > tol {
		t.Errorf("free particle at %v, want ≈ %v", positions[1], want)
	}
}

func TestIntegrator_InvalidArguments(t *testing.T) {
	t.Parallel()

	sys := newTwoParticleSystem(t, 0, [2]float64{1, 1})

	it, err := NewIntegrator(sys, Options[float64]{})
	if err != nil {
		t.Fatalf("NewIntegrator() error: %v", err)
	}

	if _, err := it.Simulate(0, 1); !errors.Is(err, ErrInvalidTimestep) {
		t.Errorf("Simulate(0, 1) error = %v, want ErrInvalidTimestep", err)
	}

	if _, err := it.Simulate(-0.01, 1); !errors.Is(err, ErrInvalidTimestep) {
		t.Errorf("Simulate(-0.01, 1) error = %v, want ErrInvalidTimestep", err)
	}

	if _, err := it.Simulate(0.01, 0); !errors.Is(err, ErrInvalidSubsteps) {
		t.Errorf("Simulate(0.01, 0) error = %v, want ErrInvalidSubsteps", err)
	}
}

func TestIntegrator_DegenerateSpringPolicies(t *testing.T) {
	t.Parallel()

	// Two coincident particles joined by a spring have no defined
	// direction. Both policies must produce finite state instead of NaN.
	build := func(t *testing.T) *System[float64] {
		t.Helper()

		sys, err := NewSystem(
			[]Vec3[float64]{{X: 1}, {X: 1}},
			[]Vec3[float64]{{}, {}},
			[]float64{1, 1},
			[]int32{0, 1},
			[]float64{1},
			[]float64{100},
			[]float64{1},
		)
		if err != nil {
			t.Fatalf("NewSystem() error: %v", err)
		}

		return sys
	}

	for _, policy := range []DegeneratePolicy{DegenerateClamp, DegenerateSkip} {
		t.Run(policy.String(), func(t *testing.T) {
			t.Parallel()

			sys := build(t)

			it, err := NewIntegrator(sys, Options[float64]{
				Degenerate:  policy,
				CheckFinite: true,
			})
			if err != nil {
				t.Fatalf("NewIntegrator() error: %v", err)
			}

			if _, err := it.Simulate(0.01, 10); err != nil {
				t.Errorf("Simulate() with %v policy: %v", policy, err)
			}

			if err := sys.CheckFinite(); err != nil {
				t.Errorf("state not finite under %v policy: %v", policy, err)
			}
		})
	}
}

func TestIntegrator_CheckFiniteSurfacesBlowup(t *testing.T) {
	t.Parallel()

	// An absurdly stiff spring with a huge timestep explodes the explicit
	// integration. With CheckFinite the caller sees ErrNonFinite instead
	// of silent garbage.
	sys, err := NewSystem(
		[]Vec3[float64]{{}, {X: 2}},
		[]Vec3[float64]{{}, {}},
		[]float64{1, 1},
		[]int32{0, 1},
		[]float64{1},
		[]float64{1e300},
		[]float64{0},
	)
	if err != nil {
		t.Fatalf("NewSystem() error: %v", err)
	}

	it, err := NewIntegrator(sys, Options[float64]{CheckFinite: true})
	if err != nil {
		t.Fatalf("NewIntegrator() error: %v", err)
	}

	if _, err := it.Simulate(1e10, 50); !errors.Is(err, ErrNonFinite) {
		t.Errorf("Simulate() error = %v, want ErrNonFinite", err)
	}
}

func TestIntegrator_Float32(t *testing.T) {
	t.Parallel()

	sys, err := NewSystem(
		[]Vec3[float32]{{}, {X: 1}},
		[]Vec3[float32]{{}, {}},
		[]float32{0, 1},
		[]int32{0, 1},
		[]float32{1},
		[]float32{100},
		[]float32{0},
	)
	if err != nil {
		t.Fatalf("NewSystem() error: %v", err)
	}

	it, err := NewIntegrator(sys, DefaultOptions[float32]())
	if err != nil {
		t.Fatalf("NewIntegrator() error: %v", err)
	}

	positions, err := it.Simulate(0.01, 1)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}

	if math.Abs(float64(positions[1].Y)+0.00098) > 1e-6 {
		t.Errorf("free particle Y = %v, want ≈ -0.00098", positions[1].Y)
	}
}

func BenchmarkSimulate32x32(b *testing.B) {
	sys, err := NewClothGrid(32, 32, 0.1, DefaultGridConfig[float64]())
	if err != nil {
		b.Fatalf("NewClothGrid() error: %v", err)
	}

	it, err := NewIntegrator(sys, DefaultOptions[float64]())
	if err != nil {
		b.Fatalf("NewIntegrator() error: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := it.Simulate(1.0/60.0, 16); err != nil {
			b.Fatal(err)
		}
	}
}

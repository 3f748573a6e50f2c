package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-cloth/internal/cpu"
	"github.com/cwbudde/algo-cloth/internal/ctypes"
)

type testSystem struct {
	x, v, f []ctypes.Vec3[float64]
	w       []float64
	springs Springs[float64]
}

// randomSystem builds a random particle/spring soup large enough to take
// the parallel path.
func randomSystem(rnd *rand.Rand, n, m int) *testSystem {
	ts := &testSystem{
		x: make([]ctypes.Vec3[float64], n),
		v: make([]ctypes.Vec3[float64], n),
		f: make([]ctypes.Vec3[float64], n),
		w: make([]float64, n),
	}

	for i := 0; i < n; i++ {
		ts.x[i] = ctypes.Vec3[float64]{X: rnd.Float64() * 10, Y: rnd.Float64() * 10, Z: rnd.Float64() * 10}
		ts.v[i] = ctypes.Vec3[float64]{X: rnd.NormFloat64(), Y: rnd.NormFloat64(), Z: rnd.NormFloat64()}
		ts.w[i] = rnd.Float64()
	}

	for s := 0; s < m; s++ {
		i := int32(rnd.Intn(n))
		j := int32(rnd.Intn(n))
		for j == i {
			j = int32(rnd.Intn(n))
		}

		ts.springs.Indices = append(ts.springs.Indices, i, j)
		ts.springs.Rest = append(ts.springs.Rest, 0.5+rnd.Float64())
		ts.springs.Ke = append(ts.springs.Ke, 50+rnd.Float64()*100)
		ts.springs.Kd = append(ts.springs.Kd, rnd.Float64())
	}

	return ts
}

func maxForceDelta(a, b []ctypes.Vec3[float64]) float64 {
	var max float64
	for i := range a {
		d := a[i].Sub(b[i])
		for _, c := range []float64{d.X, d.Y, d.Z} {
			if v := math.Abs(c); v > max {
				max = v
			}
		}
	}
	return max
}

func TestEvalSprings_ParallelMatchesSerial(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewSource(1))
	ts := randomSystem(rnd, 1500, 4000)

	serial := make([]ctypes.Vec3[float64], len(ts.f))
	EvalSprings(serial, ts.x, ts.v, &ts.springs, DegenerateClamp, 1e-9)

	for _, workers := range []int{2, 4, 7} {
		parallel := make([]ctypes.Vec3[float64], len(ts.f))
		partials := make([][]ctypes.Vec3[float64], workers)
		for w := range partials {
			partials[w] = make([]ctypes.Vec3[float64], len(ts.f))
		}

		kern := SelectKernels[float64](cpu.Features{})
		kern.EvalSprings(parallel, ts.x, ts.v, &ts.springs, DegenerateClamp, 1e-9, workers, partials)

		if delta := maxForceDelta(serial, parallel); delta > 1e-9 {
			t.Errorf("workers=%d: max force delta = %g vs serial, want <= 1e-9", workers, delta)
		}
	}
}

func TestEvalSprings_OrderIndependent(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewSource(2))
	ts := randomSystem(rnd, 200, 600)

	forward := make([]ctypes.Vec3[float64], len(ts.f))
	EvalSprings(forward, ts.x, ts.v, &ts.springs, DegenerateClamp, 1e-9)

	// Shuffle the spring order and re-evaluate; the accumulated forces
	// must agree up to floating-point associativity.
	m := ts.springs.Count()
	perm := rnd.Perm(m)

	shuffled := Springs[float64]{
		Indices: make([]int32, 2*m),
		Rest:    make([]float64, m),
		Ke:      make([]float64, m),
		Kd:      make([]float64, m),
	}

	for dst, src := range perm {
		shuffled.Indices[2*dst] = ts.springs.Indices[2*src]
		shuffled.Indices[2*dst+1] = ts.springs.Indices[2*src+1]
		shuffled.Rest[dst] = ts.springs.Rest[src]
		shuffled.Ke[dst] = ts.springs.Ke[src]
		shuffled.Kd[dst] = ts.springs.Kd[src]
	}

	reordered := make([]ctypes.Vec3[float64], len(ts.f))
	EvalSprings(reordered, ts.x, ts.v, &shuffled, DegenerateClamp, 1e-9)

	if delta := maxForceDelta(forward, reordered); delta > 1e-9 {
		t.Errorf("max force delta after reorder = %g, want <= 1e-9", delta)
	}
}

func TestEvalSprings_NewtonThirdLaw(t *testing.T) {
	t.Parallel()

	rnd := rand.New(rand.NewSource(3))
	ts := randomSystem(rnd, 100, 300)

	EvalSprings(ts.f, ts.x, ts.v, &ts.springs, DegenerateClamp, 1e-9)

	var sum ctypes.Vec3[float64]
	for _, f := range ts.f {
		sum = sum.Add(f)
	}

	if math.Abs(sum.X) > 1e-9 || math.Abs(sum.Y) > 1e-9 || math.Abs(sum.Z) > 1e-9 {
		t.Errorf("net internal force = %v, want ≈ zero", sum)
	}
}

func TestEvalSprings_DegeneratePolicies(t *testing.T) {
	t.Parallel()

	// Coincident particles: direction is the zero vector, so both
	// policies must yield a finite, zero force contribution.
	x := []ctypes.Vec3[float64]{{X: 1}, {X: 1}}
	v := []ctypes.Vec3[float64]{{Y: 1}, {Y: -1}}
	sp := Springs[float64]{
		Indices: []int32{0, 1},
		Rest:    []float64{1},
		Ke:      []float64{100},
		Kd:      []float64{1},
	}

	for _, policy := range []DegeneratePolicy{DegenerateClamp, DegenerateSkip} {
		f := make([]ctypes.Vec3[float64], 2)
		EvalSprings(f, x, v, &sp, policy, 1e-9)

		for i, fi := range f {
			if !fi.IsFinite() {
				t.Errorf("%v: force %d = %v, want finite", policy, i, fi)
			}

			if (fi != ctypes.Vec3[float64]{}) {
				t.Errorf("%v: force %d = %v, want zero for coincident pair", policy, i, fi)
			}
		}
	}
}

func TestEvalSprings_NearDegenerateClampBoundsForce(t *testing.T) {
	t.Parallel()

	// A nearly coincident pair would divide by ~1e-12 without the clamp.
	x := []ctypes.Vec3[float64]{{}, {X: 1e-12}}
	v := []ctypes.Vec3[float64]{{}, {}}
	sp := Springs[float64]{
		Indices: []int32{0, 1},
		Rest:    []float64{1},
		Ke:      []float64{100},
		Kd:      []float64{0},
	}

	f := make([]ctypes.Vec3[float64], 2)
	EvalSprings(f, x, v, &sp, DegenerateClamp, 1e-9)

	for i, fi := range f {
		if !fi.IsFinite() {
			t.Fatalf("force %d = %v, want finite", i, fi)
		}
	}

	// dir magnitude is clamped to |xij|/minLen = 1e-3, so the force is
	// bounded by ke * |c| * 1e-3.
	if mag := f[0].Length(); mag > 100*1.0*1e-3+tolSim {
		t.Errorf("clamped force magnitude = %g, want bounded by %g", mag, 100*1e-3)
	}
}

const tolSim = 1e-12

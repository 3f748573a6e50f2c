package sim

import "github.com/cwbudde/algo-cloth/internal/ctypes"

// EvalSprings accumulates spring forces into f for every spring, serially.
//
// For spring (i, j) with current length l, rest length r, stiffness ke and
// damping kd, the scalar force magnitude is
//
//	fs = ke*(l - r) + kd*dot(dir, vi - vj)
//
// and -fs*dir is added to f[i], +fs*dir to f[j]. Positions and velocities
// are not mutated. Callers guarantee f is zeroed before the pass.
func EvalSprings[T ctypes.Float](f, x, v []ctypes.Vec3[T], sp *Springs[T], policy DegeneratePolicy, minLen T) {
	evalSpringsRange(f, x, v, sp, policy, minLen, 0, sp.Count())
}

// evalSpringsRange is the generic force kernel for springs [lo, hi).
// Parallel callers pass per-worker partial buffers so that scatter-add
// contention is resolved by reduction instead of atomics.
func evalSpringsRange[T ctypes.Float](f, x, v []ctypes.Vec3[T], sp *Springs[T], policy DegeneratePolicy, minLen T, lo, hi int) {
	for s := lo; s < hi; s++ {
		i := sp.Indices[2*s]
		j := sp.Indices[2*s+1]

		xij := x[i].Sub(x[j])
		vij := v[i].Sub(v[j])

		l := xij.Length()
		if l < minLen {
			if policy == DegenerateSkip {
				continue
			}
			l = minLen
		}

		dir := xij.Scale(1 / l)

		c := l - sp.Rest[s]
		dcdt := dir.Dot(vij)

		fs := sp.Ke[s]*c + sp.Kd[s]*dcdt

		fv := dir.Scale(fs)
		f[i] = f[i].Sub(fv)
		f[j] = f[j].Add(fv)
	}
}

// EvalSprings evaluates spring forces using the given worker count.
// Each worker accumulates into its own partial buffer from partials; the
// partials are then reduced into f after the barrier. The result is
// independent of spring evaluation order up to floating-point
// associativity within a worker's chunk, and every contribution is summed
// exactly once.
//
// partials must contain at least workers buffers of len(f) each when
// workers > 1. The buffers are zeroed before use.
func (k *Kernels[T]) EvalSprings(f, x, v []ctypes.Vec3[T], sp *Springs[T], policy DegeneratePolicy, minLen T, workers int, partials [][]ctypes.Vec3[T]) {
	m := sp.Count()
	if workers <= 1 || m < minParallelSprings {
		k.eval(f, x, v, sp, policy, minLen, 0, m)
		return
	}

	ParallelRanges(m, workers, func(worker, lo, hi int) {
		part := partials[worker]
		clearVec3(part)
		k.eval(part, x, v, sp, policy, minLen, lo, hi)
	})

	for w := 0; w < workers; w++ {
		accumulate(f, partials[w])
	}
}

func accumulate[T ctypes.Float](dst, src []ctypes.Vec3[T]) {
	for i := range dst {
		dst[i] = dst[i].Add(src[i])
	}
}

func clearVec3[T ctypes.Float](f []ctypes.Vec3[T]) {
	var zero ctypes.Vec3[T]
	for i := range f {
		f[i] = zero
	}
}

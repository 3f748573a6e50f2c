package sim

import "github.com/cwbudde/algo-cloth/internal/ctypes"

// IntegrateParticles advances positions and velocities by one sub-step of
// size dt using semi-implicit Euler: the velocity is updated first, then
// the position uses the updated velocity.
//
// Gravity g is applied only to free particles (inverse mass w > 0). Pinned
// particles (w == 0) receive no net force and no gravity, so their state
// is unchanged. The force buffer is cleared for the next pass.
func IntegrateParticles[T ctypes.Float](x, v, f []ctypes.Vec3[T], w []T, g ctypes.Vec3[T], dt T) {
	integrateRange(x, v, f, w, g, dt, 0, len(x))
}

// integrateRange is the generic integration kernel for particles [lo, hi).
func integrateRange[T ctypes.Float](x, v, f []ctypes.Vec3[T], w []T, g ctypes.Vec3[T], dt T, lo, hi int) {
	var zero ctypes.Vec3[T]

	for i := lo; i < hi; i++ {
		var aExt ctypes.Vec3[T]
		if w[i] > 0 {
			aExt = g
		}

		v[i] = v[i].Add(f[i].Scale(w[i]).Add(aExt).Scale(dt))
		x[i] = x[i].Add(v[i].Scale(dt))

		f[i] = zero
	}
}

// Integrate advances all particles using the given worker count. Each
// particle is owned by exactly one worker, so no buffer is shared between
// workers during the pass.
func (k *Kernels[T]) Integrate(x, v, f []ctypes.Vec3[T], w []T, g ctypes.Vec3[T], dt T, workers int) {
	n := len(x)
	if workers <= 1 || n < minParallelParticles {
		k.integrate(x, v, f, w, g, dt, 0, n)
		return
	}

	ParallelRanges(n, workers, func(_, lo, hi int) {
		k.integrate(x, v, f, w, g, dt, lo, hi)
	})
}

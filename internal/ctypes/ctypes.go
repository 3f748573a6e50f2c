// Package ctypes defines the shared type constraints and small value types
// used across the cloth simulation packages.
package ctypes

// Float is a type constraint for the floating-point precisions supported by
// the simulation kernels.
type Float interface {
	~float32 | ~float64
}

package gpu

import algocloth "github.com/cwbudde/algo-cloth"

// Float is the shared precision constraint used by algocloth.
type Float = algocloth.Float

// PrecisionKind describes the working precision of a GPU simulation.
type PrecisionKind uint8

const (
	PrecisionFloat32 PrecisionKind = iota
	PrecisionFloat64
)

// String returns a human-readable name for the precision.
func (p PrecisionKind) String() string {
	switch p {
	case PrecisionFloat32:
		return "float32"
	case PrecisionFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// DeviceInfo describes a GPU device.
type DeviceInfo struct {
	Name       string
	Vendor     string
	Driver     string
	MemoryMB   int
	ComputeCap string
}

// BackendInfo describes a backend implementation.
type BackendInfo struct {
	Name        string
	Version     string
	Description string
}

// SimOptions controls GPU simulator creation.
type SimOptions struct {
	// DeviceIndex selects which device to use (0 = default).
	DeviceIndex int

	// StreamCount requests a number of execution streams/queues.
	StreamCount int

	// Gravity is the constant external acceleration, in precision-
	// independent form.
	Gravity [3]float64

	// Degenerate selects the zero-length spring policy.
	Degenerate algocloth.DegeneratePolicy

	// CheckFinite makes Step verify the downloaded state for NaN/Inf.
	CheckFinite bool
}

// DefaultSimOptions returns options with standard gravity (0, -9.8, 0).
func DefaultSimOptions() SimOptions {
	return SimOptions{
		Gravity: [3]float64{0, -9.8, 0},
	}
}

// SimDescriptor carries the initial cloth state to a backend. The typed
// slices are []algocloth.Vec3[float32] / []float32 or the float64
// equivalents, matching Precision.
type SimDescriptor struct {
	Precision PrecisionKind

	Positions  any
	Velocities any
	InvMass    any

	SpringIndices []int32
	RestLengths   any
	Stiffness     any
	Damping       any
}

package gpu

import (
	"fmt"

	algocloth "github.com/cwbudde/algo-cloth"
)

// MockBackend is a CPU-backed GPU backend for development and tests.
// It satisfies the GPU backend interfaces but executes on the CPU.
type MockBackend struct {
	device DeviceInfo
}

// NewMockBackend returns a mock backend with a single fake device.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		device: DeviceInfo{
			Name:       "MockGPU",
			Vendor:     "algocloth",
			Driver:     "mock",
			MemoryMB:   0,
			ComputeCap: "cpu",
		},
	}
}

func (b *MockBackend) Info() BackendInfo {
	return BackendInfo{
		Name:        "mock",
		Version:     "0.1",
		Description: "CPU-backed mock GPU backend",
	}
}

func (b *MockBackend) Available() bool {
	return true
}

func (b *MockBackend) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{b.device}, nil
}

func (b *MockBackend) NewContext(deviceIndex int) (Context, error) {
	if deviceIndex != 0 {
		return nil, fmt.Errorf("mock backend: device index %d out of range", deviceIndex)
	}
	return &mockContext{device: b.device}, nil
}

// RegisterMockBackend registers the mock backend as the active backend.
func RegisterMockBackend() {
	RegisterBackend(NewMockBackend())
}

type mockContext struct {
	device DeviceInfo
}

func (c *mockContext) Device() DeviceInfo {
	return c.device
}

func (c *mockContext) NewBuffer(elemCount int, precision PrecisionKind) (Buffer, error) {
	if elemCount < 0 {
		return nil, ErrInvalidLength
	}
	switch precision {
	case PrecisionFloat32:
		return &mockBuffer[float32]{
			precision: precision,
			data:      make([]float32, elemCount),
		}, nil
	case PrecisionFloat64:
		return &mockBuffer[float64]{
			precision: precision,
			data:      make([]float64, elemCount),
		}, nil
	default:
		return nil, ErrNotImplemented
	}
}

func (c *mockContext) NewStream() (Stream, error) {
	return &mockStream{}, nil
}

func (c *mockContext) NewClothSim(desc SimDescriptor, opts SimOptions) (SimImpl, error) {
	switch desc.Precision {
	case PrecisionFloat32:
		return newMockSim[float32](desc, opts)
	case PrecisionFloat64:
		return newMockSim[float64](desc, opts)
	default:
		return nil, ErrNotImplemented
	}
}

func (c *mockContext) Close() error {
	return nil
}

type mockBuffer[T Float] struct {
	precision PrecisionKind
	data      []T
}

func (b *mockBuffer[T]) Len() int {
	return len(b.data)
}

func (b *mockBuffer[T]) Precision() PrecisionKind {
	return b.precision
}

func (b *mockBuffer[T]) Upload(src any) error {
	s, ok := src.([]T)
	if !ok {
		return ErrPrecisionMismatch
	}
	if len(s) != len(b.data) {
		return ErrLengthMismatch
	}
	copy(b.data, s)
	return nil
}

func (b *mockBuffer[T]) Download(dst any) error {
	d, ok := dst.([]T)
	if !ok {
		return ErrPrecisionMismatch
	}
	if len(d) != len(b.data) {
		return ErrLengthMismatch
	}
	copy(d, b.data)
	return nil
}

func (b *mockBuffer[T]) Close() error {
	b.data = nil
	return nil
}

type mockStream struct{}

func (s *mockStream) Synchronize() error { return nil }
func (s *mockStream) Close() error       { return nil }

// mockSim executes the cloth simulation on the CPU integrator while
// presenting the device-side SimImpl surface.
type mockSim[T Float] struct {
	precision PrecisionKind
	it        *algocloth.Integrator[T]
}

func newMockSim[T Float](desc SimDescriptor, opts SimOptions) (SimImpl, error) {
	positions, ok := desc.Positions.([]algocloth.Vec3[T])
	if !ok {
		return nil, ErrPrecisionMismatch
	}

	velocities, ok := desc.Velocities.([]algocloth.Vec3[T])
	if !ok {
		return nil, ErrPrecisionMismatch
	}

	invMass, ok := desc.InvMass.([]T)
	if !ok {
		return nil, ErrPrecisionMismatch
	}

	rest, ok := desc.RestLengths.([]T)
	if !ok {
		return nil, ErrPrecisionMismatch
	}

	ke, ok := desc.Stiffness.([]T)
	if !ok {
		return nil, ErrPrecisionMismatch
	}

	kd, ok := desc.Damping.([]T)
	if !ok {
		return nil, ErrPrecisionMismatch
	}

	sys, err := algocloth.NewSystem(positions, velocities, invMass, desc.SpringIndices, rest, ke, kd)
	if err != nil {
		return nil, err
	}

	it, err := algocloth.NewIntegrator(sys, algocloth.Options[T]{
		Gravity: algocloth.Vec3[T]{
			X: T(opts.Gravity[0]),
			Y: T(opts.Gravity[1]),
			Z: T(opts.Gravity[2]),
		},
		Degenerate:  opts.Degenerate,
		CheckFinite: opts.CheckFinite,
	})
	if err != nil {
		return nil, err
	}

	return &mockSim[T]{precision: desc.Precision, it: it}, nil
}

func (m *mockSim[T]) NumParticles() int {
	return m.it.System().NumParticles()
}

func (m *mockSim[T]) NumSprings() int {
	return m.it.System().NumSprings()
}

func (m *mockSim[T]) Precision() PrecisionKind {
	return m.precision
}

func (m *mockSim[T]) Step(dt float64, substeps int) error {
	_, err := m.it.Simulate(T(dt), substeps)
	return err
}

func (m *mockSim[T]) Positions(dst any) error {
	d, ok := dst.([]algocloth.Vec3[T])
	if !ok {
		return ErrPrecisionMismatch
	}
	copy(d, m.it.System().Positions())
	return nil
}

func (m *mockSim[T]) Close() error {
	return nil
}

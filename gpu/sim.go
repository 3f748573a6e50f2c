package gpu

import algocloth "github.com/cwbudde/algo-cloth"

// Simulator is a GPU-backed cloth simulator for a specific precision.
//
// The simulator owns device-resident particle and spring state. It is
// safe for concurrent use only if the underlying backend is thread-safe.
type Simulator[T Float] struct {
	n         int
	m         int
	precision PrecisionKind
	ctx       Context
	streams   []Stream
	options   SimOptions
	impl      SimImpl
}

// NewSimulator uploads the state of sys to the registered backend and
// creates a device simulator for it. The host system is not retained;
// device state evolves independently after creation.
func NewSimulator[T Float](sys *algocloth.System[T], opts SimOptions) (*Simulator[T], error) {
	backend := getBackend()
	if backend == nil {
		return nil, ErrNoBackend
	}

	if !backend.Available() {
		return nil, ErrBackendUnavailable
	}

	ctx, err := backend.NewContext(opts.DeviceIndex)
	if err != nil {
		return nil, err
	}

	precision := PrecisionFloat32
	var zero T
	switch any(zero).(type) {
	case float64:
		precision = PrecisionFloat64
	case float32:
		precision = PrecisionFloat32
	}

	streamCount := opts.StreamCount
	if streamCount <= 0 {
		streamCount = 1
	}

	streams := make([]Stream, 0, streamCount)
	for i := 0; i < streamCount; i++ {
		stream, err := ctx.NewStream()
		if err != nil {
			for _, s := range streams {
				_ = s.Close()
			}
			_ = ctx.Close()
			return nil, err
		}
		streams = append(streams, stream)
	}

	desc := SimDescriptor{
		Precision:     precision,
		Positions:     sys.Positions(),
		Velocities:    sys.Velocities(),
		InvMass:       sys.InverseMasses(),
		SpringIndices: sys.SpringIndices(),
		RestLengths:   sys.RestLengths(),
		Stiffness:     sys.Stiffness(),
		Damping:       sys.Damping(),
	}

	impl, err := ctx.NewClothSim(desc, opts)
	if err != nil {
		for _, s := range streams {
			_ = s.Close()
		}
		_ = ctx.Close()
		return nil, err
	}

	return &Simulator[T]{
		n:         sys.NumParticles(),
		m:         sys.NumSprings(),
		precision: precision,
		ctx:       ctx,
		streams:   streams,
		options:   opts,
		impl:      impl,
	}, nil
}

// NumParticles returns the particle count of the device state.
func (s *Simulator[T]) NumParticles() int {
	if s == nil {
		return 0
	}
	return s.n
}

// NumSprings returns the spring count of the device state.
func (s *Simulator[T]) NumSprings() int {
	if s == nil {
		return 0
	}
	return s.m
}

// Precision returns the simulator precision.
func (s *Simulator[T]) Precision() PrecisionKind {
	if s == nil {
		return PrecisionFloat32
	}
	return s.precision
}

// Step advances the device state by substeps iterations of size
// dt/substeps. A failure reports one aggregate error for the whole batch;
// the device state must then be treated as corrupted.
func (s *Simulator[T]) Step(dt T, substeps int) error {
	if s == nil || s.impl == nil {
		return ErrNotImplemented
	}
	if !(dt > 0) {
		return ErrInvalidTimestep
	}
	if substeps < 1 {
		return ErrInvalidSubsteps
	}
	return s.impl.Step(float64(dt), substeps)
}

// Positions downloads the current particle positions into dst.
func (s *Simulator[T]) Positions(dst []algocloth.Vec3[T]) error {
	if s == nil || s.impl == nil {
		return ErrNotImplemented
	}
	if dst == nil {
		return ErrNilSlice
	}
	if len(dst) < s.n {
		return ErrLengthMismatch
	}
	return s.impl.Positions(dst)
}

// Close releases the device simulator, streams, and context.
func (s *Simulator[T]) Close() error {
	if s == nil {
		return nil
	}

	var firstErr error
	if s.impl != nil {
		if err := s.impl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.impl = nil
	}

	for _, stream := range s.streams {
		if err := stream.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.streams = nil

	if s.ctx != nil {
		if err := s.ctx.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.ctx = nil
	}

	return firstErr
}

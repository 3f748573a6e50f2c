package gpu

import "errors"

var (
	// ErrNoBackend is returned when no GPU backend is registered.
	ErrNoBackend = errors.New("algocloth/gpu: no backend registered")

	// ErrBackendUnavailable is returned when the backend is registered but not available
	// on the current system (e.g., no device, driver missing).
	ErrBackendUnavailable = errors.New("algocloth/gpu: backend unavailable")

	// ErrNotImplemented is returned by stubbed operations.
	ErrNotImplemented = errors.New("algocloth/gpu: not implemented")

	// ErrInvalidLength is returned for invalid buffer sizes.
	ErrInvalidLength = errors.New("algocloth/gpu: invalid length")

	// ErrNilSlice is returned when a destination or source slice is nil.
	ErrNilSlice = errors.New("algocloth/gpu: nil slice")

	// ErrLengthMismatch is returned when host slice lengths are not as required.
	ErrLengthMismatch = errors.New("algocloth/gpu: length mismatch")

	// ErrPrecisionMismatch is returned when host data does not match the
	// device buffer or simulation precision.
	ErrPrecisionMismatch = errors.New("algocloth/gpu: precision mismatch")

	// ErrInvalidTimestep is returned for non-positive timesteps.
	ErrInvalidTimestep = errors.New("algocloth/gpu: invalid timestep")

	// ErrInvalidSubsteps is returned for substep counts below one.
	ErrInvalidSubsteps = errors.New("algocloth/gpu: invalid substep count")
)

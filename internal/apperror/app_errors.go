package apperror

import "errors"

var (
	ErrInvalidCell       = errors.New("invalid cell index")
	ErrStepOutOfRange    = errors.New("step is out of history range")
	ErrUnknownIntent     = errors.New("unknown intent")
	ErrSnapshotNotFound  = errors.New("snapshot not found")
	ErrMalformedSnapshot = errors.New("snapshot is malformed")
)

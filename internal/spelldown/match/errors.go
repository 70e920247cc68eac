package match

import "errors"

var (
	// ErrValidation wraps every rejected start input.
	ErrValidation = errors.New("invalid match setup")
	// ErrPhase means the operation is not allowed in the current phase.
	ErrPhase = errors.New("operation not allowed in current phase")
)

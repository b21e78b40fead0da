package orient

import "errors"

// Pipeline step errors. Any step failure fails the enclosing execution;
// no partial-result recovery is attempted.
var (
	ErrRenderFailed    = errors.New("page rendering failed")
	ErrDetectFailed    = errors.New("orientation detection failed")
	ErrCorrectFailed   = errors.New("orientation correction failed")
	ErrAssembleFailed  = errors.New("document reassembly failed")
	ErrInvalidRotation = errors.New("rotation must be 0, 90, 180, or 270 degrees")
)

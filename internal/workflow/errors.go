package workflow

import "errors"

// ErrInvalidInput indicates the execution input is missing a required document key.
var ErrInvalidInput = errors.New("invalid execution input")

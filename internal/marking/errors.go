package marking

import "errors"

// ErrTransformFailed indicates analysis output could not be read or decoded.
var ErrTransformFailed = errors.New("result transform failed")

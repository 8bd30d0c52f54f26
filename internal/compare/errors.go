package compare

import "errors"

// ErrUnknownPolicy is returned when a first-run policy value is not recognized
var ErrUnknownPolicy = errors.New("unknown first-run policy")

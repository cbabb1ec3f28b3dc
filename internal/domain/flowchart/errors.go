package flowchart

import "errors"

// ErrInvalidInput indicates invalid flowchart input.
var ErrInvalidInput = errors.New("invalid flowchart input")

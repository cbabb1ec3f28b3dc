package contact

import "errors"

// ErrInvalidInput indicates invalid contact input.
var ErrInvalidInput = errors.New("invalid contact input")

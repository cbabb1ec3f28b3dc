package ledger

import "errors"

// ErrInvalidInput indicates invalid transaction input.
var ErrInvalidInput = errors.New("invalid transaction input")

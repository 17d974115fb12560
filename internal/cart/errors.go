package cart

import "errors"

var (
	// ErrTooManyDistinctItems rejects a new distinct line past the hard cap.
	ErrTooManyDistinctItems = errors.New("cart: distinct line limit reached")
	// ErrLineNotFound means the identity matched no cart line.
	ErrLineNotFound = errors.New("cart: line not found")
	// ErrPersistFailed means the storage write was rejected and the mutation
	// was rolled back.
	ErrPersistFailed = errors.New("cart: persist failed")
)

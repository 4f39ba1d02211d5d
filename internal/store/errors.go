package store

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidState is returned when a lifecycle transition is attempted
// on a record that is no longer in the required state, e.g. approving
// an item another editor already approved or rejected.
var ErrInvalidState = errors.New("invalid state")

package rates

import (
	"errors"
	"fmt"
)

// ErrRateNotFound indicates that no direct, inverse, or base-triangulated path
// exists between two currencies for the requested date and rate type. Callers
// must treat this as a hard validation failure, never as "assume rate = 1".
var ErrRateNotFound = errors.New("exchange rate not found")

// MalformedInputError reports quote or currency data that violates invariants
// the resolver cannot explain away, e.g. a non-positive rate or more than one
// base currency. It is fatal to the operation; values are never coerced.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed rate data: %s", e.Reason)
}

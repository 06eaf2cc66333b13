package expreplay

import "errors"

// ExpReplayError implements errors unique to an experience replay
// buffer.
type ExpReplayError struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *ExpReplayError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause of the error
func (e *ExpReplayError) Unwrap() error {
	return e.Err
}

var errInsufficientSamples = errors.New("fewer samples than batch size")

var errInvalidAction = errors.New("action outside the discrete action set")

// IsInsufficientSamples returns whether or not an error reports that
// there are insufficient samples in the buffer to sample from the
// buffer. Callers should skip the learning step on such errors rather
// than treat them as fatal.
func IsInsufficientSamples(err error) bool {
	return errors.Is(err, errInsufficientSamples)
}

// IsInvalidAction returns whether or not an error reports that a
// transition carried an action outside the buffer's action set. Such
// errors indicate a caller bug and are fatal.
func IsInvalidAction(err error) bool {
	return errors.Is(err, errInvalidAction)
}

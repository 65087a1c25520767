package initializer

import "errors"

// FetchFailedMessage is the only thing callers learn about a failed fetch.
const FetchFailedMessage = "something went wrong"

// Initializer errors.
var (
	// ErrFetchFailed matches every *FetchError.
	ErrFetchFailed = errors.New(FetchFailedMessage)

	// ErrTimeout is the cause of a FetchError when no response arrived in
	// time, whether the remote hung or the worker pool was saturated.
	ErrTimeout = errors.New("no response before the deadline")

	// ErrAlreadyRunning is returned when a load is started while another
	// one on the same initializer is still in flight.
	ErrAlreadyRunning = errors.New("category load already running")
)

// FetchError is the unified failure of the fetch and parse phases.
// Connection failures, timeouts, unexpected statuses and undecodable bodies
// all surface as a FetchError whose message is FetchFailedMessage; the
// underlying cause is kept for operators and reachable with errors.Unwrap.
type FetchError struct {
	RunID string
	Cause error
}

func (e *FetchError) Error() string {
	return FetchFailedMessage
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrFetchFailed.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

package tracker

import (
	"errors"
	"fmt"
)

// Sentinel errors distinguishing the tracker protocol's failure
// modes. Read and write failures other than a timeout are returned
// unwrapped from the underlying net package instead of being folded
// into one of these, so callers can still errors.Is against
// net.Error if they care to. Bind does not surface dial failures: a
// port that fails to bind is skipped, and ErrPortsExhausted is
// returned when none bind.
var (
	ErrPortsExhausted         = errors.New("tracker: no bindable local port in configured range")
	ErrIncorrectTransactionID = errors.New("tracker: response transaction id does not match the request")
	ErrIncorrectAction        = errors.New("tracker: response action does not match the request")
	ErrTimeout                = errors.New("tracker: no response received within the receive timeout")
)

// ServerError wraps the message carried by an ERROR-action response.
// It does not invalidate the Connection; callers may retry.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("tracker: server error: %s", e.Message)
}

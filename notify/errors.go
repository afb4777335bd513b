package notify

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPanic is wrapped by errors of subscribers that panicked.
var ErrPanic = errors.New("subscriber panicked")

// SubscriberError is returned by Broadcast if any of subscribers failed.
// All subscribers are still notified.
type SubscriberError struct {
	Property string
	Errs     []error
}

func (e *SubscriberError) Error() string {
	s := make([]string, 0, len(e.Errs))
	for _, se := range e.Errs {
		s = append(s, se.Error())
	}
	return fmt.Sprintf("notify %s: %s", e.Property, strings.Join(s, ","))
}

// Is checks if any of errors match provided sentinel error.
func (e *SubscriberError) Is(err error) bool {
	for _, se := range e.Errs {
		if errors.Is(se, err) {
			return true
		}
	}
	return false
}

// Unwrap returns errors of failed subscribers.
func (e *SubscriberError) Unwrap() []error {
	return e.Errs
}

// ret returns untyped nil if there are no errors.
func (e *SubscriberError) ret() error {
	if len(e.Errs) > 0 {
		return e
	}
	return nil
}

package observable

import (
	"pipelined.dev/observable/mutator"
	"pipelined.dev/observable/notify"
)

type (
	// PropertyNotFoundError is returned if property doesn't name a
	// writable field of the target.
	PropertyNotFoundError = mutator.PropertyNotFoundError

	// TypeMismatchError is returned if value cannot be assigned to the
	// property.
	TypeMismatchError = mutator.TypeMismatchError

	// SubscriberError is returned if any subscriber failed. The value is
	// assigned regardless.
	SubscriberError = notify.SubscriberError

	// Handler is called after the property of sender has changed.
	Handler = notify.Handler

	// Subscription identifies a subscribed handler.
	Subscription = notify.Subscription
)

// ErrInvalidTarget is returned when target is nil.
var ErrInvalidTarget = mutator.ErrInvalidTarget

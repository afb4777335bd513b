// Package notify delivers property change notifications.
//
// Broadcaster keeps an ordered list of handlers. Broadcast takes a snapshot
// of the list and then calls every handler in subscription order on the
// caller's goroutine. Handlers subscribed or unsubscribed during a broadcast
// are affected starting with the next one. Failing handlers don't prevent
// others from being called: errors and panics are logged and returned
// together as SubscriberError.
package notify

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"pipelined.dev/observable/log"
	"pipelined.dev/observable/metric"
)

type (
	// Handler is called after the property of sender has changed.
	Handler func(sender interface{}, property string) error

	// Subscription identifies a subscribed handler.
	Subscription struct {
		id xid.ID
	}

	// Broadcaster notifies subscribers about changed properties. Zero
	// value is ready to use. Broadcaster is safe for concurrent use.
	Broadcaster struct {
		logger      logrus.FieldLogger
		mu          sync.RWMutex
		subscribers []subscriber
		meter       atomic.Pointer[senderMeter]
	}

	// senderMeter is the meter of the last broadcast sender type.
	senderMeter struct {
		t reflect.Type
		*metric.Meter
	}

	// Option configures the broadcaster.
	Option func(*Broadcaster)

	subscriber struct {
		Subscription
		handler Handler
		once    bool
	}
)

// Func returns handler that calls fn and never fails.
func Func(fn func(sender interface{}, property string)) Handler {
	return func(sender interface{}, property string) error {
		fn(sender, property)
		return nil
	}
}

// IsZero returns true if subscription wasn't returned by broadcaster.
func (s Subscription) IsZero() bool {
	return s.id.IsNil()
}

func (s Subscription) String() string {
	return s.id.String()
}

// WithLogger sets broadcaster logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Broadcaster) {
		b.logger = l
	}
}

// New returns broadcaster without subscribers.
func New(options ...Option) *Broadcaster {
	b := Broadcaster{}
	for _, option := range options {
		option(&b)
	}
	return &b
}

// Subscribe adds handler to the end of the list. The same handler can be
// subscribed multiple times, every subscription is notified.
func (b *Broadcaster) Subscribe(h Handler) Subscription {
	return b.subscribe(h, false)
}

// Once adds handler that is unsubscribed after the first notification.
func (b *Broadcaster) Once(h Handler) Subscription {
	return b.subscribe(h, true)
}

func (b *Broadcaster) subscribe(h Handler, once bool) Subscription {
	if h == nil {
		panic("subscribe nil handler")
	}
	s := Subscription{id: xid.New()}
	b.mu.Lock()
	b.subscribers = append(b.subscribers, subscriber{
		Subscription: s,
		handler:      h,
		once:         once,
	})
	b.mu.Unlock()
	return s
}

// Unsubscribe removes handler from the list. It returns false if
// subscription is unknown.
func (b *Broadcaster) Unsubscribe(s Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.subscribers {
		if b.subscribers[i].Subscription == s {
			last := len(b.subscribers) - 1
			copy(b.subscribers[i:], b.subscribers[i+1:])
			b.subscribers[last] = subscriber{}
			b.subscribers = b.subscribers[:last]
			return true
		}
	}
	return false
}

// Clear removes all subscribers.
func (b *Broadcaster) Clear() {
	b.mu.Lock()
	b.subscribers = nil
	b.mu.Unlock()
}

// Len returns number of subscribers.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Broadcast calls all subscribed handlers with sender and property.
func (b *Broadcaster) Broadcast(sender interface{}, property string) error {
	subscribers := b.snapshot()
	if len(subscribers) == 0 {
		return nil
	}
	meter := b.meterOf(sender)
	errs := SubscriberError{Property: property}
	for _, s := range subscribers {
		if err := call(s.handler, sender, property); err != nil {
			meter.AddFailure()
			b.log().WithFields(logrus.Fields{
				"type":         fmt.Sprintf("%T", sender),
				"property":     property,
				"subscription": s.String(),
			}).WithError(err).Warn("subscriber failed")
			errs.Errs = append(errs.Errs, err)
			continue
		}
		meter.AddNotification()
	}
	return errs.ret()
}

func (b *Broadcaster) meterOf(sender interface{}) *metric.Meter {
	t := reflect.TypeOf(sender)
	if m := b.meter.Load(); m != nil && m.t == t {
		return m.Meter
	}
	m := &senderMeter{t: t, Meter: metric.Of(sender)}
	b.meter.Store(m)
	return m.Meter
}

// snapshot copies subscribers and removes those subscribed once.
func (b *Broadcaster) snapshot() []subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.subscribers) == 0 {
		return nil
	}
	subscribers := make([]subscriber, len(b.subscribers))
	copy(subscribers, b.subscribers)

	kept := b.subscribers[:0]
	for _, s := range b.subscribers {
		if !s.once {
			kept = append(kept, s)
		}
	}
	// clear references to removed handlers.
	for i := len(kept); i < len(b.subscribers); i++ {
		b.subscribers[i] = subscriber{}
	}
	b.subscribers = kept
	return subscribers
}

func (b *Broadcaster) log() logrus.FieldLogger {
	if b.logger == nil {
		return log.Default()
	}
	return b.logger
}

// call executes handler and converts panic into error.
func call(h Handler, sender interface{}, property string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return h(sender, property)
}

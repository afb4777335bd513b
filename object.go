package observable

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"

	"pipelined.dev/observable/mutator"
	"pipelined.dev/observable/notify"
)

// objectField is the name of embedded Object field. It cannot be set.
const objectField = "Object"

type (
	// Observable is implemented by pointers to structs that embed Object.
	Observable interface {
		object() *Object
	}

	// Object can be embedded to make structure observable. Zero value
	// uses mutator.Default registry. Object must not be copied after
	// first use.
	Object struct {
		once     sync.Once
		registry *mutator.Registry
		logger   logrus.FieldLogger
		changes  *notify.Broadcaster
	}

	// Option configures the object.
	Option func(*Object)
)

// WithRegistry sets registry of mutators for the object.
func WithRegistry(r *mutator.Registry) Option {
	return func(o *Object) {
		o.registry = r
	}
}

// WithLogger sets logger of the object notifications.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Object) {
		o.logger = l
	}
}

// Use applies options to the object. It must be called before the object
// is used, otherwise it panics.
func (o *Object) Use(options ...Option) {
	if o == nil {
		panic("use nil object")
	}
	applied := false
	o.init(func() {
		applied = true
		for _, option := range options {
			option(o)
		}
	})
	if !applied {
		panic("use initialized object")
	}
}

// object returns nil if owner embeds nil *Object.
func (o *Object) object() *Object {
	if o == nil {
		return nil
	}
	return o.init(nil)
}

func (o *Object) init(configure func()) *Object {
	o.once.Do(func() {
		if configure != nil {
			configure()
		}
		if o.registry == nil {
			o.registry = mutator.Default
		}
		var options []notify.Option
		if o.logger != nil {
			options = append(options, notify.WithLogger(o.logger))
		}
		o.changes = notify.New(options...)
	})
	return o
}

// Subscribe adds handler of property changes. Nil object has nothing to
// notify, zero Subscription is returned for it.
func (o *Object) Subscribe(h Handler) Subscription {
	if o == nil {
		return Subscription{}
	}
	return o.object().changes.Subscribe(h)
}

// Once adds handler that receives only the next property change.
func (o *Object) Once(h Handler) Subscription {
	if o == nil {
		return Subscription{}
	}
	return o.object().changes.Once(h)
}

// Unsubscribe removes handler of property changes.
func (o *Object) Unsubscribe(s Subscription) bool {
	if o == nil {
		return false
	}
	return o.object().changes.Unsubscribe(s)
}

// Close removes all subscribers.
func (o *Object) Close() {
	if o == nil {
		return
	}
	o.object().changes.Clear()
}

// Set assigns value to the property of target and notifies subscribers.
// Mutation errors are returned before any subscriber is called.
// If subscribers fail, the value stays assigned and *SubscriberError
// is returned.
func Set[T any](target Observable, property string, value T) error {
	return set(target, property, reflect.ValueOf(&value).Elem())
}

// SetProperty assigns untyped value to the property of target and notifies
// subscribers. Nil value sets property to zero value if it's nillable.
func SetProperty(target Observable, property string, value interface{}) error {
	return set(target, property, reflect.ValueOf(value))
}

// RaisePropertyChanged notifies subscribers of target that property has
// changed. It's used when properties are mutated without Set.
func RaisePropertyChanged(target Observable, property string) error {
	o, err := resolve(target)
	if err != nil {
		return fmt.Errorf("raise %s: %w", property, err)
	}
	return o.changes.Broadcast(target, property)
}

func set(target Observable, property string, value reflect.Value) error {
	o, err := resolve(target)
	if err != nil {
		return fmt.Errorf("set %s: %w", property, err)
	}
	if property == objectField {
		return &PropertyNotFoundError{
			Key:    mutator.KeyOf(reflect.TypeOf(target), property),
			Reason: "field is reserved",
		}
	}
	if err := o.registry.Set(target, property, value); err != nil {
		return err
	}
	return o.changes.Broadcast(target, property)
}

func resolve(target Observable) (*Object, error) {
	if target == nil {
		return nil, ErrInvalidTarget
	}
	if rv := reflect.ValueOf(target); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil, fmt.Errorf("%T: %w", target, ErrInvalidTarget)
	}
	o := target.object()
	if o == nil {
		return nil, fmt.Errorf("%T: nil object: %w", target, ErrInvalidTarget)
	}
	return o, nil
}

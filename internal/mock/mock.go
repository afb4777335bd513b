// Package mock provides observable fixtures for tests.
package mock

import (
	"reflect"
	"sync"

	"pipelined.dev/observable"
)

type (
	// Person is an observable with fields of different kinds.
	Person struct {
		observable.Object
		Name   string
		Age    int
		Tags   []string
		Friend *Person
		Address
		note string
	}

	// Address is embedded into Person.
	Address struct {
		City string
	}

	// Counter is an observable mutated by its own method.
	Counter struct {
		observable.Object
		Value int
	}
)

// Note returns unexported note of the person.
func (p *Person) Note() string {
	return p.note
}

// Get returns value of the exported field.
func (p *Person) Get(property string) interface{} {
	return get(p, property)
}

// Get returns value of the exported field.
func (c *Counter) Get(property string) interface{} {
	return get(c, property)
}

// Increment mutates counter without Set and raises notification.
func (c *Counter) Increment() error {
	c.Value++
	return observable.RaisePropertyChanged(c, "Value")
}

func get(v interface{}, property string) interface{} {
	f := reflect.ValueOf(v).Elem().FieldByName(property)
	if !f.IsValid() || !f.CanInterface() {
		return nil
	}
	return f.Interface()
}

type (
	// Recorder records received notifications. If sender has Get method,
	// the value of property is recorded at the moment of notification.
	Recorder struct {
		mu            sync.Mutex
		notifications []Notification
		// Err is returned by the handler.
		Err error
	}

	// Notification describes a single handler call.
	Notification struct {
		Sender   interface{}
		Property string
		Value    interface{}
	}

	getter interface {
		Get(property string) interface{}
	}
)

// Handle is observable.Handler.
func (r *Recorder) Handle(sender interface{}, property string) error {
	n := Notification{
		Sender:   sender,
		Property: property,
	}
	if g, ok := sender.(getter); ok {
		n.Value = g.Get(property)
	}
	r.mu.Lock()
	r.notifications = append(r.notifications, n)
	r.mu.Unlock()
	return r.Err
}

// Notifications returns copy of recorded notifications.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.notifications == nil {
		return nil
	}
	n := make([]Notification, len(r.notifications))
	copy(n, r.notifications)
	return n
}

// Len returns number of recorded notifications.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notifications)
}

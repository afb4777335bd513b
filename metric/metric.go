// Package metric exposes expvar counters for observable types.
//
// Counters are process-wide and grouped by the observable type name, the
// same way the mutator cache is shared by all instances of a type.
package metric

import (
	"expvar"
	"fmt"
	"reflect"
	"sync"
)

const typesLabel = "observable.types"

const (
	// MutatorCounter counts mutators built for the type.
	MutatorCounter = "Mutators"
	// MutationCounter counts successful property mutations.
	MutationCounter = "Mutations"
	// NotificationCounter counts delivered change notifications.
	NotificationCounter = "Notifications"
	// FailureCounter counts failed subscriber calls.
	FailureCounter = "Failures"
)

var (
	types = meters{
		m:     make(map[reflect.Type]*Meter),
		names: make(map[string]reflect.Type),
	}

	counters = []string{
		MutatorCounter,
		MutationCounter,
		NotificationCounter,
		FailureCounter,
	}
)

// Get metrics values for provided observable. It accepts either a value
// of the observable type or its reflect.Type.
func Get(observable interface{}) map[string]string {
	types.Lock()
	meter, ok := types.m[getType(observable)]
	types.Unlock()
	if !ok {
		return map[string]string{}
	}
	return getCounters(meter.key)
}

// GetAll returns counters for all measured types, keyed by the name the
// type counters are published with.
func GetAll() map[string]map[string]string {
	m := make(map[string]map[string]string)
	types.Lock()
	defer types.Unlock()
	for _, meter := range types.m {
		m[meter.key] = getCounters(meter.key)
	}
	return m
}

func getCounters(typeName string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(key(typeName, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// Meter holds the counters of a single observable type.
type Meter struct {
	key           string
	mutators      *expvar.Int
	mutations     *expvar.Int
	notifications *expvar.Int
	failures      *expvar.Int
}

// For returns the meter of provided type. Pointer types share the
// meter of their element type.
func For(t reflect.Type) *Meter {
	return types.get(elem(t))
}

// Of returns the meter of the observable's type.
func Of(observable interface{}) *Meter {
	return types.get(getType(observable))
}

// AddMutator is called when a new mutator is built.
func (m *Meter) AddMutator() {
	m.mutators.Add(1)
}

// AddMutation is called when a property was set.
func (m *Meter) AddMutation() {
	m.mutations.Add(1)
}

// AddNotification is called when a subscriber received a notification.
func (m *Meter) AddNotification() {
	m.notifications.Add(1)
}

// AddFailure is called when a subscriber failed.
func (m *Meter) AddFailure() {
	m.failures.Add(1)
}

type meters struct {
	sync.Mutex
	m     map[reflect.Type]*Meter
	names map[string]reflect.Type
}

func (m *meters) get(t reflect.Type) *Meter {
	m.Lock()
	defer m.Unlock()
	if meter, ok := m.m[t]; ok {
		// return existing meter if available
		return meter
	}
	name := m.name(t)
	m.names[name] = t
	meter := newMeter(name)
	m.m[t] = meter
	return meter
}

// name returns unique counters name for the type. Types of different
// packages can have the same name, package path is added to distinguish
// them.
func (m *meters) name(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	name := t.String()
	if _, ok := m.names[name]; !ok {
		return name
	}
	name = fmt.Sprintf("%s(%s)", name, t.PkgPath())
	if _, ok := m.names[name]; !ok {
		return name
	}
	for i := 2; ; i++ {
		n := fmt.Sprintf("%s#%d", name, i)
		if _, ok := m.names[n]; !ok {
			return n
		}
	}
}

func newMeter(typeName string) *Meter {
	return &Meter{
		key:           typeName,
		mutators:      expvar.NewInt(key(typeName, MutatorCounter)),
		mutations:     expvar.NewInt(key(typeName, MutationCounter)),
		notifications: expvar.NewInt(key(typeName, NotificationCounter)),
		failures:      expvar.NewInt(key(typeName, FailureCounter)),
	}
}

func key(typeName, counter string) string {
	return fmt.Sprintf("%s.%s.%s", typesLabel, typeName, counter)
}

func getType(observable interface{}) reflect.Type {
	if t, ok := observable.(reflect.Type); ok {
		return elem(t)
	}
	rv := reflect.ValueOf(observable)
	if !rv.IsValid() {
		return nil
	}
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return elem(rv.Type())
		}
		rv = rv.Elem()
	}
	return rv.Type()
}

func elem(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

package mutator

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"pipelined.dev/observable/log"
	"pipelined.dev/observable/metric"
)

// Default is the process-wide registry.
var Default = New()

type (
	// Registry caches mutators by struct type and property name. Entries
	// are never removed. Registry is safe for concurrent use.
	Registry struct {
		logger  logrus.FieldLogger
		mu      sync.RWMutex
		entries map[Key]entry
	}

	// Option configures the registry.
	Option func(*Registry)

	entry struct {
		mutator Func
		meter   *metric.Meter
	}
)

// WithLogger sets registry logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// New returns empty registry.
func New(options ...Option) *Registry {
	r := Registry{
		entries: make(map[Key]entry),
	}
	for _, option := range options {
		option(&r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	return &r
}

// Set assigns value to the property of target. Target must be a non-nil
// pointer to struct. A mutator is built on first call for the target type
// and property and reused afterwards.
func (r *Registry) Set(target interface{}, property string, value reflect.Value) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("set %s on %T: %w", property, target, ErrInvalidTarget)
	}
	rv = rv.Elem()
	e, err := r.resolve(Key{Type: rv.Type(), Property: property})
	if err != nil {
		return err
	}
	if err := e.mutator(rv, normalize(value)); err != nil {
		return err
	}
	e.meter.AddMutation()
	return nil
}

// Resolve returns mutator for provided type and property. It's built
// and cached if the registry doesn't have it yet.
func (r *Registry) Resolve(t reflect.Type, property string) (Func, error) {
	key := KeyOf(t, property)
	if key.Type == nil || key.Type.Kind() != reflect.Struct {
		return nil, fmt.Errorf("resolve %v: %w", key, ErrInvalidTarget)
	}
	e, err := r.resolve(key)
	if err != nil {
		return nil, err
	}
	return e.mutator, nil
}

func (r *Registry) resolve(key Key) (entry, error) {
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	if ok {
		return e, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another caller could've built it while the lock was released.
	if e, ok := r.entries[key]; ok {
		return e, nil
	}
	fn, err := build(key)
	if err != nil {
		return entry{}, err
	}
	e = r.put(key, fn)
	r.logger.WithFields(logrus.Fields{
		"type":     key.Type.String(),
		"property": key.Property,
	}).Debug("mutator built")
	return e, nil
}

// Register adds mutator for provided type and property. It fails if
// registry already has a mutator for them.
func (r *Registry) Register(t reflect.Type, property string, fn Func) error {
	key := KeyOf(t, property)
	if key.Type == nil || key.Type.Kind() != reflect.Struct {
		return fmt.Errorf("register %v: %w", key, ErrInvalidTarget)
	}
	if property == "" {
		return &PropertyNotFoundError{Key: key, Reason: "empty property name"}
	}
	if fn == nil {
		panic("register nil mutator")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; ok {
		return fmt.Errorf("register %v: %w", key, ErrAlreadyRegistered)
	}
	r.put(key, fn)
	r.logger.WithFields(logrus.Fields{
		"type":     key.Type.String(),
		"property": key.Property,
	}).Debug("mutator registered")
	return nil
}

// put must be called with write lock held.
func (r *Registry) put(key Key, fn Func) entry {
	e := entry{
		mutator: fn,
		meter:   metric.For(key.Type),
	}
	r.entries[key] = e
	e.meter.AddMutator()
	return e
}

// Lookup returns cached mutator without building it.
func (r *Registry) Lookup(key Key) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	return e.mutator, ok
}

// Len returns number of cached mutators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Keys returns cached keys sorted by type and property.
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	keys := make([]Key, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	r.mu.RUnlock()
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i].String(), keys[j].String()
		if a != b {
			return a < b
		}
		// types of different packages can share the name.
		return keys[i].Type.PkgPath() < keys[j].Type.PkgPath()
	})
	return keys
}

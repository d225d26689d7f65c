// Package resource provides a loadable value with an explicit state
// machine: Idle -> Loading -> Ready(data) | Failed(err). A failed or ready
// resource can be loaded again; the manual retry of every list view is a
// second Load.
package resource

import (
	"context"
	"sync"
)

// Status is the load state of a Resource.
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Snapshot is a consistent view of a Resource at one instant. Data holds
// the last successfully loaded value; it survives a later failure so a
// view can keep showing stale content under its error panel.
type Snapshot[T any] struct {
	Status Status
	Data   T
	Err    error
}

// Resource holds one loadable value. The zero value is Idle and ready for
// use. A Resource must not be copied after first use.
type Resource[T any] struct {
	mu     sync.Mutex
	status Status
	data   T
	err    error
	// loaded is set once a load has succeeded; data is then a real copy
	// of the collection, even while Failed.
	loaded bool
	// gen counts Load calls; only the newest load may settle the state.
	gen uint64
}

// Load runs fetch and settles the resource with its result. While fetch
// runs the status is Loading. If another Load starts before this one
// finishes, this one's result is returned to its caller but not stored.
func (r *Resource[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.status = Loading
	r.err = nil
	r.mu.Unlock()

	data, err := fetch(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return data, err
	}
	if err != nil {
		r.status = Failed
		r.err = err
		return data, err
	}
	r.status = Ready
	r.data = data
	r.loaded = true
	return data, nil
}

// Snapshot returns the current state.
func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot[T]{Status: r.status, Data: r.data, Err: r.err}
}

// Status returns the current status.
func (r *Resource[T]) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Mutate replaces the data with fn(data) and reports whether it did. It
// applies once a load has succeeded, including in Failed where the last
// good data is still on display, so confirmed writes show up there too.
// Before the first successful load there is no local copy to change.
func (r *Resource[T]) Mutate(fn func(T) T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return false
	}
	r.data = fn(r.data)
	return true
}

// Set stores data and marks the resource Ready, superseding any load in
// flight.
func (r *Resource[T]) Set(data T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.status = Ready
	r.data = data
	r.loaded = true
	r.err = nil
}

// Reset returns the resource to Idle and drops its data.
func (r *Resource[T]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero T
	r.gen++
	r.status = Idle
	r.data = zero
	r.loaded = false
	r.err = nil
}

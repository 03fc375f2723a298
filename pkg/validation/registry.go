package validation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-formdisplay/pkg/answers"
)

// Func is a custom validator. It receives the answer for its question and the
// full store, and returns an error message or "" when the answer is valid.
type Func func(record answers.Record, store *answers.Store) string

// Registry maps question identifiers to custom validators.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// Register adds fn for questionID, replacing any existing validator.
func (r *Registry) Register(questionID string, fn Func) error {
	if questionID == "" {
		return fmt.Errorf("validation: question id is required")
	}
	if fn == nil {
		return fmt.Errorf("validation: validator for %q is nil", questionID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[questionID] = fn
	return nil
}

// MustRegister panics on registration failure.
func (r *Registry) MustRegister(questionID string, fn Func) {
	if err := r.Register(questionID, fn); err != nil {
		panic(err)
	}
}

// Get returns the validator for questionID.
func (r *Registry) Get(questionID string) (Func, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[questionID]
	return fn, ok
}

// List returns the registered question ids in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.funcs))
	for id := range r.funcs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Merge copies every validator from other into r, overriding duplicates.
func (r *Registry) Merge(other *Registry) {
	if other == nil || other == r {
		return
	}
	other.mu.RLock()
	defer other.mu.RUnlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, fn := range other.funcs {
		r.funcs[id] = fn
	}
}

// Package script loads custom validators written in JavaScript. A script
// assigns an object to the global "validators", mapping question ids to
// functions of (answer, answers) that return an error message or a falsy
// value:
//
//	validators = {
//	  "q-age": function (answer) {
//	    return Number(answer.value) >= 18 ? null : "Must be an adult";
//	  }
//	};
//
// Answers are exposed with the same field names the answer store uses in
// JSON (value, selectedOption, selectedOptions, value_entity_id, filePath,
// fileName).
package script

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/goliatone/go-formdisplay/pkg/answers"
	"github.com/goliatone/go-formdisplay/pkg/validation"
)

// GlobalName is the variable scripts assign their validators to.
const GlobalName = "validators"

// DefaultTimeout bounds a single validator call.
const DefaultTimeout = 250 * time.Millisecond

var (
	// ErrNoValidators is returned when a script does not define GlobalName.
	ErrNoValidators = errors.New("script: validators object not defined")
	// ErrTimeout is reported when a validator exceeds its time budget.
	ErrTimeout = errors.New("script: validator timed out")
)

// Option customises a Set.
type Option func(*Set)

// WithTimeout bounds each validator call. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(s *Set) {
		s.timeout = d
	}
}

// WithLogger sets the logger for runtime failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Set) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Set is a compiled script and the validators it defines. A goja runtime is
// single threaded so calls are serialised.
type Set struct {
	mu      sync.Mutex
	vm      *goja.Runtime
	funcs   map[string]goja.Callable
	timeout time.Duration
	logger  *slog.Logger
	name    string
}

// Compile runs source and collects the validators it declares. name labels
// the script in error messages.
func Compile(name, source string, opts ...Option) (*Set, error) {
	program, err := goja.Compile(name, source, false)
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}

	s := &Set{
		vm:      goja.New(),
		funcs:   make(map[string]goja.Callable),
		timeout: DefaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		name:    name,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if _, err := s.vm.RunProgram(program); err != nil {
		return nil, fmt.Errorf("script: run %s: %w", name, err)
	}

	global := s.vm.Get(GlobalName)
	if global == nil || goja.IsUndefined(global) || goja.IsNull(global) {
		return nil, fmt.Errorf("%w in %s", ErrNoValidators, name)
	}
	obj := global.ToObject(s.vm)
	for _, key := range obj.Keys() {
		fn, ok := goja.AssertFunction(obj.Get(key))
		if !ok {
			return nil, fmt.Errorf("script: %s: validator %q is not a function", name, key)
		}
		s.funcs[key] = fn
	}
	return s, nil
}

// IDs lists the question ids with a validator, sorted.
func (s *Set) IDs() []string {
	ids := make([]string, 0, len(s.funcs))
	for id := range s.funcs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Call runs the validator registered for questionID.
func (s *Set) Call(questionID string, rec answers.Record, store *answers.Store) (string, error) {
	fn, ok := s.funcs[questionID]
	if !ok {
		return "", fmt.Errorf("script: no validator for %q", questionID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timeout > 0 {
		fired := make(chan struct{})
		timer := time.AfterFunc(s.timeout, func() {
			s.vm.Interrupt(ErrTimeout)
			close(fired)
		})
		defer func() {
			// A timer that already fired may still be interrupting; the flag
			// must be cleared after it lands or the next call inherits it.
			if !timer.Stop() {
				<-fired
			}
			s.vm.ClearInterrupt()
		}()
	}

	value, err := fn(goja.Undefined(), s.vm.ToValue(exportRecord(rec)), s.vm.ToValue(exportStore(store)))
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return "", fmt.Errorf("script: %s: %q: %w", s.name, questionID, ErrTimeout)
		}
		return "", fmt.Errorf("script: %s: %q: %w", s.name, questionID, err)
	}
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) || !value.ToBoolean() {
		return "", nil
	}
	return value.String(), nil
}

// Register adds one validation.Func per scripted validator to registry.
// Runtime failures are logged and treated as a passing answer.
func (s *Set) Register(registry *validation.Registry) error {
	for _, id := range s.IDs() {
		questionID := id
		err := registry.Register(questionID, func(rec answers.Record, store *answers.Store) string {
			msg, err := s.Call(questionID, rec, store)
			if err != nil {
				s.logger.Warn("script validator failed", "question", questionID, "error", err)
				return ""
			}
			return msg
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func exportRecord(rec answers.Record) map[string]any {
	selected := make([]any, 0, len(rec.SelectedOptions))
	for _, id := range rec.SelectedOptions {
		selected = append(selected, id)
	}
	out := map[string]any{
		"value":           rec.Value,
		"selectedOptions": selected,
		"filePath":        rec.FilePath,
		"fileName":        rec.FileName,
		"hasFile":         rec.HasFile(),
	}
	if rec.SelectedOption != "" {
		out["selectedOption"] = rec.SelectedOption
	} else {
		out["selectedOption"] = nil
	}
	if rec.EntityID != "" {
		out["value_entity_id"] = rec.EntityID
	} else {
		out["value_entity_id"] = nil
	}
	return out
}

func exportStore(store *answers.Store) map[string]any {
	out := make(map[string]any)
	if store == nil {
		return out
	}
	for id, rec := range store.Records() {
		out[id] = exportRecord(rec)
	}
	return out
}

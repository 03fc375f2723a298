package render

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/elnormous/contenttype"
)

var (
	ErrUnknownRenderer   = errors.New("render: unknown renderer")
	ErrDuplicateRenderer = errors.New("render: renderer already registered")
	ErrNotAcceptable     = errors.New("render: no renderer for the accepted media types")
)

// Registry holds renderers by name in registration order. The first
// registered renderer answers requests that express no preference.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
	order     []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Register adds renderers under their Name. Registration stops at the first
// nameless or duplicate renderer.
func (r *Registry) Register(renderers ...Renderer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, renderer := range renderers {
		if renderer == nil || strings.TrimSpace(renderer.Name()) == "" {
			return errors.New("render: renderer with a name is required")
		}
		name := renderer.Name()
		if _, exists := r.renderers[name]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateRenderer, name)
		}
		r.renderers[name] = renderer
		r.order = append(r.order, name)
	}
	return nil
}

// Get returns the renderer registered as name.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownRenderer, name, strings.Join(r.order, ", "))
	}
	return renderer, nil
}

// List returns the renderer names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Negotiate picks the renderer whose content type best matches the request's
// Accept header. Parameters such as charset are ignored when matching.
func (r *Registry) Negotiate(req *http.Request) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	available := make([]contenttype.MediaType, 0, len(r.order))
	owners := make([]Renderer, 0, len(r.order))
	for _, name := range r.order {
		renderer := r.renderers[name]
		mediaType, _, err := mime.ParseMediaType(renderer.ContentType())
		if err != nil {
			continue
		}
		available = append(available, contenttype.NewMediaType(mediaType))
		owners = append(owners, renderer)
	}
	if len(available) == 0 {
		return nil, ErrNotAcceptable
	}

	chosen, _, err := contenttype.GetAcceptableMediaType(req, available)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAcceptable, err)
	}
	for i, mt := range available {
		if mt.Type == chosen.Type && mt.Subtype == chosen.Subtype {
			return owners[i], nil
		}
	}
	return nil, ErrNotAcceptable
}

package gotemplate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formdisplay/pkg/render/template"
)

// ErrNoTemplates is returned by New when no template filesystem is given.
var ErrNoTemplates = errors.New("gotemplate: a template filesystem is required")

// Option configures an Engine.
type Option func(*config)

type config struct {
	templates fs.FS
	extension string
	funcs     map[string]any
	globals   map[string]any
}

// WithFS sets the filesystem templates are loaded from.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension sets the suffix appended to template names that lack it.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.extension = ext
	}
}

// WithFuncs exposes Go functions to templates, called as name(args). Funcs
// belong to the engine, so two engines may bind the same name differently.
func WithFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if cfg.funcs == nil {
			cfg.funcs = make(map[string]any, len(funcs))
		}
		maps.Copy(cfg.funcs, funcs)
	}
}

// WithGlobals sets values visible to every template execution.
func WithGlobals(globals map[string]any) Option {
	return func(cfg *config) {
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(globals))
		}
		maps.Copy(cfg.globals, globals)
	}
}

// Engine executes pongo2 templates. Data is passed through its JSON encoding,
// so templates address struct fields by json tag.
type Engine struct {
	mu    sync.RWMutex
	set   *pongo2.TemplateSet
	cache map[string]*pongo2.Template
	ext   string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine over the configured template filesystem.
func New(options ...Option) (*Engine, error) {
	cfg := config{extension: ".tpl"}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templates == nil {
		return nil, ErrNoTemplates
	}

	e := &Engine{
		set:   pongo2.NewSet("formdisplay", pongo2.NewFSLoader(cfg.templates)),
		cache: make(map[string]*pongo2.Template),
		ext:   cfg.extension,
	}
	e.set.Globals = pongo2.Context{}
	for name, fn := range cfg.funcs {
		name = strings.TrimSpace(name)
		if name == "" || fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
			return nil, fmt.Errorf("gotemplate: func %q is not callable", name)
		}
		e.set.Globals[name] = fn
	}
	if err := e.GlobalContext(cfg.globals); err != nil {
		return nil, err
	}
	return e, nil
}

// GlobalContext merges data into the values every execution sees. Keys
// already bound to funcs are rejected.
func (e *Engine) GlobalContext(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	converted, err := toContext(data)
	if err != nil {
		return fmt.Errorf("gotemplate: globals: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for key, value := range converted {
		if existing := e.set.Globals[key]; existing != nil && reflect.TypeOf(existing).Kind() == reflect.Func {
			return fmt.Errorf("gotemplate: global %q shadows a func", key)
		}
		e.set.Globals[key] = value
	}
	return nil
}

// RenderTemplate executes the named template with data and copies the output
// to every writer in out.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	path := name
	if !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}
	tmpl, err := e.template(path)
	if err != nil {
		return "", err
	}
	viewContext, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: data for %q: %w", path, err)
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(viewContext, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute %q: %w", path, err)
	}

	for _, w := range out {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func (e *Engine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.cache[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load %q: %w", path, err)
	}
	e.cache[path] = tmpl
	return tmpl, nil
}

// toContext round-trips data through JSON into a template context. Data must
// encode as a JSON object.
func toContext(data any) (pongo2.Context, error) {
	if data == nil {
		return pongo2.Context{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	ctx := pongo2.Context{}
	if err := json.Unmarshal(raw, &ctx); err != nil {
		return nil, fmt.Errorf("data must encode as a JSON object: %w", err)
	}
	return ctx, nil
}

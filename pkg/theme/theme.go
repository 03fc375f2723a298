// Package theme holds the brand manifests the HTML renderer can be styled
// with and resolves a manifest plus variant into a renderer configuration.
package theme

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	gotheme "github.com/goliatone/go-theme"
)

// Brand names.
const (
	Souqfann     = "souqfann"
	VisitPetra   = "visitpetra"
	KhairatAldar = "khairat-aldar"

	// Default is selected when no theme is requested.
	Default = Souqfann
)

// Token keys every brand manifest defines.
const (
	TokenPrimary      = "primary"
	TokenPrimaryHover = "primary-hover"
	TokenAccent       = "accent"
	TokenDanger       = "danger"
	TokenRadius       = "radius"
)

// ErrUnknownTheme is returned when a theme or variant is not registered.
var ErrUnknownTheme = errors.New("theme: unknown theme")

// Manifests returns the built-in brand manifests.
func Manifests() []*gotheme.Manifest {
	return []*gotheme.Manifest{
		brand(Souqfann, "#007bff", "#0056b3", "#28a745"),
		brand(VisitPetra, "#dc3545", "#c82333", "#ffc107"),
		brand(KhairatAldar, "#6f42c1", "#5a32a3", "#20c997"),
	}
}

func brand(name, primary, hover, accent string) *gotheme.Manifest {
	return &gotheme.Manifest{
		Name:    name,
		Version: "1.0.0",
		Tokens: map[string]string{
			TokenPrimary:      primary,
			TokenPrimaryHover: hover,
			TokenAccent:       accent,
			TokenDanger:       "#dc3545",
			TokenRadius:       "6px",
		},
		Assets: gotheme.Assets{
			Prefix: "/assets/themes/" + name,
			Files: map[string]string{
				"stylesheet": "theme.css",
			},
		},
		Variants: map[string]gotheme.Variant{
			"compact": {
				Tokens: map[string]string{
					TokenRadius: "2px",
				},
			},
		},
	}
}

// Selector resolves theme selections against a fixed set of manifests.
type Selector struct {
	manifests      map[string]*gotheme.Manifest
	provider       gotheme.ThemeProvider
	defaultTheme   string
	defaultVariant string
}

var _ gotheme.ThemeSelector = (*Selector)(nil)

// NewSelector registers manifests (the built-in brands when none are given)
// and returns a selector defaulting to defaultTheme.
func NewSelector(defaultTheme, defaultVariant string, manifests ...*gotheme.Manifest) (*Selector, error) {
	if len(manifests) == 0 {
		manifests = Manifests()
	}
	registry := gotheme.NewRegistry()
	s := &Selector{
		manifests:      make(map[string]*gotheme.Manifest, len(manifests)),
		provider:       registry,
		defaultTheme:   defaultTheme,
		defaultVariant: defaultVariant,
	}
	for _, m := range manifests {
		if m == nil {
			continue
		}
		if err := registry.Register(m); err != nil {
			return nil, fmt.Errorf("theme: register %s: %w", m.Name, err)
		}
		s.manifests[m.Name] = m
	}
	if s.defaultTheme == "" {
		s.defaultTheme = Default
	}
	if _, ok := s.manifests[s.defaultTheme]; !ok {
		return nil, fmt.Errorf("%w: default %q", ErrUnknownTheme, s.defaultTheme)
	}
	return s, nil
}

// Provider exposes the go-theme registry holding the manifests.
func (s *Selector) Provider() gotheme.ThemeProvider {
	return s.provider
}

// Names lists the registered themes.
func (s *Selector) Names() []string {
	return slices.Sorted(maps.Keys(s.manifests))
}

// Select implements gotheme.ThemeSelector. Empty arguments fall back to the
// selector defaults.
func (s *Selector) Select(name, variant string, _ ...gotheme.QueryOption) (*gotheme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	m, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if variant == "" && name == s.defaultTheme {
		variant = s.defaultVariant
	}
	if variant != "" {
		if _, ok := m.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %s variant %q", ErrUnknownTheme, name, variant)
		}
	}
	return &gotheme.Selection{Theme: name, Variant: variant, Manifest: m}, nil
}

// RendererConfig flattens a selection into the configuration renderers
// consume. Variant tokens, templates, and assets override the base manifest;
// fallbacks fill partials neither defines. A nil selection yields nil.
func RendererConfig(sel *gotheme.Selection, fallbacks map[string]string) *gotheme.RendererConfig {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	m := sel.Manifest

	tokens := maps.Clone(m.Tokens)
	partials := maps.Clone(fallbacks)
	if partials == nil {
		partials = map[string]string{}
	}
	maps.Copy(partials, m.Templates)
	files := maps.Clone(m.Assets.Files)
	prefix := m.Assets.Prefix

	if v, ok := m.Variants[sel.Variant]; ok {
		if tokens == nil {
			tokens = map[string]string{}
		}
		maps.Copy(tokens, v.Tokens)
		maps.Copy(partials, v.Templates)
		if files == nil {
			files = map[string]string{}
		}
		maps.Copy(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &gotheme.RendererConfig{
		Theme:    sel.Theme,
		Variant:  sel.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

// CSSVarsStyle renders CSS custom properties as a declaration list with
// stable ordering.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s: %s;", key, vars[key])
	}
	return b.String()
}

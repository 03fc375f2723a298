package geo

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPaths returns the country and city mount paths under basePath.
func MountPaths(basePath string, fns ...OptionFn) (string, string) {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.CountriesPath), mountPath(basePath, opts.CitiesPath)
}

// RegisterRoutes registers both list handlers under basePath on mux.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) ([]string, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions registers both handlers using a pre-built Options
// value.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("geo: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	countries := mountPath(basePath, opts.CountriesPath)
	cities := mountPath(basePath, opts.CitiesPath)
	mux.Handle(countries, CountriesHandlerWithOptions(opts))
	mux.Handle(cities, CitiesHandlerWithOptions(opts))
	return []string{countries, cities}, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}

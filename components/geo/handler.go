package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-formdisplay/pkg/reference"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type listResponse struct {
	Data []reference.Entity `json:"data"`
}

// CountriesHandler builds the country list handler with default options plus
// any overrides.
func CountriesHandler(fns ...OptionFn) http.Handler {
	return CountriesHandlerWithOptions(NewOptions(fns...))
}

// CitiesHandler builds the city list handler with default options plus any
// overrides.
func CitiesHandler(fns ...OptionFn) http.Handler {
	return CitiesHandlerWithOptions(NewOptions(fns...))
}

// CountriesHandlerWithOptions serves the country list from a pre-built
// Options value.
func CountriesHandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return listHandler(opts, func(ds *Dataset, _ *http.Request) ([]Place, error) {
		return ds.Countries, nil
	})
}

// CitiesHandlerWithOptions serves the cities of the requested country from a
// pre-built Options value. The country parameter accepts a code or an id.
// Unknown countries yield an empty list.
func CitiesHandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return listHandler(opts, func(ds *Dataset, r *http.Request) ([]Place, error) {
		country := strings.TrimSpace(r.URL.Query().Get(opts.CountryParam))
		if country == "" {
			return nil, StatusError{
				Code: http.StatusBadRequest,
				Err:  fmt.Errorf("geo: %s parameter is required", opts.CountryParam),
			}
		}
		return ds.CitiesOf(country), nil
	})
}

func listHandler(opts Options, source func(*Dataset, *http.Request) ([]Place, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		ds := opts.Dataset
		if ds == nil {
			loaded, err := DefaultDataset()
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			ds = loaded
		}

		places, err := source(ds, r)
		if err != nil {
			writeStatusError(w, err)
			return
		}

		query := r.URL.Query()
		results := Search(places, query.Get(opts.SearchParam), parseInt(query.Get(opts.LimitParam)), query.Get(opts.LangParam), opts)
		if results == nil {
			results = []reference.Entity{}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}

		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(true)
		_ = enc.Encode(listResponse{Data: results})
	})
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func writeStatusError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	http.Error(w, err.Error(), code)
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

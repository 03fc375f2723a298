package geo

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/goliatone/go-formdisplay/pkg/model"
)

//go:embed data/countries.json data/cities.json
var dataFS embed.FS

const (
	defaultCountriesPath = "data/countries.json"
	defaultCitiesPath    = "data/cities.json"
)

// Place is a country or city with a localized label. Value holds the country
// code for countries and is empty for cities.
type Place struct {
	ID    string              `json:"id"`
	Value string              `json:"value,omitempty"`
	Label model.LocalizedText `json:"label"`
}

// Dataset holds countries and the cities of each country keyed by country
// code.
type Dataset struct {
	Countries []Place
	Cities    map[string][]Place
}

// Country finds a country by code or id. Codes match case-insensitively.
func (d *Dataset) Country(ref string) (Place, bool) {
	ref = strings.TrimSpace(ref)
	if d == nil || ref == "" {
		return Place{}, false
	}
	for _, c := range d.Countries {
		if strings.EqualFold(c.Value, ref) || c.ID == ref {
			return c, true
		}
	}
	return Place{}, false
}

// CitiesOf returns the cities of the country identified by ref.
func (d *Dataset) CitiesOf(ref string) []Place {
	country, ok := d.Country(ref)
	if !ok {
		return nil
	}
	return d.Cities[strings.ToUpper(country.Value)]
}

var (
	defaultOnce    sync.Once
	defaultDataset *Dataset
	defaultErr     error
)

// DefaultDataset returns the embedded data set. It is parsed once.
func DefaultDataset() (*Dataset, error) {
	defaultOnce.Do(func() {
		countries, err := dataFS.Open(defaultCountriesPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = countries.Close() }()

		cities, err := dataFS.Open(defaultCitiesPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = cities.Close() }()

		defaultDataset, defaultErr = LoadDataset(countries, cities)
	})
	return defaultDataset, defaultErr
}

// LoadDataset decodes a country array and a country-code keyed city object.
// Countries without an id or code are rejected.
func LoadDataset(countries, cities io.Reader) (*Dataset, error) {
	if countries == nil {
		return nil, fmt.Errorf("geo: missing countries reader")
	}
	ds := &Dataset{Cities: map[string][]Place{}}
	if err := json.NewDecoder(countries).Decode(&ds.Countries); err != nil {
		return nil, fmt.Errorf("geo: decode countries: %w", err)
	}
	for i, c := range ds.Countries {
		if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Value) == "" {
			return nil, fmt.Errorf("geo: country %d: id and value are required", i)
		}
	}
	if cities == nil {
		return ds, nil
	}
	var byCountry map[string][]Place
	if err := json.NewDecoder(cities).Decode(&byCountry); err != nil {
		return nil, fmt.Errorf("geo: decode cities: %w", err)
	}
	for code, list := range byCountry {
		ds.Cities[strings.ToUpper(code)] = list
	}
	return ds, nil
}

package geo

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdisplay/pkg/reference"
)

type listPayload struct {
	Data []reference.Entity `json:"data"`
}

func serve(t *testing.T, h http.Handler, target string) (*http.Response, listPayload) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	res := rec.Result()

	var payload listPayload
	if res.StatusCode == http.StatusOK {
		if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return res, payload
}

func TestDefaultDataset(t *testing.T) {
	ds, err := DefaultDataset()
	if err != nil {
		t.Fatalf("load embedded data: %v", err)
	}
	jo, ok := ds.Country("jo")
	if !ok || jo.ID != "1" {
		t.Fatalf("expected Jordan by code, got %+v", jo)
	}
	if _, ok := ds.Country("1"); !ok {
		t.Fatalf("expected Jordan by id")
	}
	if len(ds.CitiesOf("JO")) == 0 {
		t.Fatalf("expected Jordanian cities")
	}
	if ds.CitiesOf("ZZ") != nil {
		t.Fatalf("unknown country should have no cities")
	}
}

func TestCountriesHandler_LocalizedTopList(t *testing.T) {
	h := CountriesHandler(WithDefaultLimit(2))

	res, payload := serve(t, h, "/api/countries?lang=ar")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}
	want := []reference.Entity{
		{ID: "1", Value: "JO", Label: "الأردن"},
		{ID: "2", Value: "SA", Label: "المملكة العربية السعودية"},
	}
	if diff := cmp.Diff(want, payload.Data); diff != "" {
		t.Fatalf("countries mismatch (-want +got):\n%s", diff)
	}
}

func TestCountriesHandler_Search(t *testing.T) {
	h := CountriesHandler()

	_, payload := serve(t, h, "/api/countries?q=united&lang=en")
	var labels []string
	for _, e := range payload.Data {
		labels = append(labels, e.Label)
	}
	want := []string{"United Arab Emirates", "United Kingdom", "United States"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}

	_, payload = serve(t, h, "/api/countries?q=jo")
	if len(payload.Data) == 0 || payload.Data[0].Value != "JO" {
		t.Fatalf("code match should rank first, got %+v", payload.Data)
	}
}

func TestCitiesHandler(t *testing.T) {
	h := CitiesHandler(WithMaxLimit(3))

	_, payload := serve(t, h, "/api/cities?country=JO&lang=en&limit=10")
	if len(payload.Data) != 3 {
		t.Fatalf("expected limit clamped to 3, got %d", len(payload.Data))
	}
	if payload.Data[0].Label != "Amman" {
		t.Fatalf("unexpected first city: %+v", payload.Data[0])
	}

	_, payload = serve(t, h, "/api/cities?country=ZZ")
	if payload.Data == nil || len(payload.Data) != 0 {
		t.Fatalf("unknown country should return empty data array, got %#v", payload.Data)
	}

	res, _ := serve(t, h, "/api/cities")
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing country should be a bad request, got %d", res.StatusCode)
	}
}

func TestHandler_MethodAndGuard(t *testing.T) {
	h := CountriesHandler(WithGuard(func(r *http.Request) error {
		if r.Header.Get("X-Key") == "" {
			return StatusError{Code: http.StatusUnauthorized, Err: errors.New("missing key")}
		}
		return nil
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/countries", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}

	res, _ := serve(t, h, "/api/countries")
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected guard status 401, got %d", res.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/countries", nil)
	req.Header.Set("X-Key", "k")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with key, got %d", rec.Code)
	}
}

func TestRegisterRoutesAndClient(t *testing.T) {
	mux := http.NewServeMux()
	patterns, err := RegisterRoutes(mux, "/geo")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if diff := cmp.Diff([]string{"/geo/api/countries", "/geo/api/cities"}, patterns); diff != "" {
		t.Fatalf("patterns mismatch (-want +got):\n%s", diff)
	}

	countries, cities := MountPaths("geo/", WithCitiesPath("towns"))
	if countries != "/geo/api/countries" || cities != "/geo/towns" {
		t.Fatalf("unexpected mount paths: %q %q", countries, cities)
	}

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := reference.NewClient(srv.URL + "/geo")
	list, err := client.Cities(t.Context(), "SA", "en")
	if err != nil {
		t.Fatalf("client cities: %v", err)
	}
	if _, ok := reference.Find(list, "201"); !ok {
		t.Fatalf("expected Riyadh in %+v", list)
	}
}

func TestLoadDatasetRejectsIncompleteCountries(t *testing.T) {
	_, err := LoadDataset(strings.NewReader(`[{"id": "1"}]`), nil)
	if err == nil {
		t.Fatalf("expected error for country without code")
	}
}

func TestComponent(t *testing.T) {
	c := New(WithCountriesPath("/countries"))
	if got := c.Options().CountriesPath; got != "/countries" {
		t.Fatalf("unexpected countries path %q", got)
	}
	res, payload := serve(t, c.Handler(), "/countries?q=egypt")
	if res.StatusCode != http.StatusOK || len(payload.Data) != 1 {
		t.Fatalf("component handler returned %d %+v", res.StatusCode, payload.Data)
	}
}

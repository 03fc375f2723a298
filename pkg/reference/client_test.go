package reference

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formdisplay/pkg/answers"
)

func TestClientCountriesAndCities(t *testing.T) {
	t.Parallel()

	var gotQueries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQueries = append(gotQueries, r.URL.Path+"?"+r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/countries":
			_, _ = w.Write([]byte(`[{"id": 1, "value": "JO", "label": "Jordan"}, {"id": "2", "value": "SA", "label": "Saudi Arabia"}]`))
		case "/api/cities":
			_, _ = w.Write([]byte(`{"data": [{"id": 101, "label": "Amman"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/")

	countries, err := client.Countries(context.Background(), "")
	if err != nil {
		t.Fatalf("countries: %v", err)
	}
	want := []Entity{{ID: "1", Value: "JO", Label: "Jordan"}, {ID: "2", Value: "SA", Label: "Saudi Arabia"}}
	if diff := cmp.Diff(want, countries); diff != "" {
		t.Fatalf("countries mismatch (-want +got):\n%s", diff)
	}

	cities, err := client.Cities(context.Background(), "JO", "ar")
	if err != nil {
		t.Fatalf("cities: %v", err)
	}
	if diff := cmp.Diff([]Entity{{ID: "101", Label: "Amman"}}, cities); diff != "" {
		t.Fatalf("cities mismatch (-want +got):\n%s", diff)
	}

	wantQueries := []string{"/api/countries?lang=en", "/api/cities?country=JO&lang=ar"}
	if diff := cmp.Diff(wantQueries, gotQueries); diff != "" {
		t.Fatalf("requests mismatch (-want +got):\n%s", diff)
	}

	if e, ok := Find(countries, "2"); !ok || e.Value != "SA" {
		t.Fatalf("Find by id failed: %+v", e)
	}
	if e, ok := FindByValue(countries, "JO"); !ok || e.ID != "1" {
		t.Fatalf("FindByValue failed: %+v", e)
	}
}

func TestClientFailuresReturnEmptyList(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	list, err := client.Countries(context.Background(), "en")
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", list)
	}

	list, err = client.Cities(context.Background(), " ", "en")
	if err == nil || list == nil || len(list) != 0 {
		t.Fatalf("blank country should fail with empty list, got %#v, %v", list, err)
	}
}

func TestDecodeList(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"", "null", `{"data": null}`, "[]"} {
		list, err := decodeList([]byte(body))
		if err != nil || list == nil || len(list) != 0 {
			t.Fatalf("decodeList(%q) = %#v, %v", body, list, err)
		}
	}
	if _, err := decodeList([]byte(`{"data": [{"id": true}]}`)); err == nil {
		t.Fatalf("expected error for boolean id")
	}
}

func TestGuard(t *testing.T) {
	t.Parallel()

	store := answers.New()
	store.SetEntity("country", "1", "Jordan")

	guard := NewGuard(store)
	ticket := guard.Begin("country", "1")
	if !guard.Current(ticket) {
		t.Fatalf("fresh ticket should be current")
	}

	store.SetValue("city", "unrelated")
	if !guard.Current(ticket) {
		t.Fatalf("writes to other keys must not invalidate the ticket")
	}

	store.SetEntity("country", "2", "Saudi Arabia")
	if guard.Current(ticket) {
		t.Fatalf("ticket should be stale after the country changed")
	}
	if ticket.Selection != "1" {
		t.Fatalf("ticket selection = %q", ticket.Selection)
	}
}

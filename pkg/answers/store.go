package answers

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Keys the store may carry that never name a question.
const (
	KeySelectedCountry = "selectedCountryId"
	KeyCountryID       = "country_id"
)

// IsReservedKey reports whether key is an internal helper entry rather than a
// question answer.
func IsReservedKey(key string) bool {
	return strings.HasPrefix(key, "_") || key == KeySelectedCountry || key == KeyCountryID
}

// Store maps question identifiers to answer records. The zero value is not
// usable; call New or Seed.
type Store struct {
	records   map[string]Record
	revisions map[string]uint64
	revision  uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		records:   make(map[string]Record),
		revisions: make(map[string]uint64),
	}
}

// FromRecords builds a store from an existing map. Records are copied.
func FromRecords(records map[string]Record) *Store {
	s := New()
	for _, id := range sortedKeys(records) {
		s.Set(id, records[id])
	}
	return s
}

// Len returns the number of entries, reserved keys included.
func (s *Store) Len() int {
	return len(s.records)
}

// Get returns a copy of the record stored for id.
func (s *Store) Get(id string) (Record, bool) {
	rec, ok := s.records[id]
	if !ok {
		return Record{}, false
	}
	return rec.Clone(), true
}

// Has reports whether id has a record.
func (s *Store) Has(id string) bool {
	_, ok := s.records[id]
	return ok
}

// Set replaces the record for id. The last write wins.
func (s *Store) Set(id string, rec Record) {
	s.records[id] = rec.Clone()
	s.bump(id)
}

// Update applies fn to the record for id, creating an empty record first when
// none exists.
func (s *Store) Update(id string, fn func(*Record)) {
	rec := s.records[id].Clone()
	fn(&rec)
	s.records[id] = rec
	s.bump(id)
}

// Delete removes the record for id.
func (s *Store) Delete(id string) {
	if _, ok := s.records[id]; !ok {
		return
	}
	delete(s.records, id)
	s.bump(id)
}

// Revision returns the write counter for id. It changes on every write to id
// and never repeats within the life of the store.
func (s *Store) Revision(id string) uint64 {
	return s.revisions[id]
}

// Keys returns every key in lexical order, reserved keys included.
func (s *Store) Keys() []string {
	return sortedKeys(s.records)
}

// Records returns a copy of every record keyed by question id.
func (s *Store) Records() map[string]Record {
	out := make(map[string]Record, len(s.records))
	for id, rec := range s.records {
		out[id] = rec.Clone()
	}
	return out
}

// Clone returns an independent copy of the store, revisions included.
func (s *Store) Clone() *Store {
	out := &Store{
		records:   s.Records(),
		revisions: make(map[string]uint64, len(s.revisions)),
		revision:  s.revision,
	}
	for id, rev := range s.revisions {
		out.revisions[id] = rev
	}
	return out
}

// SetValue stores the free-text value for id.
func (s *Store) SetValue(id, value string) {
	s.Update(id, func(r *Record) { r.Value = value })
}

// ToggleOption checks or unchecks optionID on a multi-choice answer. Checking
// appends so selection order is preserved; checking an already selected option
// is a no-op.
func (s *Store) ToggleOption(id, optionID string, checked bool) {
	s.Update(id, func(r *Record) {
		if checked {
			if !slices.Contains(r.SelectedOptions, optionID) {
				r.SelectedOptions = append(r.SelectedOptions, optionID)
			}
			return
		}
		kept := make([]string, 0, len(r.SelectedOptions))
		for _, selected := range r.SelectedOptions {
			if selected != optionID {
				kept = append(kept, selected)
			}
		}
		r.SelectedOptions = kept
	})
}

// SelectOption records a single-choice selection together with its display
// text. An empty optionID clears the selection.
func (s *Store) SelectOption(id, optionID, text string) {
	s.Update(id, func(r *Record) {
		r.SelectedOption = optionID
		r.Value = text
	})
}

// SetEntity records a country or city selection.
func (s *Store) SetEntity(id, entityID, text string) {
	s.Update(id, func(r *Record) {
		r.SelectedOption = entityID
		r.EntityID = entityID
		r.Value = text
	})
}

// SetFile records an uploaded file location.
func (s *Store) SetFile(id, path, name string) {
	s.Update(id, func(r *Record) {
		r.FilePath = path
		r.FileName = name
		r.Value = path
		r.File = nil
	})
}

// AttachFile records a file that is waiting to be uploaded.
func (s *Store) AttachFile(id string, upload *Upload) {
	s.Update(id, func(r *Record) {
		r.File = upload
		if upload != nil {
			r.FileName = upload.Name
		}
	})
}

// ClearEntity resets an entity answer to its empty shape.
func (s *Store) ClearEntity(id string) {
	s.Update(id, func(r *Record) {
		r.SelectedOption = ""
		r.EntityID = ""
		r.Value = ""
	})
}

// MarshalJSON encodes the store as a plain object of records.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.records)
}

// UnmarshalJSON replaces the store contents with the decoded records.
// Reserved keys that do not hold a record, such as a cached question list,
// are dropped.
func (s *Store) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("answers: decode store: %w", err)
	}
	fresh := New()
	for _, key := range sortedKeys(raw) {
		var rec Record
		if err := json.Unmarshal(raw[key], &rec); err != nil {
			if IsReservedKey(key) {
				continue
			}
			return fmt.Errorf("answers: decode record %q: %w", key, err)
		}
		fresh.Set(key, rec)
	}
	*s = *fresh
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *Store) bump(id string) {
	s.revision++
	s.revisions[id] = s.revision
}

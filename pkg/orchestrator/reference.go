package orchestrator

import (
	"context"
	"fmt"
	"slices"

	"github.com/goliatone/go-formdisplay/pkg/model"
	"github.com/goliatone/go-formdisplay/pkg/reference"
)

// LoadCountries fetches the country list in the session locale. On failure
// the returned list is empty and the previous list is kept.
func (s *Session) LoadCountries(ctx context.Context) ([]reference.Entity, error) {
	s.mu.Lock()
	lister, locale := s.reference, s.locale
	s.mu.Unlock()

	if lister == nil {
		return []reference.Entity{}, ErrNoReference
	}
	list, err := lister.Countries(ctx, locale)
	if err != nil {
		s.logger.Warn("orchestrator: country list unavailable", "error", err)
		return []reference.Entity{}, fmt.Errorf("orchestrator: load countries: %w", err)
	}

	s.mu.Lock()
	s.countries = slices.Clone(list)
	s.mu.Unlock()
	return list, nil
}

// LoadCities fetches the cities of the country selected in question
// countryID. The list is discarded with ErrStale when the country answer
// changed while the request was in flight.
func (s *Session) LoadCities(ctx context.Context, countryID string) ([]reference.Entity, error) {
	s.mu.Lock()
	q, ok := model.FindQuestion(s.questions, countryID)
	if !ok || q.Type != model.QuestionTypeCountry {
		s.mu.Unlock()
		return []reference.Entity{}, fmt.Errorf("%w: %q is not a country question", ErrUnknownQuestion, countryID)
	}
	rec, _ := s.store.Get(countryID)
	ticket := s.guard.Begin(countryID, rec.EntityID)
	code := s.countryCode(rec.EntityID)
	lister, locale := s.reference, s.locale
	s.mu.Unlock()

	if lister == nil {
		return []reference.Entity{}, ErrNoReference
	}
	if ticket.Selection == "" {
		return []reference.Entity{}, nil
	}

	list, err := lister.Cities(ctx, code, locale)
	if err != nil {
		s.logger.Warn("orchestrator: city list unavailable", "country", code, "error", err)
		return []reference.Entity{}, fmt.Errorf("orchestrator: load cities: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.guard.Current(ticket) {
		s.logger.Debug("orchestrator: discarding stale city list", "country", code)
		return []reference.Entity{}, ErrStale
	}
	s.cities = slices.Clone(list)
	return list, nil
}

// Countries returns the last loaded country list.
func (s *Session) Countries() []reference.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.countries)
}

// Cities returns the last accepted city list.
func (s *Session) Cities() []reference.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cities)
}

// countryCode resolves the value the city endpoint is keyed by. Without a
// loaded country list the entity id is used as is.
func (s *Session) countryCode(entityID string) string {
	if entity, ok := reference.Find(s.countries, entityID); ok && entity.Value != "" {
		return entity.Value
	}
	return entityID
}

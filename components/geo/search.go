package geo

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formdisplay/pkg/reference"
)

// Search filters places by label or code and localizes the result.
// Prefix matches sort before substring matches; ties sort by label.
func Search(places []Place, query string, limit int, locale string, opts Options) []reference.Entity {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode != EmptySearchTop {
			return nil
		}
		out := make([]reference.Entity, 0, min(limit, len(places)))
		for _, p := range places {
			if len(out) == limit {
				break
			}
			out = append(out, localize(p, locale, opts))
		}
		return out
	}

	q := strings.ToLower(query)
	matches := make([]matchedPlace, 0, 16)
	for _, p := range places {
		entity := localize(p, locale, opts)
		label := strings.ToLower(entity.Label)
		code := strings.ToLower(p.Value)
		if !strings.Contains(label, q) && code != q {
			continue
		}
		matches = append(matches, matchedPlace{
			entity:   entity,
			isPrefix: strings.HasPrefix(label, q) || code == q,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].entity.Label < matches[j].entity.Label
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]reference.Entity, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.entity)
	}
	return out
}

func localize(p Place, locale string, opts Options) reference.Entity {
	if strings.TrimSpace(locale) == "" {
		locale = opts.DefaultLocale
	}
	label := p.Label.In(locale)
	if label == "" {
		label = p.Value
	}
	return reference.Entity{ID: p.ID, Value: p.Value, Label: label}
}

type matchedPlace struct {
	entity   reference.Entity
	isPrefix bool
}

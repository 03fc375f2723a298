package reference

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Entity is a selectable reference item. Value carries the country code used
// to request cities; Label is already localized.
type Entity struct {
	ID    string `json:"id"`
	Value string `json:"value,omitempty"`
	Label string `json:"label"`
}

// UnmarshalJSON accepts numeric identifiers, which some list endpoints emit.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    json.RawMessage `json:"id"`
		Value json.RawMessage `json:"value"`
		Label string          `json:"label"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("reference: decode entity: %w", err)
	}
	id, err := scalar(raw.ID)
	if err != nil {
		return fmt.Errorf("reference: decode entity id: %w", err)
	}
	value, err := scalar(raw.Value)
	if err != nil {
		return fmt.Errorf("reference: decode entity value: %w", err)
	}
	*e = Entity{ID: id, Value: value, Label: raw.Label}
	return nil
}

func scalar(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

// Find returns the entity with id, comparing identifiers as strings.
func Find(list []Entity, id string) (Entity, bool) {
	for _, e := range list {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}

// FindByValue returns the entity whose Value equals value.
func FindByValue(list []Entity, value string) (Entity, bool) {
	for _, e := range list {
		if e.Value == value {
			return e, true
		}
	}
	return Entity{}, false
}

package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdisplay/pkg/i18n"
)

// LocalizedText maps locale codes to strings.
type LocalizedText map[string]string

// Text builds a LocalizedText holding the English value only.
func Text(en string) LocalizedText {
	return LocalizedText{i18n.DefaultLocale: en}
}

// In resolves the text for locale using the i18n fallback chain.
func (t LocalizedText) In(locale string) string {
	return i18n.Lookup(t, locale, "")
}

// UnmarshalJSON accepts either a locale map or a plain string. Plain strings
// apply to every locale.
func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*t = LocalizedText{i18n.AnyLocale: plain}
		return nil
	}
	var values map[string]*string
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("model: localized text: %w", err)
	}
	*t = compact(values)
	return nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML form files.
func (t *LocalizedText) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*t = nil
			return nil
		}
		*t = LocalizedText{i18n.AnyLocale: node.Value}
		return nil
	case yaml.MappingNode:
		var values map[string]*string
		if err := node.Decode(&values); err != nil {
			return fmt.Errorf("model: localized text: %w", err)
		}
		*t = compact(values)
		return nil
	default:
		return fmt.Errorf("model: localized text: unexpected YAML node kind %d", node.Kind)
	}
}

func compact(values map[string]*string) LocalizedText {
	if len(values) == 0 {
		return nil
	}
	out := make(LocalizedText, len(values))
	for locale, value := range values {
		if value == nil {
			continue
		}
		out[locale] = *value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned when a form file has no content.
var ErrEmptyDocument = errors.New("model: form document is empty")

// envelope accepts the raw GraphQL response shape so fixtures captured from
// the API load without editing.
type envelope struct {
	Data struct {
		Form *Form `json:"getFormWithAnswers" yaml:"getFormWithAnswers"`
	} `json:"data" yaml:"data"`
}

// ParseForm decodes a JSON or YAML form document. Both a bare form object and
// a {"data":{"getFormWithAnswers":...}} response envelope are accepted.
// Questions are returned sorted by Position, keeping document order for ties.
func ParseForm(data []byte, source string) (Form, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Form{}, fmt.Errorf("%w: %s", ErrEmptyDocument, source)
	}

	form, jsonErr := parseJSON(data)
	if jsonErr == nil {
		return finalize(form, source)
	}

	form, yamlErr := parseYAML(data)
	if yamlErr == nil {
		return finalize(form, source)
	}

	return Form{}, fmt.Errorf("model: parse %s: invalid JSON (%v) or YAML (%v)", source, jsonErr, yamlErr)
}

// LoadFile reads and parses a form document from disk.
func LoadFile(path string) (Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Form{}, fmt.Errorf("model: read %s: %w", path, err)
	}
	return ParseForm(data, path)
}

// LoadFS reads and parses a form document from fsys.
func LoadFS(fsys fs.FS, path string) (Form, error) {
	if fsys == nil {
		return Form{}, errors.New("model: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Form{}, fmt.Errorf("model: read %s: %w", path, err)
	}
	return ParseForm(data, path)
}

// IsFormFile reports whether path has a JSON or YAML extension.
func IsFormFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func parseJSON(data []byte) (Form, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Data.Form != nil {
		return *env.Data.Form, nil
	}
	var form Form
	if err := json.Unmarshal(data, &form); err != nil {
		return Form{}, err
	}
	return form, nil
}

func parseYAML(data []byte) (Form, error) {
	var env envelope
	if err := yaml.Unmarshal(data, &env); err == nil && env.Data.Form != nil {
		return *env.Data.Form, nil
	}
	var form Form
	if err := yaml.Unmarshal(data, &form); err != nil {
		return Form{}, err
	}
	return form, nil
}

func finalize(form Form, source string) (Form, error) {
	seen := make(map[string]struct{}, len(form.Questions))
	for i, q := range form.Questions {
		id := strings.TrimSpace(q.ID)
		if id == "" {
			return Form{}, fmt.Errorf("model: %s: question %d has an empty id", source, i)
		}
		if _, dup := seen[id]; dup {
			return Form{}, fmt.Errorf("model: %s: duplicate question id %q", source, id)
		}
		seen[id] = struct{}{}
		form.Questions[i].ID = id
		sort.SliceStable(form.Questions[i].Options, func(a, b int) bool {
			return form.Questions[i].Options[a].Position < form.Questions[i].Options[b].Position
		})
	}
	sort.SliceStable(form.Questions, func(a, b int) bool {
		return form.Questions[a].Position < form.Questions[b].Position
	})
	return form, nil
}

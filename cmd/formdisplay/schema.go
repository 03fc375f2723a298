package main

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formdisplay/pkg/model"
	"github.com/goliatone/go-formdisplay/pkg/submission"
)

var questionTypes = []model.QuestionType{
	model.QuestionTypeText,
	model.QuestionTypeTextarea,
	model.QuestionTypeEmail,
	model.QuestionTypeNumber,
	model.QuestionTypeSelect,
	model.QuestionTypeRadio,
	model.QuestionTypeCheckbox,
	model.QuestionTypeFile,
	model.QuestionTypeDate,
	model.QuestionTypeTime,
	model.QuestionTypeCountry,
	model.QuestionTypeCity,
	model.QuestionTypeHeader,
	model.QuestionTypeSubheader,
	model.QuestionTypeParagraph,
	model.QuestionTypeBoolean,
	model.QuestionTypeDateTime,
}

var comparators = []model.Comparator{
	model.ComparatorEquals,
	model.ComparatorNotEquals,
	model.ComparatorContains,
	model.ComparatorNotContains,
	model.ComparatorGreaterThan,
	model.ComparatorLessThan,
	model.ComparatorIsEmpty,
	model.ComparatorIsNotEmpty,
}

func newSchemaCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [form|batch]",
		Short: "Print the JSON Schema of form files or submission batches",
		Long: `Print a JSON Schema document describing either the form files accepted by
--form (the default) or the batch that encode and submit produce. Point an
editor at the form schema to get completion and checks in YAML form files.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"form", "batch"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "form"
			if len(args) == 1 {
				kind = args[0]
			}
			schema, err := reflectSchema(kind)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func reflectSchema(kind string) (*jsonschema.Schema, error) {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
		Mapper:         mapSchemaType,
	}
	switch kind {
	case "form":
		s := r.Reflect(new(model.Form))
		s.Title = "formdisplay form"
		return s, nil
	case "batch":
		s := r.Reflect(new(submission.Batch))
		s.Title = "formdisplay submission batch"
		return s, nil
	default:
		return nil, fmt.Errorf("unknown schema %q (want form or batch)", kind)
	}
}

// mapSchemaType covers the types whose JSON form differs from their Go shape.
func mapSchemaType(t reflect.Type) *jsonschema.Schema {
	switch t {
	case reflect.TypeOf(model.LocalizedText{}):
		// A plain string applies to every locale.
		return &jsonschema.Schema{
			AnyOf: []*jsonschema.Schema{
				{Type: "string"},
				{Type: "object", AdditionalProperties: &jsonschema.Schema{Type: "string"}},
			},
		}
	case reflect.TypeOf(model.QuestionType("")):
		return enumSchema(questionTypes)
	case reflect.TypeOf(model.Comparator("")):
		return enumSchema(comparators)
	case reflect.TypeOf(model.Action("")):
		return enumSchema([]model.Action{model.ActionShow, model.ActionHide})
	default:
		return nil
	}
}

func enumSchema[T ~string](values []T) *jsonschema.Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = string(v)
	}
	return &jsonschema.Schema{Type: "string", Enum: enum}
}

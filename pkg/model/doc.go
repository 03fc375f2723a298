// Package model defines the form schema consumed by the display engine:
// questions, their options, and the declarative show/hide conditions that
// reference other questions. Struct tags mirror the GraphQL payload returned
// by getFormWithAnswers so the same types decode API responses, JSON fixtures,
// and YAML form files. Question types header, subheader, and paragraph are
// display-only and never validated or submitted. Localized strings are keyed by
// locale code and resolve through LocalizedText.In, which falls back to English.
// The schema is loaded once per form and treated as immutable afterwards.
package model

// Package answers holds the per-question answer records a form session edits.
//
// A Store maps question identifiers to Records. Each record carries exactly
// one shape of fields for its question type: text-like questions use Value,
// single-choice questions use SelectedOption, checkboxes use SelectedOptions,
// country and city questions use EntityID, and file questions use the file
// fields. Store is not safe for concurrent mutation; callers that share one
// across goroutines must serialise access themselves.
package answers

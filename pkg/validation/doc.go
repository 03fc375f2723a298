// Package validation checks answers against required rules and caller
// supplied validators. Violations are returned as values in Result, never as
// Go errors; a question appears in the error map only when it is visible and
// not display-only.
package validation

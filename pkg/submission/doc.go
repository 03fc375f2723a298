// Package submission converts an answer store into the batch sent to the
// bulk answer mutation, and maps a batch back onto prior answers so a form can
// be re-seeded from what was submitted.
//
// Every encoded answer carries a value_text mirror next to its typed field.
// Malformed numbers encode as 0 and malformed dates pass through unchanged;
// neither stops the encode.
package submission

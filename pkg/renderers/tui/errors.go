package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrStillInvalid is returned by Fill when answers remain invalid after
	// the configured number of correction rounds.
	ErrStillInvalid = errors.New("tui: answers still invalid")
)

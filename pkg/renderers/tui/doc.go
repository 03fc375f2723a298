// Package tui fills and prints forms in a terminal. Filler drives an
// orchestrator session with survey prompts; Renderer prints answers.
package tui

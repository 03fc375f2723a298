package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/goliatone/go-formdisplay/pkg/orchestrator"
	"github.com/goliatone/go-formdisplay/pkg/validation"
)

// liveInput is one edit sent by a live form client.
type liveInput struct {
	Op       string `json:"op"`
	Question string `json:"question,omitempty"`
	Value    string `json:"value,omitempty"`
	Option   string `json:"option,omitempty"`
	Checked  bool   `json:"checked,omitempty"`
}

// liveState is pushed after every edit so the client can show and hide
// questions without reloading the page.
type liveState struct {
	Visible []string          `json:"visible"`
	Errors  validation.Errors `json:"errors,omitempty"`
	Valid   *bool             `json:"valid,omitempty"`
	Error   string            `json:"error,omitempty"`
}

var errUnknownOp = errors.New("unknown op")

var upgrader = websocket.Upgrader{}

// live keeps one session per connection and answers each edit with the
// recomputed visible set and errors.
func (h *formHandler) live(w http.ResponseWriter, r *http.Request) {
	s, err := h.session(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.app.logger.Warn("live upgrade", "error", err)
		return
	}
	defer conn.Close()

	logger := h.app.logger.With("remote", r.RemoteAddr)
	logger.Debug("live session opened", "form", h.form.ID)
	if err := conn.WriteJSON(snapshot(s, nil)); err != nil {
		logger.Warn("live write", "error", err)
		return
	}

	for {
		var in liveInput
		if err := conn.ReadJSON(&in); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("live read", "error", err)
			}
			return
		}
		state, err := applyLive(s, in)
		if err != nil {
			state.Error = err.Error()
		}
		if err := conn.WriteJSON(state); err != nil {
			logger.Warn("live write", "error", err)
			return
		}
	}
}

func applyLive(s *orchestrator.Session, in liveInput) (liveState, error) {
	var err error
	switch in.Op {
	case "value":
		err = s.SetValue(in.Question, in.Value)
	case "toggle":
		err = s.ToggleOption(in.Question, in.Option, in.Checked)
	case "select":
		err = s.SelectOption(in.Question, in.Option)
	case "entity":
		err = s.SetEntity(in.Question, in.Value, in.Value)
	case "validate":
		res := s.Validate()
		return snapshot(s, &res.Valid), nil
	default:
		err = fmt.Errorf("%w %q", errUnknownOp, in.Op)
	}
	return snapshot(s, nil), err
}

func snapshot(s *orchestrator.Session, valid *bool) liveState {
	return liveState{
		Visible: s.Visible().IDs(),
		Errors:  s.Errors(),
		Valid:   valid,
	}
}

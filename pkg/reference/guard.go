package reference

// RevisionSource reports a write counter per key. answers.Store satisfies it.
type RevisionSource interface {
	Revision(key string) uint64
}

// Ticket records the state of a selection when a fetch started.
type Ticket struct {
	Key       string
	Selection string
	revision  uint64
}

// Guard hands out tickets before a fetch and checks them when the result
// arrives. A ticket is stale once the key it watches has been written again.
type Guard struct {
	source RevisionSource
}

// NewGuard builds a guard over source.
func NewGuard(source RevisionSource) *Guard {
	return &Guard{source: source}
}

// Begin captures the current revision of key. selection is carried for the
// caller, typically the entity id the fetch was issued for.
func (g *Guard) Begin(key, selection string) Ticket {
	return Ticket{Key: key, Selection: selection, revision: g.source.Revision(key)}
}

// Current reports whether key has not been written since t was issued.
func (g *Guard) Current(t Ticket) bool {
	return g.source.Revision(t.Key) == t.revision
}

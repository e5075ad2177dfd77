// Package session owns the client's mutable per-session state: the current
// snapshot, the legal-action set and the advisory overlay, plus the busy
// flag that serializes mutating intents. The controller in this package is
// the only writer of that state; everything else reads copies.
package session

import (
	"time"

	"github.com/lox/pokertrainer/internal/domain"
)

// Phase is the controller's logical state. It is always derived from the
// current snapshot, never tracked separately, so it cannot drift from the
// state the engine last reported.
type Phase int

const (
	// PhaseIdle means no session exists yet
	PhaseIdle Phase = iota
	// PhaseAwaitingUserDecision means a live hand is waiting on the user
	PhaseAwaitingUserDecision
	// PhaseAwaitingOpponentOrSettlement means the opponent is to act or
	// resolution is pending
	PhaseAwaitingOpponentOrSettlement
	// PhaseHandComplete means the hand is settled and the next one can be dealt
	PhaseHandComplete
)

// String returns a human-readable phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingUserDecision:
		return "awaiting user decision"
	case PhaseAwaitingOpponentOrSettlement:
		return "awaiting opponent or settlement"
	case PhaseHandComplete:
		return "hand complete"
	default:
		return "unknown"
	}
}

// View is the aggregate the renderers project from: the engine triple plus
// the transient busy flag and the most recent status message. Views are
// handed out by value and must be treated as read-only; only the controller
// replaces the underlying slices, and it always replaces all three together.
type View struct {
	Snapshot     *domain.HandSnapshot
	LegalActions []domain.LegalAction
	Advice       *domain.AdvisoryBundle
	Busy         bool
	LastMessage  string
	LastUpdated  time.Time
}

// Phase derives the logical state from the snapshot's activePlayer and
// isHandOver fields. activePlayer does not gate anything once the hand is
// over.
func (v View) Phase() Phase {
	switch {
	case v.Snapshot == nil:
		return PhaseIdle
	case v.Snapshot.HandOver:
		return PhaseHandComplete
	case v.Snapshot.ActivePlayer == domain.SeatUser:
		return PhaseAwaitingUserDecision
	default:
		return PhaseAwaitingOpponentOrSettlement
	}
}

// CanAct reports whether action controls should be offered to the user
func (v View) CanAct() bool {
	return !v.Busy && v.Phase() == PhaseAwaitingUserDecision
}

// LegalKind reports whether the given action kind is in the last-delivered
// legal set.
func (v View) LegalKind(kind domain.ActionKind) bool {
	for _, a := range v.LegalActions {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

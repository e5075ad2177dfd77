// Package domain holds the wire-level data contracts shared between the
// remote training engine and the client. The types carry no behavior beyond
// JSON codecs and contract validation.
package domain

import (
	"github.com/lox/pokertrainer/internal/deck"
)

// Street represents the betting round within a hand
type Street string

const (
	StreetPreflop Street = "preflop"
	StreetFlop    Street = "flop"
	StreetTurn    Street = "turn"
	StreetRiver   Street = "river"
)

// Valid returns true if the street is one of the four betting rounds
func (s Street) Valid() bool {
	switch s {
	case StreetPreflop, StreetFlop, StreetTurn, StreetRiver:
		return true
	}
	return false
}

// ActionKind represents a poker action type
type ActionKind string

const (
	ActionFold  ActionKind = "fold"
	ActionCheck ActionKind = "check"
	ActionCall  ActionKind = "call"
	ActionBet   ActionKind = "bet"
	ActionRaise ActionKind = "raise"
	ActionAllIn ActionKind = "all_in"
)

// Valid returns true if the action kind is known
func (k ActionKind) Valid() bool {
	switch k {
	case ActionFold, ActionCheck, ActionCall, ActionBet, ActionRaise, ActionAllIn:
		return true
	}
	return false
}

// Seat identifies one of the two participants in a hand
type Seat string

const (
	SeatUser Seat = "user"
	SeatBot  Seat = "bot"
)

// Valid returns true if the seat is user or bot
func (s Seat) Valid() bool {
	return s == SeatUser || s == SeatBot
}

// Winner identifies the outcome of a settled hand
type Winner string

const (
	WinnerUser  Winner = "user"
	WinnerBot   Winner = "bot"
	WinnerSplit Winner = "split"
)

// Valid returns true if the winner value is known
func (w Winner) Valid() bool {
	return w == WinnerUser || w == WinnerBot || w == WinnerSplit
}

// PlayerAction is one record in a hand's action history
type PlayerAction struct {
	Kind   ActionKind `json:"action_type"`
	Amount int        `json:"amount"`
	Actor  Seat       `json:"player"`
}

// HandSnapshot is the authoritative description of one hand in progress or
// just concluded, as delivered by the engine. BotCards is nil while the hand
// is live and populated exactly when the hand is over; Winner is present
// only when the hand is over.
type HandSnapshot struct {
	SessionID      string         `json:"session_id"`
	Street         Street         `json:"street"`
	PotSize        int            `json:"pot_size"`
	UserStack      int            `json:"user_stack"`
	BotStack       int            `json:"bot_stack"`
	UserCards      []deck.Card    `json:"user_cards"`
	BotCards       []deck.Card    `json:"bot_cards,omitempty"`
	CommunityCards []deck.Card    `json:"community_cards"`
	CurrentBet     int            `json:"current_bet"`
	AmountToCall   int            `json:"to_call"`
	ActivePlayer   Seat           `json:"active_player"`
	History        []PlayerAction `json:"action_history"`
	HandNumber     int            `json:"hand_number"`
	HandOver       bool           `json:"is_hand_over"`
	Winner         *Winner        `json:"winner,omitempty"`
}

// ShowdownRevealed reports whether the opponent's cards are visible.
// The engine reveals them exactly when the hand is over.
func (s *HandSnapshot) ShowdownRevealed() bool {
	return s.HandOver && len(s.BotCards) > 0
}

// LegalAction is one action the user may currently take. The set of legal
// actions is authoritative only while it is the user's turn in a live hand;
// it is always supplied by the engine alongside the snapshot it belongs to.
type LegalAction struct {
	Kind   ActionKind `json:"action_type"`
	Amount *int       `json:"amount,omitempty"`
	Label  string     `json:"description"`
}

// Recommendation is one analytical model's advice for the current decision.
// Confidence is a raw value in [0, 1]; display code formats it, the stored
// value is never transformed.
type Recommendation struct {
	Name       string         `json:"strategy_name"`
	Action     ActionKind     `json:"recommended_action"`
	Amount     *int           `json:"recommended_amount,omitempty"`
	Rationale  string         `json:"explanation"`
	Formula    string         `json:"formula"`
	Variables  map[string]any `json:"variables"`
	Steps      []string       `json:"calculation_steps"`
	Confidence float64        `json:"confidence"`
}

// NumAdvisors is the number of recommendation slots in an advisory bundle.
const NumAdvisors = 6

// AdvisoryBundle holds the six named recommendation slots, one per
// analytical model. The bundle is advisory only: nothing in it may alter
// game logic, it exists purely to be rendered.
type AdvisoryBundle struct {
	EV          Recommendation `json:"ev_strategy"`
	MonteCarlo  Recommendation `json:"monte_carlo_strategy"`
	Bayesian    Recommendation `json:"bayesian_strategy"`
	Kelly       Recommendation `json:"kelly_strategy"`
	RiskUtility Recommendation `json:"risk_utility_strategy"`
	GTO         Recommendation `json:"gto_strategy"`
}

// Slots returns the six recommendations in fixed display order.
func (b *AdvisoryBundle) Slots() [NumAdvisors]Recommendation {
	return [NumAdvisors]Recommendation{
		b.EV, b.MonteCarlo, b.Bayesian, b.Kelly, b.RiskUtility, b.GTO,
	}
}

// EngineUpdate is the triple the engine returns from every operation:
// snapshot, legal actions and advisory overlay, plus a human-readable
// status message. Advice is nil whenever no user decision is pending.
type EngineUpdate struct {
	Snapshot     HandSnapshot    `json:"game_state"`
	LegalActions []LegalAction   `json:"available_actions"`
	Advice       *AdvisoryBundle `json:"strategy_overlay,omitempty"`
	Message      string          `json:"message"`
}

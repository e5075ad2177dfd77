// Package history exports finished hands as PHH (poker hand history) TOML
// transcripts. Only settled hands are written; live session state is never
// persisted.
package history

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lox/pokertrainer/internal/deck"
	"github.com/lox/pokertrainer/internal/domain"
)

// Hand is a single settled hand in PHH TOML form. Seat p1 is the user,
// seat p2 the bot.
type Hand struct {
	Variant         string         `toml:"variant"`
	HandID          string         `toml:"hand"`
	SeatCount       int            `toml:"seat_count"`
	Players         []string       `toml:"players"`
	FinishingStacks []int          `toml:"finishing_stacks"`
	Actions         []string       `toml:"actions"`
	Time            string         `toml:"time,omitempty"`
	Metadata        map[string]any `toml:"metadata,omitempty"`
}

// FromSnapshot builds a transcript from a settled snapshot. The snapshot
// must have the hand over; the caller guarantees this.
func FromSnapshot(s *domain.HandSnapshot, now time.Time) *Hand {
	hand := &Hand{
		Variant:         "NT",
		HandID:          fmt.Sprintf("%s-%d", s.SessionID, s.HandNumber),
		SeatCount:       2,
		Players:         []string{"user", "bot"},
		FinishingStacks: []int{s.UserStack, s.BotStack},
		Time:            now.UTC().Format(time.RFC3339),
		Metadata: map[string]any{
			"pot":    s.PotSize,
			"street": string(s.Street),
		},
	}
	if s.Winner != nil {
		hand.Metadata["winner"] = string(*s.Winner)
	}

	hand.Actions = append(hand.Actions, "d dh p1 "+cardCodes(s.UserCards))
	if len(s.BotCards) > 0 {
		hand.Actions = append(hand.Actions, "d dh p2 "+cardCodes(s.BotCards))
	}
	if len(s.CommunityCards) > 0 {
		hand.Actions = append(hand.Actions, "d db "+cardCodes(s.CommunityCards))
	}
	for _, a := range s.History {
		if line, ok := formatAction(a); ok {
			hand.Actions = append(hand.Actions, line)
		}
	}
	return hand
}

// Encode writes the hand to the provided writer in PHH TOML format
func (h *Hand) Encode(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(h)
}

// formatAction converts one history record to a PHH action string. Blind
// posts are not part of the engine's history, so every record maps
// directly.
func formatAction(a domain.PlayerAction) (string, bool) {
	seat := "p1"
	if a.Actor == domain.SeatBot {
		seat = "p2"
	}
	switch a.Kind {
	case domain.ActionFold:
		return seat + " f", true
	case domain.ActionCheck, domain.ActionCall:
		return seat + " cc", true
	case domain.ActionBet, domain.ActionRaise, domain.ActionAllIn:
		if a.Amount <= 0 {
			return "", false
		}
		return fmt.Sprintf("%s cbr %d", seat, a.Amount), true
	default:
		return "", false
	}
}

// cardCodes renders cards as concatenated two-character codes, e.g. "AhKs"
func cardCodes(cards []deck.Card) string {
	var b strings.Builder
	for _, c := range cards {
		b.WriteString(c.Rank.String())
		b.WriteString(c.Suit.Letter())
	}
	return b.String()
}

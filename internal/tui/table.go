package tui

import (
	"fmt"
	"strings"

	"github.com/lox/pokertrainer/internal/deck"
	"github.com/lox/pokertrainer/internal/domain"
	"github.com/lox/pokertrainer/internal/session"
)

// BoardSlots is the number of community card slots always rendered. Streets
// with fewer revealed cards pad with face-down slots, the slot count never
// shrinks.
const BoardSlots = 5

// faceDown is the placeholder for an unrevealed card
const faceDown = "[ ? ]"

// formatCard renders one face-up card with suit coloring
func formatCard(c deck.Card) string {
	label := fmt.Sprintf("[%s%s]", c.Rank, c.Suit)
	if c.IsRed() {
		return RedCardStyle.Render(label)
	}
	return BlackCardStyle.Render(label)
}

// renderBoard renders exactly BoardSlots community card slots. Extra cards
// beyond five are not rendered; missing cards pad face down.
func renderBoard(cards []deck.Card) string {
	slots := make([]string, 0, BoardSlots)
	for i := 0; i < BoardSlots; i++ {
		if i < len(cards) {
			slots = append(slots, formatCard(cards[i]))
		} else {
			slots = append(slots, FaceDownStyle.Render(faceDown))
		}
	}
	return strings.Join(slots, " ")
}

// renderHoleCards renders a player's cards, face down when hidden
func renderHoleCards(cards []deck.Card, revealed bool) string {
	if !revealed {
		return FaceDownStyle.Render(faceDown + " " + faceDown)
	}
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, formatCard(c))
	}
	return strings.Join(parts, " ")
}

// renderTable projects the snapshot into the visual board: opponent row,
// board row, user row, economics and the turn indicator or result banner.
// It is a pure function of the view.
func renderTable(v session.View) string {
	s := v.Snapshot
	if s == nil {
		return InfoStyle.Render("No session. Press 's' to start a new game.")
	}

	var b strings.Builder

	b.WriteString(HeaderStyle.Render(fmt.Sprintf(" Hand #%d — %s ", s.HandNumber, s.Street)))
	b.WriteString("\n\n")

	// Opponent cards stay hidden until the engine reveals them at showdown.
	b.WriteString(fmt.Sprintf("  Bot   %s  %s\n",
		renderHoleCards(s.BotCards, s.ShowdownRevealed()),
		InfoStyle.Render(fmt.Sprintf("$%d", s.BotStack))))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Board %s\n", renderBoard(s.CommunityCards)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  You   %s  %s\n",
		renderHoleCards(s.UserCards, true),
		InfoStyle.Render(fmt.Sprintf("$%d", s.UserStack))))
	b.WriteString("\n")

	pot := WarningStyle.Render(fmt.Sprintf("Pot: $%d", s.PotSize))
	b.WriteString("  " + pot)
	if s.AmountToCall > 0 && !s.HandOver {
		b.WriteString("  " + WarningStyle.Render(fmt.Sprintf("To call: $%d", s.AmountToCall)))
	}
	b.WriteString("\n\n")

	switch v.Phase() {
	case session.PhaseHandComplete:
		b.WriteString("  " + BannerStyle.Render(resultBanner(s)) + "\n")
		b.WriteString("  " + InfoStyle.Render("Press 'n' for the next hand") + "\n")
	case session.PhaseAwaitingUserDecision:
		b.WriteString("  " + HandInfoStyle.Render("Your turn") + "\n")
		b.WriteString(renderActionControls(v))
	case session.PhaseAwaitingOpponentOrSettlement:
		b.WriteString("  " + InfoStyle.Render("Waiting for opponent...") + "\n")
	}

	return b.String()
}

// renderActionControls renders one numbered control per legal action. Shown
// only while it is the user's turn in a live hand; disabled (omitted) while
// a request is in flight.
func renderActionControls(v session.View) string {
	if !v.CanAct() {
		return ""
	}
	var controls []string
	for i, a := range v.LegalActions {
		label := a.Label
		if label == "" {
			label = string(a.Kind)
		}
		controls = append(controls, fmt.Sprintf("[%d] %s", i+1, label))
	}
	if len(controls) == 0 {
		return "  " + ErrorStyle.Render("No actions available") + "\n"
	}
	return "  " + ActionsStyle.Render(strings.Join(controls, "  ")) + "\n"
}

// resultBanner renders the terminal-hand banner text
func resultBanner(s *domain.HandSnapshot) string {
	if s.Winner == nil {
		return "Hand complete"
	}
	switch *s.Winner {
	case domain.WinnerUser:
		return fmt.Sprintf("You win $%d!", s.PotSize)
	case domain.WinnerBot:
		return fmt.Sprintf("Bot wins $%d", s.PotSize)
	default:
		return fmt.Sprintf("Split pot, $%d each", s.PotSize/2)
	}
}

// historyLine renders one action history record for the log pane
func historyLine(a domain.PlayerAction) string {
	actor := "You"
	if a.Actor == domain.SeatBot {
		actor = "Bot"
	}
	if a.Amount > 0 {
		return fmt.Sprintf("%s: %s $%d", actor, a.Kind, a.Amount)
	}
	return fmt.Sprintf("%s: %s", actor, a.Kind)
}

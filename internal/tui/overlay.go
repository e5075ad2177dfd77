package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lox/pokertrainer/internal/domain"
)

// NoExpansion is the expanded-slot value meaning every advisor card is
// collapsed.
const NoExpansion = -1

// FormatConfidenceCompact renders a [0,1] confidence as a rounded integer
// percentage for the collapsed card row, e.g. 0.734 -> "73%".
func FormatConfidenceCompact(c float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(c*100)))
}

// FormatConfidenceDetail renders a [0,1] confidence with one decimal for
// the expanded card, e.g. 0.734 -> "73.4%".
func FormatConfidenceDetail(c float64) string {
	return fmt.Sprintf("%.1f%%", c*100)
}

// advisorKeys are the toggle hotkeys for the six advisor cards, in slot order
var advisorKeys = [domain.NumAdvisors]string{"a", "b", "c", "d", "e", "f"}

// renderOverlay projects the advisory bundle into the six-card panel. The
// expanded argument selects at most one card for detail disclosure
// (single-expansion policy); pass NoExpansion for all collapsed. A nil
// bundle renders an explicit placeholder, never stale advice.
func renderOverlay(advice *domain.AdvisoryBundle, expanded int) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(" Advisors ") + "\n\n")

	if advice == nil {
		b.WriteString(InfoStyle.Render("No recommendations.\nAdvice appears when a decision\nis pending."))
		return b.String()
	}

	slots := advice.Slots()
	for i, rec := range slots {
		marker := "+"
		if i == expanded {
			marker = "-"
		}
		b.WriteString(fmt.Sprintf("%s[%s] %s  %s %s\n",
			marker,
			advisorKeys[i],
			AdvisorNameStyle.Render(rec.Name),
			recommendedLabel(rec),
			InfoStyle.Render(FormatConfidenceCompact(rec.Confidence))))

		if i == expanded {
			b.WriteString(renderDetail(rec))
		}
	}

	return b.String()
}

// renderDetail renders the expanded body of one advisor card
func renderDetail(rec domain.Recommendation) string {
	var b strings.Builder

	b.WriteString(indent(rec.Rationale) + "\n")
	if rec.Formula != "" {
		b.WriteString(indent(InfoStyle.Render("Formula: ")+rec.Formula) + "\n")
	}
	if len(rec.Variables) > 0 {
		// Stable ordering keeps the panel from jittering between renders.
		names := make([]string, 0, len(rec.Variables))
		for name := range rec.Variables {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(indent(fmt.Sprintf("%s = %v", name, rec.Variables[name])) + "\n")
		}
	}
	for i, step := range rec.Steps {
		b.WriteString(indent(fmt.Sprintf("%d. %s", i+1, step)) + "\n")
	}
	b.WriteString(indent(InfoStyle.Render("Confidence: ")+FormatConfidenceDetail(rec.Confidence)) + "\n")

	return b.String()
}

// recommendedLabel renders an advisor's suggested move, with amount when
// one applies.
func recommendedLabel(rec domain.Recommendation) string {
	if rec.Amount != nil && *rec.Amount > 0 {
		return ActionsStyle.Render(fmt.Sprintf("%s $%d", rec.Action, *rec.Amount))
	}
	return ActionsStyle.Render(string(rec.Action))
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "      " + line
	}
	return strings.Join(lines, "\n")
}

package domain

import "fmt"

// Validate checks the snapshot against the engine contract. A snapshot that
// fails validation must be treated as a malformed response, never applied.
func (s *HandSnapshot) Validate() error {
	if s.SessionID == "" {
		return fmt.Errorf("snapshot missing session id")
	}
	if !s.Street.Valid() {
		return fmt.Errorf("invalid street %q", s.Street)
	}
	if s.HandNumber < 1 {
		return fmt.Errorf("invalid hand number %d", s.HandNumber)
	}
	if s.PotSize < 0 || s.UserStack < 0 || s.BotStack < 0 || s.CurrentBet < 0 || s.AmountToCall < 0 {
		return fmt.Errorf("negative amount in snapshot (pot=%d user=%d bot=%d bet=%d call=%d)",
			s.PotSize, s.UserStack, s.BotStack, s.CurrentBet, s.AmountToCall)
	}
	if len(s.UserCards) != 2 {
		return fmt.Errorf("expected 2 user cards, got %d", len(s.UserCards))
	}
	switch len(s.CommunityCards) {
	case 0, 3, 4, 5:
	default:
		return fmt.Errorf("invalid community card count %d", len(s.CommunityCards))
	}
	if !s.ActivePlayer.Valid() {
		return fmt.Errorf("invalid active player %q", s.ActivePlayer)
	}
	for i, a := range s.History {
		if !a.Kind.Valid() {
			return fmt.Errorf("history entry %d has invalid action %q", i, a.Kind)
		}
		if !a.Actor.Valid() {
			return fmt.Errorf("history entry %d has invalid actor %q", i, a.Actor)
		}
		if a.Amount < 0 {
			return fmt.Errorf("history entry %d has negative amount %d", i, a.Amount)
		}
	}

	// Hidden information becomes public exactly at showdown.
	if s.HandOver {
		if len(s.BotCards) != 2 {
			return fmt.Errorf("hand is over but bot cards not revealed (got %d)", len(s.BotCards))
		}
		if s.Winner == nil {
			return fmt.Errorf("hand is over but no winner")
		}
		if !s.Winner.Valid() {
			return fmt.Errorf("invalid winner %q", *s.Winner)
		}
	} else {
		if len(s.BotCards) != 0 {
			return fmt.Errorf("bot cards revealed while hand is live")
		}
		if s.Winner != nil {
			return fmt.Errorf("winner set while hand is live")
		}
	}
	return nil
}

// Validate checks one legal action for shape validity.
func (a *LegalAction) Validate() error {
	if !a.Kind.Valid() {
		return fmt.Errorf("invalid action kind %q", a.Kind)
	}
	if a.Amount != nil && *a.Amount < 0 {
		return fmt.Errorf("negative action amount %d", *a.Amount)
	}
	return nil
}

// Validate checks one recommendation for shape validity.
func (r *Recommendation) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("recommendation missing strategy name")
	}
	if !r.Action.Valid() {
		return fmt.Errorf("recommendation %q has invalid action %q", r.Name, r.Action)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("recommendation %q has confidence %v outside [0,1]", r.Name, r.Confidence)
	}
	return nil
}

// Validate checks an entire engine update against the domain contract.
func (u *EngineUpdate) Validate() error {
	if err := u.Snapshot.Validate(); err != nil {
		return err
	}
	if u.Snapshot.HandOver && len(u.LegalActions) > 0 {
		return fmt.Errorf("hand is over but %d legal actions supplied", len(u.LegalActions))
	}
	for i := range u.LegalActions {
		if err := u.LegalActions[i].Validate(); err != nil {
			return fmt.Errorf("legal action %d: %w", i, err)
		}
	}
	if u.Advice != nil {
		slots := u.Advice.Slots()
		for i := range slots {
			if err := slots[i].Validate(); err != nil {
				return fmt.Errorf("advisory slot %d: %w", i, err)
			}
		}
	}
	return nil
}

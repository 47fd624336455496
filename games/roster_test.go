package games

import (
	"errors"
	"slices"
	"testing"
)

func TestAddPlayer(t *testing.T) {
	s := NewSession()

	s, p, err := s.AddPlayer()
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if p.ID != "4" || p.Name != "Player 4" || p.Color == "" {
		t.Fatalf("unexpected player %+v", p)
	}
	if len(s.Players) != 4 || s.Players[3] != p {
		t.Fatalf("player not appended: %v", s.Players)
	}

	// Ids stay unique after a removal leaves a gap.
	s, _ = s.RemovePlayer("2")
	s, p, _ = s.AddPlayer()
	seen := map[string]bool{}
	for _, q := range s.Players {
		if seen[q.ID] {
			t.Fatalf("duplicate id %q after re-adding %+v", q.ID, p)
		}
		seen[q.ID] = true
	}
}

func TestRemovePlayer(t *testing.T) {
	s := NewSession()

	s, err := s.RemovePlayer("1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !slices.Equal(ids(s.Players), []string{"2", "3"}) {
		t.Fatalf("unexpected roster %v", ids(s.Players))
	}

	if _, err := s.RemovePlayer("2"); !errors.Is(err, ErrTooFewPlayers) {
		t.Fatalf("expected ErrTooFewPlayers, got %v", err)
	}
	if _, err := s.RemovePlayer("nobody"); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
}

func TestUpdatePlayer(t *testing.T) {
	s := NewSession()

	s, err := s.UpdatePlayer("2", "  Bea ", "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.Players[1].Name != "Bea" || s.Players[1].Color != palette[1] {
		t.Fatalf("unexpected player %+v", s.Players[1])
	}

	if _, err := s.UpdatePlayer("2", " ", "#000000"); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestToggleCategory(t *testing.T) {
	s := NewSession()
	selected := len(s.Selected)

	s, err := s.ToggleCategory("Jobs")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !slices.Contains(s.Selected, "Jobs") || len(s.Selected) != selected+1 {
		t.Fatalf("Jobs not selected: %v", s.Selected)
	}

	s, _ = s.ToggleCategory("Jobs")
	if slices.Contains(s.Selected, "Jobs") {
		t.Fatalf("Jobs still selected: %v", s.Selected)
	}

	if _, err := s.ToggleCategory("Nope"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestUpdateSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		want   error
	}{
		{"valid", func(s *Settings) { s.Modes = []GameMode{ModeTwoWords, ModeBreakingPoint} }, nil},
		{"no modes", func(s *Settings) { s.Modes = nil }, ErrNoModes},
		{"unknown mode", func(s *Settings) { s.Modes = []GameMode{"chaos"} }, ErrInvalidSettings},
		{"no impostors", func(s *Settings) { s.Impostors = 0 }, ErrTooFewImpostors},
		{"short timer", func(s *Settings) { s.Timer.Length = 10 }, ErrInvalidSettings},
		{"long timer", func(s *Settings) { s.Timer.Length = 901 }, ErrInvalidSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			tt.mutate(&settings)

			s, err := NewSession().UpdateSettings(settings)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if err == nil && !slices.Equal(s.Settings.Modes, settings.Modes) {
				t.Fatalf("settings not applied: %+v", s.Settings)
			}
		})
	}
}

func TestRosterEditsOnlyInLobby(t *testing.T) {
	s, err := NewSession().StartGame(NewSource(1))
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, _, err := s.AddPlayer(); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("add: expected ErrWrongPhase, got %v", err)
	}
	if _, err := s.RemovePlayer("1"); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("remove: expected ErrWrongPhase, got %v", err)
	}
	if _, err := s.UpdatePlayer("1", "x", ""); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("update: expected ErrWrongPhase, got %v", err)
	}
	if _, err := s.ToggleCategory("Food"); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("toggle: expected ErrWrongPhase, got %v", err)
	}
	if _, err := s.UpdateSettings(DefaultSettings()); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("settings: expected ErrWrongPhase, got %v", err)
	}
}

func TestPhaseTransitions(t *testing.T) {
	allowed := map[[2]Phase]bool{
		{PhaseLobby, PhaseViewingCards}:      true,
		{PhaseViewingCards, PhaseDiscussion}: true,
		{PhaseDiscussion, PhaseResults}:      true,
		{PhaseResults, PhaseViewingCards}:    true,
	}
	phases := []Phase{PhaseLobby, PhaseViewingCards, PhaseDiscussion, PhaseResults}

	for _, from := range phases {
		for _, to := range phases {
			want := to == PhaseLobby || allowed[[2]Phase{from, to}]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: expected %v, got %v", from, to, want, got)
			}
		}
	}
}

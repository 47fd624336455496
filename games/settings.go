package games

import (
	"slices"
)

const (
	MinTimerLength     = 30
	MaxTimerLength     = 900
	DefaultTimerLength = 300
)

// Timer configures the discussion countdown.
type Timer struct {
	Enabled bool `json:"enabled"`
	Length  int  `json:"length"` // seconds
}

// Settings are the round rules chosen in the lobby.
type Settings struct {
	Modes       []GameMode `json:"gameModes"`
	Randomize   bool       `json:"randomizeGameModes"`
	Impostors   int        `json:"numberOfImposters"`
	HintEnabled bool       `json:"hintEnabled"`
	Timer       Timer      `json:"timer"`
}

// DefaultSettings returns the settings of a fresh session.
func DefaultSettings() Settings {
	return Settings{
		Modes:       []GameMode{ModeNormal},
		Impostors:   1,
		HintEnabled: true,
		Timer:       Timer{Length: DefaultTimerLength},
	}
}

// Validate checks the settings on their own, without a roster.
func (s Settings) Validate() error {
	if len(s.Modes) == 0 {
		return ErrNoModes
	}
	for _, m := range s.Modes {
		if !m.Valid() {
			return ErrInvalidSettings.withMessage("unknown game mode %q", m)
		}
	}
	if s.Impostors < 1 {
		return ErrTooFewImpostors
	}
	if s.Timer.Length < MinTimerLength || s.Timer.Length > MaxTimerLength {
		return ErrInvalidSettings.withMessage("timer length must be between %d and %d seconds", MinTimerLength, MaxTimerLength)
	}
	return nil
}

func (s Settings) clone() Settings {
	s.Modes = slices.Clone(s.Modes)
	return s
}

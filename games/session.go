/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package games holds the round engine of the pass-and-play impostor game:
// mode resolution, role assignment, content selection and the round lifecycle.
package games

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// RoundState is everything decided or recorded for the current round.
type RoundState struct {
	Phase         Phase
	CurrentPlayer int
	CardViewed    bool

	Word  string
	Word2 string
	Hint  string
	Hint2 string

	ImpostorIDs []string
	JesterID    string
	DetectiveID string
	HealerID    string

	ActiveMode  GameMode
	NormalMode  GameMode
	SpecialMode GameMode

	// Votes maps voter id to the id of the player they voted for.
	Votes map[string]string

	TimerRemaining int
	TimerRunning   bool
}

func lobbyRound() RoundState {
	return RoundState{
		Phase: PhaseLobby,
		Votes: map[string]string{},
	}
}

func (r RoundState) clone() RoundState {
	r.ImpostorIDs = slices.Clone(r.ImpostorIDs)
	r.Votes = maps.Clone(r.Votes)
	if r.Votes == nil {
		r.Votes = map[string]string{}
	}
	return r
}

// Resolution returns the modes the round is played under.
func (r RoundState) Resolution() Resolution {
	return Resolution{Normal: r.NormalMode, Special: r.SpecialMode, Active: r.ActiveMode}
}

// Session is the state of one shared device. It is a value: every transition
// returns a new Session and leaves the receiver untouched, and a transition
// that fails returns the receiver as it was.
type Session struct {
	Players    []Player
	Categories WordPool
	Selected   []string
	Settings   Settings
	Round      RoundState
}

// NewSession returns a session in the lobby with the built-in defaults.
func NewSession() Session {
	categories := DefaultCategories()
	return Session{
		Players:    DefaultPlayers(),
		Categories: categories,
		Selected:   categories.DefaultSelection(),
		Settings:   DefaultSettings(),
		Round:      lobbyRound(),
	}
}

// Clone returns a deep copy of s.
func (s Session) Clone() Session {
	return Session{
		Players:    clonePlayers(s.Players),
		Categories: s.Categories.clone(),
		Selected:   slices.Clone(s.Selected),
		Settings:   s.Settings.clone(),
		Round:      s.Round.clone(),
	}
}

// Phase is shorthand for s.Round.Phase.
func (s Session) Phase() Phase {
	return s.Round.Phase
}

func (s Session) requirePhase(phases ...Phase) error {
	if slices.Contains(phases, s.Round.Phase) {
		return nil
	}
	return ErrWrongPhase
}

// StartGame sets up a new round: it resolves the modes, assigns roles and
// draws the content, in that order. It is available from the lobby and, to
// play again with the same roster, from the results screen.
func (s Session) StartGame(rng Source) (Session, error) {
	if !s.Round.Phase.CanTransitionTo(PhaseViewingCards) {
		return s, ErrWrongPhase
	}
	if len(s.Selected) == 0 {
		return s, ErrNoCategories
	}
	words := s.Categories.Words(s.Selected)
	if len(words) == 0 {
		return s, ErrEmptyWordPool
	}
	if len(s.Settings.Modes) == 0 {
		return s, ErrNoModes
	}

	res, err := ResolveModes(s.Settings.Modes, s.Settings.Randomize, rng)
	if err != nil {
		return s, fmt.Errorf("start game: %w", err)
	}

	a, err := AssignRoles(s.Players, res.Normal, res.Special, s.Settings.Impostors, rng)
	if err != nil {
		return s, err
	}

	c, err := SelectContent(words, res.Normal, s.Settings.HintEnabled, rng)
	if err != nil {
		return s, err
	}

	next := s.Clone()
	next.Players = a.Players
	next.Round = RoundState{
		Phase:       PhaseViewingCards,
		Word:        c.Word,
		Word2:       c.Word2,
		Hint:        c.Hint,
		Hint2:       c.Hint2,
		ImpostorIDs: a.ImpostorIDs,
		JesterID:    a.JesterID,
		DetectiveID: a.DetectiveID,
		HealerID:    a.HealerID,
		ActiveMode:  res.Active,
		NormalMode:  res.Normal,
		SpecialMode: res.Special,
		Votes:       map[string]string{},
	}

	return next, nil
}

// MarkViewed records that the current player has looked at their card.
func (s Session) MarkViewed() (Session, error) {
	if err := s.requirePhase(PhaseViewingCards); err != nil {
		return s, err
	}

	next := s.Clone()
	next.Round.CardViewed = true
	return next, nil
}

// Advance passes the device to the next player, or starts the discussion
// once the last player has seen their card.
func (s Session) Advance() (Session, error) {
	if err := s.requirePhase(PhaseViewingCards); err != nil {
		return s, err
	}
	if !s.Round.CardViewed {
		return s, ErrCardNotViewed
	}

	next := s.Clone()
	next.Round.CardViewed = false

	if s.Round.CurrentPlayer < len(s.Players)-1 {
		next.Round.CurrentPlayer++
		return next, nil
	}

	next.Round.Phase = PhaseDiscussion
	if s.Settings.Timer.Enabled {
		next.Round.TimerRemaining = s.Settings.Timer.Length
		next.Round.TimerRunning = true
	}
	return next, nil
}

// Tick counts the discussion timer down by one second. expired is true on
// the tick that reaches zero; the phase does not change.
func (s Session) Tick() (next Session, expired bool) {
	if s.Round.Phase != PhaseDiscussion || !s.Round.TimerRunning {
		return s, false
	}

	next = s.Clone()
	next.Round.TimerRemaining--
	if next.Round.TimerRemaining <= 0 {
		next.Round.TimerRemaining = 0
		next.Round.TimerRunning = false
		return next, true
	}
	return next, false
}

// Vote records voter's accusation, replacing any earlier vote.
func (s Session) Vote(voter, target string) (Session, error) {
	if err := s.requirePhase(PhaseDiscussion); err != nil {
		return s, err
	}
	if indexOfPlayer(s.Players, voter) < 0 || indexOfPlayer(s.Players, target) < 0 {
		return s, ErrUnknownPlayer
	}
	if voter == target {
		return s, ErrInvalidVote.withMessage("players cannot vote for themselves")
	}

	next := s.Clone()
	next.Round.Votes[voter] = target
	return next, nil
}

// EndGame closes the discussion and reveals the results.
func (s Session) EndGame() (Session, error) {
	if !s.Round.Phase.CanTransitionTo(PhaseResults) {
		return s, ErrWrongPhase
	}

	next := s.Clone()
	next.Round.Phase = PhaseResults
	next.Round.TimerRunning = false
	return next, nil
}

// ResetGame returns to the lobby and forgets every role of the round.
func (s Session) ResetGame() Session {
	next := s.Clone()
	next.Players = clearRoles(s.Players)
	next.Round = lobbyRound()
	return next
}

// AddPlayer appends a player with a generated id, name and color.
func (s Session) AddPlayer() (Session, Player, error) {
	if err := s.requirePhase(PhaseLobby); err != nil {
		return s, Player{}, err
	}

	p := newPlayer(nextPlayerID(s.Players), len(s.Players))

	next := s.Clone()
	next.Players = append(next.Players, p)
	return next, p, nil
}

// RemovePlayer drops a player from the roster. The roster never shrinks
// below two players.
func (s Session) RemovePlayer(id string) (Session, error) {
	if err := s.requirePhase(PhaseLobby); err != nil {
		return s, err
	}
	i := indexOfPlayer(s.Players, id)
	if i < 0 {
		return s, ErrUnknownPlayer
	}
	if len(s.Players) <= minimumPlayers {
		return s, ErrTooFewPlayers
	}

	next := s.Clone()
	next.Players = slices.Delete(next.Players, i, i+1)
	return next, nil
}

// UpdatePlayer renames and recolors a player. An empty color keeps the
// current one.
func (s Session) UpdatePlayer(id, name, color string) (Session, error) {
	if err := s.requirePhase(PhaseLobby); err != nil {
		return s, err
	}
	i := indexOfPlayer(s.Players, id)
	if i < 0 {
		return s, ErrUnknownPlayer
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return s, ErrInvalidSettings.withMessage("player name cannot be empty")
	}

	next := s.Clone()
	next.Players[i].Name = name
	if color = strings.TrimSpace(color); color != "" {
		next.Players[i].Color = color
	}
	return next, nil
}

// ToggleCategory selects or deselects a category for the next round.
func (s Session) ToggleCategory(name string) (Session, error) {
	if err := s.requirePhase(PhaseLobby); err != nil {
		return s, err
	}
	if _, ok := s.Categories.Find(name); !ok {
		return s, ErrUnknownCategory
	}

	next := s.Clone()
	if i := slices.Index(next.Selected, name); i >= 0 {
		next.Selected = slices.Delete(next.Selected, i, i+1)
	} else {
		next.Selected = append(next.Selected, name)
	}
	return next, nil
}

// UpdateSettings replaces the round rules.
func (s Session) UpdateSettings(settings Settings) (Session, error) {
	if err := s.requirePhase(PhaseLobby); err != nil {
		return s, err
	}
	if err := settings.Validate(); err != nil {
		return s, err
	}

	next := s.Clone()
	next.Settings = settings.clone()
	return next, nil
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// StorageKey is the key the saved setup lives under.
const StorageKey = "whoGameData"

// Store is a minimal key/value persistence collaborator.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

// Snapshot is the part of a session that outlives a round.
type Snapshot struct {
	Players    []Player `json:"players"`
	Categories WordPool `json:"categories"`
	Settings   Settings `json:"settings"`
	Selected   []string `json:"selectedCategories"`
}

// Snapshot captures the persistent part of s, without round-scoped flags.
func (s Session) Snapshot() Snapshot {
	return Snapshot{
		Players:    clearRoles(s.Players),
		Categories: s.Categories.clone(),
		Settings:   s.Settings.clone(),
		Selected:   slices.Clone(s.Selected),
	}
}

// SessionFromSnapshot builds a lobby session from snap, replacing each part
// that does not hold up with its default.
func SessionFromSnapshot(snap Snapshot) Session {
	s := NewSession()

	if validRoster(snap.Players) {
		s.Players = clearRoles(snap.Players)
	}
	if validCategories(snap.Categories) {
		s.Categories = snap.Categories.clone()
		s.Selected = s.Categories.DefaultSelection()
	}
	if snap.Selected != nil {
		var selected []string
		for _, name := range snap.Selected {
			if _, ok := s.Categories.Find(name); ok && !slices.Contains(selected, name) {
				selected = append(selected, name)
			}
		}
		s.Selected = selected
	}
	if snap.Settings.Validate() == nil {
		s.Settings = snap.Settings.clone()
	}

	return s
}

func validRoster(players []Player) bool {
	if len(players) < minimumPlayers {
		return false
	}
	seen := make(map[string]bool, len(players))
	for _, p := range players {
		if p.ID == "" || seen[p.ID] {
			return false
		}
		seen[p.ID] = true
	}
	return true
}

func validCategories(categories WordPool) bool {
	if len(categories) == 0 {
		return false
	}
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		if c.Name == "" || seen[c.Name] {
			return false
		}
		seen[c.Name] = true
	}
	return true
}

// LoadSession reads the saved setup under key. A missing, unreadable or
// malformed blob yields a default session; err is only for the caller to log.
func LoadSession(store Store, key string) (Session, error) {
	if store == nil {
		return NewSession(), nil
	}

	data, ok, err := store.Get(key)
	if err != nil {
		return NewSession(), fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return NewSession(), nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return NewSession(), fmt.Errorf("decode %s: %w", key, err)
	}

	return SessionFromSnapshot(snap), nil
}

// SaveSession writes the persistent part of s under key.
func SaveSession(store Store, key string, s Session) error {
	if store == nil {
		return errors.New("no store configured")
	}

	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := store.Set(key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	return nil
}

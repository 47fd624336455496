package games

import (
	"strconv"
)

// Player is one seat at the shared device.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`

	// IsImpostor is only set while a round is in progress.
	IsImpostor *bool `json:"isImposter,omitempty"`
}

// Impostor reports the round-scoped flag, false when unset.
func (p Player) Impostor() bool {
	return p.IsImpostor != nil && *p.IsImpostor
}

var palette = []string{
	"#8B5CF6",
	"#06B6D4",
	"#F59E0B",
	"#EF4444",
	"#10B981",
	"#EC4899",
	"#3B82F6",
	"#F97316",
	"#14B8A6",
	"#6B7280",
}

// DefaultPlayers is the roster a fresh session starts with.
func DefaultPlayers() []Player {
	players := make([]Player, 0, 3)
	for i := range 3 {
		players = append(players, newPlayer(strconv.Itoa(i+1), i))
	}
	return players
}

func newPlayer(id string, seat int) Player {
	return Player{
		ID:    id,
		Name:  "Player " + strconv.Itoa(seat+1),
		Color: palette[seat%len(palette)],
	}
}

// nextPlayerID returns the smallest positive integer id not yet in use.
func nextPlayerID(players []Player) string {
	used := make(map[string]bool, len(players))
	for _, p := range players {
		used[p.ID] = true
	}
	for n := len(players) + 1; ; n++ {
		id := strconv.Itoa(n)
		if !used[id] {
			return id
		}
	}
}

func clonePlayers(players []Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		if p.IsImpostor != nil {
			v := *p.IsImpostor
			p.IsImpostor = &v
		}
		out[i] = p
	}
	return out
}

func clearRoles(players []Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		p.IsImpostor = nil
		out[i] = p
	}
	return out
}

func indexOfPlayer(players []Player, id string) int {
	for i, p := range players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

package games

import (
	"strconv"
)

// lastSource always draws the highest value, which makes every shuffle the
// identity permutation and every pick the last element.
type lastSource struct{}

func (lastSource) IntN(n int) int { return n - 1 }

// seqSource replays vals in order, wrapping each into range.
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) IntN(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func roster(n int) []Player {
	players := make([]Player, n)
	for i := range players {
		players[i] = Player{
			ID:    "p" + strconv.Itoa(i+1),
			Name:  "Player " + strconv.Itoa(i+1),
			Color: palette[i%len(palette)],
		}
	}
	return players
}

func ids(players []Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.ID
	}
	return out
}

// testSession is a lobby session with n players and a single one-word
// category.
func testSession(n int, word WordEntry, modes ...GameMode) Session {
	s := NewSession()
	s.Players = roster(n)
	s.Categories = WordPool{{Name: "Test", Emoji: "🧪", Words: []WordEntry{word}}}
	s.Selected = []string{"Test"}
	if len(modes) > 0 {
		s.Settings.Modes = modes
	}
	return s
}

type mapStore map[string][]byte

func (m mapStore) Get(key string) ([]byte, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m mapStore) Set(key string, value []byte) error {
	m[key] = value
	return nil
}

package games

import (
	"slices"
)

// CardView is what the current player sees when they flip their card.
// Impostors and jesters never receive the word.
type CardView struct {
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	PlayerColor string `json:"player_color"`

	Content  string `json:"content,omitempty"`
	Content2 string `json:"content2,omitempty"`
	Hint     string `json:"hint,omitempty"`

	IsImpostor  bool `json:"is_impostor"`
	IsJester    bool `json:"is_jester"`
	IsDetective bool `json:"is_detective"`
	IsHealer    bool `json:"is_healer"`

	ShowHintToInnocents bool `json:"show_hint_to_innocents"`
}

// CurrentCard returns the card of the player holding the device.
func (s Session) CurrentCard() (CardView, error) {
	if err := s.requirePhase(PhaseViewingCards); err != nil {
		return CardView{}, err
	}
	if s.Round.CurrentPlayer < 0 || s.Round.CurrentPlayer >= len(s.Players) {
		return CardView{}, ErrUnknownPlayer
	}

	p := s.Players[s.Round.CurrentPlayer]
	r := s.Round

	v := CardView{
		PlayerID:            p.ID,
		PlayerName:          p.Name,
		PlayerColor:         p.Color,
		IsImpostor:          p.Impostor(),
		IsJester:            p.ID == r.JesterID,
		IsDetective:         p.ID == r.DetectiveID,
		IsHealer:            p.ID == r.HealerID,
		ShowHintToInnocents: r.NormalMode == ModeInnocentsSeeHint,
	}

	switch {
	case v.IsJester, v.IsImpostor:
		v.Hint = r.Hint
	default:
		v.Content, v.Content2 = r.Word, r.Word2
		if v.ShowHintToInnocents {
			v.Hint = r.Hint
		}
	}

	return v, nil
}

// VoteCount is the weighted number of votes a player received.
type VoteCount struct {
	Player Player `json:"player"`
	Votes  int    `json:"votes"`
}

// Results is the end-of-round reveal.
type Results struct {
	Word  string `json:"word"`
	Word2 string `json:"word2,omitempty"`
	Hint  string `json:"hint,omitempty"`
	Hint2 string `json:"hint2,omitempty"`

	Impostors []Player `json:"impostors"`
	Jester    *Player  `json:"jester,omitempty"`
	Detective *Player  `json:"detective,omitempty"`
	Healer    *Player  `json:"healer,omitempty"`

	ActiveMode GameMode `json:"active_mode"`
	Modes      []string `json:"modes"`

	Votes     map[string]string `json:"votes"`
	Tally     []VoteCount       `json:"tally"`
	MostVoted []Player          `json:"most_voted,omitempty"`
}

// detectiveVoteWeight is how much the detective's vote counts.
const detectiveVoteWeight = 2

// Results reveals the round. Only available once the discussion has ended.
func (s Session) Results() (Results, error) {
	if err := s.requirePhase(PhaseResults); err != nil {
		return Results{}, err
	}

	r := s.Round
	res := Results{
		Word:       r.Word,
		Word2:      r.Word2,
		Hint:       r.Hint,
		Hint2:      r.Hint2,
		Jester:     s.player(r.JesterID),
		Detective:  s.player(r.DetectiveID),
		Healer:     s.player(r.HealerID),
		ActiveMode: r.ActiveMode,
		Modes:      r.Resolution().Labels(),
		Votes:      r.clone().Votes,
	}

	// Roster order, not draw order, so the reveal does not hint at the shuffle.
	for _, p := range s.Players {
		if slices.Contains(r.ImpostorIDs, p.ID) {
			res.Impostors = append(res.Impostors, p)
		}
	}

	res.Tally, res.MostVoted = s.tally()

	return res, nil
}

func (s Session) player(id string) *Player {
	if id == "" {
		return nil
	}
	i := indexOfPlayer(s.Players, id)
	if i < 0 {
		return nil
	}
	p := s.Players[i]
	return &p
}

// tally counts the votes per player in roster order. Players without votes
// are included with zero.
func (s Session) tally() ([]VoteCount, []Player) {
	counts := make(map[string]int, len(s.Players))
	for voter, target := range s.Round.Votes {
		weight := 1
		if voter == s.Round.DetectiveID {
			weight = detectiveVoteWeight
		}
		counts[target] += weight
	}

	tally := make([]VoteCount, 0, len(s.Players))
	most := 0
	for _, p := range s.Players {
		n := counts[p.ID]
		tally = append(tally, VoteCount{Player: p, Votes: n})
		most = max(most, n)
	}

	if most == 0 {
		return tally, nil
	}

	var top []Player
	for _, vc := range tally {
		if vc.Votes == most {
			top = append(top, vc.Player)
		}
	}
	return tally, top
}

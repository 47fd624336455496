/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"slices"
)

// Assignment is the outcome of handing out roles for one round.
type Assignment struct {
	ImpostorIDs []string
	JesterID    string
	DetectiveID string
	HealerID    string

	// Players is the roster in its original order with IsImpostor set.
	Players []Player
}

// checkRoster validates the roster size against the resolved modes and the
// requested impostor count. The mode checks come first so the player is told
// about the mode they picked before anything else.
func checkRoster(count int, normal, special GameMode, impostors int) error {
	for _, m := range []GameMode{normal, special} {
		if m == "" {
			continue
		}
		info := modeTable[m]
		if count < info.minPlayers {
			return info.err
		}
	}
	if count < minimumPlayers {
		return ErrTooFewPlayers
	}
	if impostors < 1 {
		return ErrTooFewImpostors
	}
	if impostors >= count {
		return ErrTooManyImpostors
	}
	return nil
}

// AssignRoles shuffles the roster once and hands out every role of the round
// from that single permutation.
func AssignRoles(players []Player, normal, special GameMode, impostors int, rng Source) (Assignment, error) {
	if err := checkRoster(len(players), normal, special, impostors); err != nil {
		return Assignment{}, err
	}

	order := make([]string, len(players))
	for i, p := range players {
		order[i] = p.ID
	}
	shuffle(rng, order)

	var a Assignment
	if normal == ModeEveryoneImpostor {
		a.ImpostorIDs = order
	} else {
		a.ImpostorIDs = order[:impostors]
	}
	a.ImpostorIDs = slices.Clone(a.ImpostorIDs)

	isImpostor := make(map[string]bool, len(a.ImpostorIDs))
	for _, id := range a.ImpostorIDs {
		isImpostor[id] = true
	}

	var innocents []string
	for _, id := range order {
		if !isImpostor[id] {
			innocents = append(innocents, id)
		}
	}

	if normal == ModeJester {
		a.JesterID = firstExcept(innocents)
	}
	if normal == ModeDetective {
		a.DetectiveID = firstExcept(innocents)
	}
	if special == ModeBreakingPoint {
		a.HealerID = firstExcept(innocents, a.JesterID, a.DetectiveID)
	}

	a.Players = make([]Player, len(players))
	for i, p := range players {
		flag := isImpostor[p.ID]
		if normal == ModeRolesSwitched {
			flag = !flag && !a.hasExtraRole(p.ID)
		}
		p.IsImpostor = &flag
		a.Players[i] = p
	}

	return a, nil
}

func (a Assignment) hasExtraRole(id string) bool {
	return id != "" && (id == a.JesterID || id == a.DetectiveID || id == a.HealerID)
}

// firstExcept returns the first candidate not listed in taken, or "" when
// every candidate is taken.
func firstExcept(candidates []string, taken ...string) string {
	for _, id := range candidates {
		if !slices.Contains(taken, id) {
			return id
		}
	}
	return ""
}

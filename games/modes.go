/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"fmt"
	"strings"
)

// GameMode is one rule-set a round can be played under.
type GameMode string

const (
	ModeNormal           GameMode = "normal"
	ModeDetective        GameMode = "detective"
	ModeEveryoneImpostor GameMode = "everyoneImpostor"
	ModeInnocentsSeeHint GameMode = "innocentsSeeHint"
	ModeRolesSwitched    GameMode = "rolesSwitched"
	ModeTwoWords         GameMode = "twoWords"
	ModeJester           GameMode = "jester"
	ModeBreakingPoint    GameMode = "breakingPoint"
	ModeHealer           GameMode = "healer"
)

// ModeClass separates the base rule-set of a round from the overlays that
// may be stacked on top of it.
type ModeClass int

const (
	ClassNormal ModeClass = iota
	ClassSpecial
)

type modeInfo struct {
	class      ModeClass
	minPlayers int
	label      string
	err        *ValidationError
}

// minimumPlayers applies to every mode without a stricter requirement.
const minimumPlayers = 2

var modeTable = map[GameMode]modeInfo{
	ModeNormal:           {ClassNormal, minimumPlayers, "Normal", ErrTooFewPlayers},
	ModeDetective:        {ClassNormal, 4, "Detective", ErrDetectivePlayers},
	ModeEveryoneImpostor: {ClassNormal, minimumPlayers, "Everyone Impostor", ErrTooFewPlayers},
	ModeInnocentsSeeHint: {ClassNormal, minimumPlayers, "Innocents See Hint", ErrTooFewPlayers},
	ModeRolesSwitched:    {ClassNormal, minimumPlayers, "Roles Switched", ErrTooFewPlayers},
	ModeTwoWords:         {ClassNormal, minimumPlayers, "Two Words", ErrTooFewPlayers},
	ModeJester:           {ClassNormal, 4, "Jester", ErrJesterPlayers},
	ModeBreakingPoint:    {ClassSpecial, 5, "Breaking Point", ErrBreakingPointPlayers},
	ModeHealer:           {ClassNormal, minimumPlayers, "Healer", ErrTooFewPlayers},
}

// modeOrder is the canonical listing order.
var modeOrder = []GameMode{
	ModeNormal,
	ModeDetective,
	ModeEveryoneImpostor,
	ModeInnocentsSeeHint,
	ModeRolesSwitched,
	ModeTwoWords,
	ModeJester,
	ModeBreakingPoint,
	ModeHealer,
}

// AllModes lists every known mode.
func AllModes() []GameMode {
	return append([]GameMode(nil), modeOrder...)
}

func (m GameMode) Valid() bool {
	_, ok := modeTable[m]
	return ok
}

func (m GameMode) Class() ModeClass {
	return modeTable[m].class
}

// MinPlayers is the smallest roster the mode can be played with.
func (m GameMode) MinPlayers() int {
	if info, ok := modeTable[m]; ok {
		return info.minPlayers
	}
	return minimumPlayers
}

// Label is the human-readable mode name.
func (m GameMode) Label() string {
	if info, ok := modeTable[m]; ok {
		return info.label
	}
	return string(m)
}

func (m GameMode) String() string {
	return string(m)
}

// ParseMode accepts a mode name case-insensitively.
func ParseMode(s string) (GameMode, error) {
	for _, m := range modeOrder {
		if strings.EqualFold(string(m), strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return "", &ConfigurationError{Op: "parse mode", Message: fmt.Sprintf("unknown game mode %q", s)}
}

// Resolution is the pair of modes governing one round.
type Resolution struct {
	Normal  GameMode
	Special GameMode // empty when no special mode applies
	Active  GameMode
}

// Labels returns the human-readable names of the resolved modes, special
// mode first.
func (r Resolution) Labels() []string {
	var labels []string
	if r.Special != "" {
		labels = append(labels, r.Special.Label())
	}
	if r.Normal != "" {
		labels = append(labels, r.Normal.Label())
	}
	return labels
}

// ResolveModes picks the normal mode and optional special mode for a round.
// Every enabled mode of a class is equally likely; randomize only records the
// player's intent and does not change the draw.
func ResolveModes(enabled []GameMode, randomize bool, rng Source) (Resolution, error) {
	if len(enabled) == 0 {
		return Resolution{}, &ConfigurationError{Op: "resolve modes", Message: "no game modes enabled"}
	}

	var normals, specials []GameMode
	seen := make(map[GameMode]bool, len(enabled))
	for _, m := range enabled {
		info, ok := modeTable[m]
		if !ok {
			return Resolution{}, &ConfigurationError{Op: "resolve modes", Message: fmt.Sprintf("unknown game mode %q", m)}
		}
		if seen[m] {
			continue
		}
		seen[m] = true

		switch info.class {
		case ClassSpecial:
			specials = append(specials, m)
		default:
			normals = append(normals, m)
		}
	}

	if len(specials) > 0 {
		r := Resolution{Special: pick(rng, specials), Normal: ModeNormal}
		if len(normals) > 0 {
			r.Normal = pick(rng, normals)
		}
		r.Active = r.Special
		return r, nil
	}

	normal := pick(rng, normals)
	return Resolution{Normal: normal, Active: normal}, nil
}

/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import "fmt"

// ValidationError is a recoverable precondition failure. The operation that
// returned it made no changes.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches validation errors by code, so wrapped errors with a more
// specific message still satisfy errors.Is against the sentinels below.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *ValidationError) withMessage(format string, args ...any) *ValidationError {
	return &ValidationError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

var (
	ErrNoCategories         = &ValidationError{"no_categories", "select at least one category"}
	ErrEmptyWordPool        = &ValidationError{"empty_word_pool", "the selected categories contain no words"}
	ErrNoModes              = &ValidationError{"no_modes", "select at least one game mode"}
	ErrTooManyImpostors     = &ValidationError{"too_many_impostors", "number of impostors must be smaller than the number of players"}
	ErrTooFewImpostors      = &ValidationError{"too_few_impostors", "there must be at least one impostor"}
	ErrTooFewPlayers        = &ValidationError{"too_few_players", "at least 2 players are required"}
	ErrJesterPlayers        = &ValidationError{"jester_players", "jester mode requires a minimum of 4 players"}
	ErrDetectivePlayers     = &ValidationError{"detective_players", "detective mode requires a minimum of 4 players"}
	ErrBreakingPointPlayers = &ValidationError{"breaking_point_players", "breaking point mode requires a minimum of 5 players"}
	ErrCardNotViewed        = &ValidationError{"card_not_viewed", "the current player has to view their card first"}
	ErrWrongPhase           = &ValidationError{"wrong_phase", "that action is not available right now"}
	ErrUnknownPlayer        = &ValidationError{"unknown_player", "no such player"}
	ErrInvalidVote          = &ValidationError{"invalid_vote", "invalid vote"}
	ErrInvalidSettings      = &ValidationError{"invalid_settings", "invalid settings"}
	ErrUnknownCategory      = &ValidationError{"unknown_category", "no such category"}
)

// ConfigurationError reports a broken internal invariant: the caller handed
// the engine something it should have rejected earlier.
type ConfigurationError struct {
	Op      string
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Op + ": " + e.Message
}

package games

// Phase is the step of the round lifecycle a session is in.
type Phase string

const (
	PhaseLobby        Phase = "lobby"
	PhaseViewingCards Phase = "viewing-cards"
	PhaseDiscussion   Phase = "discussion"
	PhaseResults      Phase = "results"
)

func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo reports whether the lifecycle allows moving from p to
// target. Resetting to the lobby is allowed from anywhere.
func (p Phase) CanTransitionTo(target Phase) bool {
	if target == PhaseLobby {
		return true
	}

	validTransitions := map[Phase][]Phase{
		PhaseLobby:        {PhaseViewingCards},
		PhaseViewingCards: {PhaseDiscussion},
		PhaseDiscussion:   {PhaseResults},
		PhaseResults:      {PhaseViewingCards},
	}

	for _, phase := range validTransitions[p] {
		if phase == target {
			return true
		}
	}
	return false
}

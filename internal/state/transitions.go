package state

// validTransitions contains the permitted non-emergency transitions in the
// add-debt input flow.
var validTransitions = map[State][]State{
	StateIdle: {
		StateAddName,
	},
	StateAddName: {
		StateAddPhone,
	},
	StateAddPhone: {
		StateAddAmount,
	},
	StateAddAmount: {
		StateAddCurrency,
	},
	StateAddCurrency: {
		StateAddDueDate,
	},
	StateAddDueDate: {
		StateAddNote,
	},
	StateAddNote: {
		StateAddConfirm,
	},
	StateAddConfirm: {
		StateIdle,
	},
}

// IsTransitionAllowed reports whether moving from one state to another is valid.
// Idle and the error state are always reachable so a stuck flow can be reset.
func IsTransitionAllowed(from, to State) bool {
	if to == StateError || to == StateIdle {
		return true
	}

	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}

	for _, state := range allowed {
		if state == to {
			return true
		}
	}

	return false
}

package reservation

// AllowTransition lists the legal status moves. Completed and cancelled
// are terminal: nothing leaves them.
var AllowTransition = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether moving from to next is legal. Staying on
// the same status is always allowed so plain field edits pass through.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, allowed := range AllowTransition[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func Terminal(s Status) bool {
	return len(AllowTransition[s]) == 0 && ValidStatus(s)
}

package round

import (
	"errors"
	"fmt"
)

// Action is an admin-triggered lifecycle transition.
type Action string

const (
	ActionPublish    Action = "publish"
	ActionUnpublish  Action = "unpublish"
	ActionSetFinal   Action = "set_final"
	ActionUnfinalize Action = "unfinalize"
)

// ErrInvalidTransition rejects an action that is not legal from the
// current status.
var ErrInvalidTransition = errors.New("invalid round transition")

// MissingResultsError rejects finalization while included matches still
// have no result. Count is how many results are outstanding.
type MissingResultsError struct {
	Count int
}

func (e MissingResultsError) Error() string {
	return fmt.Sprintf("cannot set final: %d match(es) still missing results", e.Count)
}

// Guards carries the data the transition function needs to decide
// whether an action is legal. Callers gather it; the function stays pure.
type Guards struct {
	// MissingResults is the number of included matches without a result.
	MissingResults int
}

// Transition applies an admin action to the current status and returns
// the next status, or an error describing why the action is rejected.
// Re-applying an action whose target status already holds is a no-op.
func Transition(current Status, action Action, guards Guards) (Status, error) {
	switch action {
	case ActionPublish:
		switch current {
		case StatusScheduled, StatusPublished:
			return StatusPublished, nil
		default:
			return current, fmt.Errorf("%w: cannot publish a %s round", ErrInvalidTransition, current)
		}
	case ActionUnpublish:
		switch current {
		case StatusPublished, StatusScheduled:
			return StatusScheduled, nil
		default:
			return current, fmt.Errorf("%w: cannot unpublish a %s round", ErrInvalidTransition, current)
		}
	case ActionSetFinal:
		switch current {
		case StatusFinal:
			return StatusFinal, nil
		case StatusPublished:
			if guards.MissingResults > 0 {
				return current, MissingResultsError{Count: guards.MissingResults}
			}
			return StatusFinal, nil
		default:
			return current, fmt.Errorf("%w: cannot finalize a %s round", ErrInvalidTransition, current)
		}
	case ActionUnfinalize:
		switch current {
		case StatusFinal, StatusPublished:
			return StatusPublished, nil
		default:
			return current, fmt.Errorf("%w: cannot unlock a %s round", ErrInvalidTransition, current)
		}
	default:
		return current, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
}

package game

import "encoding/json"

// Phase is the state of the level/run state machine.
type Phase int

const (
	PhaseLevelStarting Phase = iota
	PhaseLevelRunning
	PhaseLevelComplete
	PhaseLevelFailed
	PhaseRunEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseLevelStarting:
		return "level_starting"
	case PhaseLevelRunning:
		return "level_running"
	case PhaseLevelComplete:
		return "level_complete"
	case PhaseLevelFailed:
		return "level_failed"
	case PhaseRunEnded:
		return "run_ended"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes Phase as a string.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Outcome is how a run ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWin
	OutcomeLoss
	OutcomeQuit
	OutcomeAborted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	case OutcomeQuit:
		return "quit"
	case OutcomeAborted:
		return "aborted"
	default:
		return "none"
	}
}

// MarshalJSON serializes Outcome as a string.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON deserializes Outcome from a string.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*o = ParseOutcome(s)
	return nil
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) Outcome {
	switch s {
	case "win":
		return OutcomeWin
	case "loss":
		return OutcomeLoss
	case "quit":
		return OutcomeQuit
	case "aborted":
		return OutcomeAborted
	default:
		return OutcomeNone
	}
}

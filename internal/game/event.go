package game

import "encoding/json"

// Event is a discrete notification emitted by the simulation for audio,
// overlays and spectators.
type Event int

const (
	EventLevelStart Event = iota
	EventEat
	EventDeath
	EventLevelComplete
	EventWin
	EventSkip
	EventQuit
)

func (e Event) String() string {
	switch e {
	case EventLevelStart:
		return "level_start"
	case EventEat:
		return "eat"
	case EventDeath:
		return "death"
	case EventLevelComplete:
		return "level_complete"
	case EventWin:
		return "win"
	case EventSkip:
		return "skip"
	case EventQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes Event as a string.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

package game

// Control is a run-level intent from the input source.
type Control int

const (
	ControlNone Control = iota
	ControlSkip
	ControlQuit
)

// Input is what the input source delivers for one tick: at most one
// direction and at most one control intent.
type Input struct {
	Dir     Direction
	Control Control
}

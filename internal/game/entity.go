package game

// Agent is the player-controlled entity. Dir is the pending direction; the
// agent keeps trying to move that way on every eligible tick.
type Agent struct {
	Pos    Position
	Dir    Direction
	Motion Motion
}

// NewAgent places an agent at pos facing right.
func NewAgent(pos Position, threshold int) *Agent {
	return &Agent{
		Pos:    pos,
		Dir:    DirRight,
		Motion: NewMotion(threshold),
	}
}

// SetDirection records a new pending direction. DirNone is ignored.
func (a *Agent) SetDirection(d Direction) {
	if d == DirNone {
		return
	}
	a.Dir = d
}

// Adversary pursues the agent along a route recomputed on every move.
type Adversary struct {
	ID         int
	Pos        Position
	Motion     Motion
	Activation Activation
	Route      Route
}

// NewAdversary creates an adversary that becomes active after delay ticks.
func NewAdversary(id int, pos Position, threshold, delay int) *Adversary {
	return &Adversary{
		ID:         id,
		Pos:        pos,
		Motion:     NewMotion(threshold),
		Activation: NewActivation(delay),
	}
}

// RouteLen returns the length of the last computed route, 0 if none.
func (a *Adversary) RouteLen() int {
	return len(a.Route)
}

// IsActive reports whether the adversary has left its start delay behind.
func (a *Adversary) IsActive() bool {
	return a.Activation.Ready()
}

package game

// Motion gates how often an entity may move. The accumulator advances once
// per tick; on the tick it reaches Threshold the entity is eligible and the
// accumulator starts over.
type Motion struct {
	Threshold int
	acc       int
}

// NewMotion creates a controller that fires every threshold ticks.
func NewMotion(threshold int) Motion {
	return Motion{Threshold: threshold}
}

// Advance counts one tick and reports whether the entity may move.
func (m *Motion) Advance() bool {
	m.acc++
	if m.acc >= m.Threshold {
		m.acc = 0
		return true
	}
	return false
}

// Elapsed returns the ticks counted since the last eligible tick.
func (m *Motion) Elapsed() int {
	return m.acc
}

// Activation holds an adversary back until Delay ticks have passed. Once
// released it stays released for the rest of the level.
type Activation struct {
	Delay int
	acc   int
}

// NewActivation creates a one-shot delay of the given number of ticks.
func NewActivation(delay int) Activation {
	return Activation{Delay: delay}
}

// Advance counts one tick of delay and reports whether the adversary is
// released. The accumulator stops counting at Delay.
func (a *Activation) Advance() bool {
	if a.acc < a.Delay {
		a.acc++
	}
	return a.Ready()
}

// Ready reports whether the delay has run out.
func (a *Activation) Ready() bool {
	return a.acc >= a.Delay
}

// ScaledThreshold returns a move threshold for the given level. Thresholds
// shrink by step per level and never drop below MinMoveThreshold.
func ScaledThreshold(base, step, level int) int {
	t := base - step*level
	if t < MinMoveThreshold {
		return MinMoveThreshold
	}
	return t
}

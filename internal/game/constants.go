package game

import "time"

// Simulation timing
const (
	TickInterval     = time.Millisecond // one simulation tick
	MinMoveThreshold = 1                // floor for level-scaled move thresholds

	DeathFrameInterval = 50 * time.Millisecond // per frame of the death animation
)

// Agent movement (ticks between moves, lower is faster)
const (
	AgentSpeed     = 100
	AgentSpeedStep = 20 // threshold decrease per level
)

// Adversary movement and staggered entry
const (
	AdversarySpeed     = 400
	AdversarySpeedStep = 25

	Adversary2Speed     = 200
	Adversary2SpeedStep = 25
	Adversary2Delay     = 4000 // ticks before the second adversary leaves

	Adversary3Speed     = 300
	Adversary3SpeedStep = 30
	Adversary3Delay     = 7500
)

// Map runes
const (
	RuneWall   = '#'
	RuneReward = '.'
	RuneFree   = ' '
)

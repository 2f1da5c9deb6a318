package game

// Speed is a base move threshold and its decrease per level.
type Speed struct {
	Base int `yaml:"base" json:"base"`
	Step int `yaml:"step" json:"step"`
}

// At returns the threshold for a level.
func (s Speed) At(level int) int {
	return ScaledThreshold(s.Base, s.Step, level)
}

// AdversaryRule describes one adversary's start cell, speed and entry delay.
type AdversaryRule struct {
	Start Position `yaml:"start" json:"start"`
	Speed Speed    `yaml:"speed" json:"speed"`
	Delay int      `yaml:"delay" json:"delay"`
}

// Rules holds the per-level entity setup shared by every level.
type Rules struct {
	AgentStart  Position        `yaml:"agent_start" json:"agent_start"`
	AgentSpeed  Speed           `yaml:"agent_speed" json:"agent_speed"`
	Adversaries []AdversaryRule `yaml:"adversaries" json:"adversaries"`
}

// DefaultRules returns the reference configuration: one agent and three
// adversaries, the second and third released after a delay.
func DefaultRules() Rules {
	return Rules{
		AgentStart: Position{Col: 1, Row: 6},
		AgentSpeed: Speed{Base: AgentSpeed, Step: AgentSpeedStep},
		Adversaries: []AdversaryRule{
			{Start: Position{Col: 9, Row: 5}, Speed: Speed{Base: AdversarySpeed, Step: AdversarySpeedStep}},
			{Start: Position{Col: 8, Row: 5}, Speed: Speed{Base: Adversary2Speed, Step: Adversary2SpeedStep}, Delay: Adversary2Delay},
			{Start: Position{Col: 12, Row: 5}, Speed: Speed{Base: Adversary3Speed, Step: Adversary3SpeedStep}, Delay: Adversary3Delay},
		},
	}
}

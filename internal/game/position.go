package game

import "encoding/json"

// Position is a cell coordinate on the grid.
type Position struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Add returns the position one step away in direction d.
func (p Position) Add(d Direction) Position {
	delta := d.Delta()
	return Position{Col: p.Col + delta.Col, Row: p.Row + delta.Row}
}

// Manhattan returns |Δcol| + |Δrow| between two positions.
func Manhattan(a, b Position) int {
	return abs(a.Col-b.Col) + abs(a.Row-b.Row)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// directionDeltas maps each direction to its column/row step.
var directionDeltas = [...]Position{
	DirNone:  {0, 0},
	DirUp:    {0, -1},
	DirDown:  {0, 1},
	DirLeft:  {-1, 0},
	DirRight: {1, 0},
}

// neighborOrder is the fixed expansion order used by the pathfinder.
var neighborOrder = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Delta returns the step for d. Unknown values behave like DirNone.
func (d Direction) Delta() Position {
	if d < 0 || int(d) >= len(directionDeltas) {
		return Position{}
	}
	return directionDeltas[d]
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// MarshalJSON serializes Direction as a string.
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON deserializes Direction from a string.
func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "up":
		*d = DirUp
	case "down":
		*d = DirDown
	case "left":
		*d = DirLeft
	case "right":
		*d = DirRight
	default:
		*d = DirNone
	}
	return nil
}

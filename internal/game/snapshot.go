package game

import "encoding/json"

// AdversaryState is the read-only view of one adversary.
type AdversaryState struct {
	ID       int      `json:"id"`
	Pos      Position `json:"pos"`
	Active   bool     `json:"active"`
	RouteLen int      `json:"route_len"`
}

// Snapshot is a copy of the simulation state handed to renderers once per
// tick. Mutating it has no effect on the session.
type Snapshot struct {
	Tick        uint64           `json:"tick"`
	Level       int              `json:"level"`
	Levels      int              `json:"levels"`
	Phase       Phase            `json:"phase"`
	Tally       int              `json:"tally"`
	Total       int              `json:"total"`
	Grid        *Grid            `json:"grid"`
	Agent       Position         `json:"agent"`
	AgentDir    Direction        `json:"agent_dir"`
	Adversaries []AdversaryState `json:"adversaries"`
}

// Bounds returns the display extents of the snapshot's grid.
func (s Snapshot) Bounds() Bounds {
	if s.Grid == nil {
		return Bounds{}
	}
	return Bounds{Cols: s.Grid.Cols(), Rows: s.Grid.Rows()}
}

type gridJSON struct {
	Cols  int      `json:"cols"`
	Rows  int      `json:"rows"`
	Lines []string `json:"lines"`
}

// MarshalJSON serializes the grid as its map rows.
func (g *Grid) MarshalJSON() ([]byte, error) {
	return json.Marshal(gridJSON{Cols: g.cols, Rows: g.rows, Lines: g.Lines()})
}

// UnmarshalJSON rebuilds a grid from its map rows.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var v gridJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	lines := v.Lines
	for len(lines) < v.Rows {
		lines = append(lines, "")
	}
	*g = *ParseGrid(lines[:v.Rows], v.Cols)
	return nil
}

// Bounds are the cell extents of the current level, used to place overlays.
type Bounds struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// Color is an RGB colour for presentation collaborators.
type Color struct {
	R, G, B uint8
}

var (
	ColorWall       = Color{0, 0, 255}
	ColorReward     = Color{255, 255, 255}
	ColorAdversary  = Color{255, 0, 0}
	ColorAgent      = Color{255, 255, 0}
	ColorBackground = Color{0, 0, 0}
)

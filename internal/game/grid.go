package game

// Cell is the kind of a single maze tile.
type Cell uint8

const (
	CellFree Cell = iota
	CellWall
	CellReward
)

func (c Cell) String() string {
	switch c {
	case CellWall:
		return "wall"
	case CellReward:
		return "reward"
	default:
		return "free"
	}
}

// CellFromRune maps a map-file rune to a cell kind. Anything that is not a
// wall or a reward is walkable floor.
func CellFromRune(r rune) Cell {
	switch r {
	case RuneWall:
		return CellWall
	case RuneReward:
		return CellReward
	default:
		return CellFree
	}
}

// Rune is the inverse of CellFromRune.
func (c Cell) Rune() rune {
	switch c {
	case CellWall:
		return RuneWall
	case CellReward:
		return RuneReward
	default:
		return RuneFree
	}
}

// Grid is the maze of one level. Its extents are fixed at construction and
// the only mutation after load is a reward turning into free floor.
type Grid struct {
	cols, rows int
	cells      []Cell
}

// NewGrid creates a grid of the given size filled with free cells.
func NewGrid(cols, rows int) *Grid {
	return &Grid{
		cols:  cols,
		rows:  rows,
		cells: make([]Cell, cols*rows),
	}
}

// ParseGrid builds a grid from rows of map runes. Short rows are padded with
// free cells and long rows are truncated to cols.
func ParseGrid(lines []string, cols int) *Grid {
	g := NewGrid(cols, len(lines))
	for row, line := range lines {
		col := 0
		for _, r := range line {
			if col >= cols {
				break
			}
			g.cells[row*cols+col] = CellFromRune(r)
			col++
		}
	}
	return g
}

func (g *Grid) Cols() int { return g.cols }
func (g *Grid) Rows() int { return g.rows }

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p Position) bool {
	return p.Col >= 0 && p.Col < g.cols && p.Row >= 0 && p.Row < g.rows
}

// At returns the cell at p. Out of bounds positions read as walls.
func (g *Grid) At(p Position) Cell {
	if !g.InBounds(p) {
		return CellWall
	}
	return g.cells[g.index(p)]
}

// IsWall reports whether p is a wall or outside the grid.
func (g *Grid) IsWall(p Position) bool {
	return g.At(p) == CellWall
}

// ConsumeReward turns a reward at p into free floor. It returns false if
// there was no reward there.
func (g *Grid) ConsumeReward(p Position) bool {
	if g.At(p) != CellReward {
		return false
	}
	g.cells[g.index(p)] = CellFree
	return true
}

// CountRewards returns the number of reward cells left.
func (g *Grid) CountRewards() int {
	n := 0
	for _, c := range g.cells {
		if c == CellReward {
			n++
		}
	}
	return n
}

// Clone returns an independent copy for read-only consumers.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{cols: g.cols, rows: g.rows, cells: cells}
}

// Lines renders the grid back into map rows.
func (g *Grid) Lines() []string {
	lines := make([]string, g.rows)
	buf := make([]rune, g.cols)
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			buf[col] = g.cells[row*g.cols+col].Rune()
		}
		lines[row] = string(buf)
	}
	return lines
}

func (g *Grid) index(p Position) int {
	return p.Row*g.cols + p.Col
}

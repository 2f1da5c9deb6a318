package game

// Route is an ordered list of cells from a search start to its goal, both
// ends included.
type Route []Position

// Next returns the first step after the start, if there is one.
func (r Route) Next() (Position, bool) {
	if len(r) < 2 {
		return Position{}, false
	}
	return r[1], true
}

type searchNode struct {
	pos     Position
	g, h, f int
}

// FindRoute runs an A* search over the grid from start to goal using the
// Manhattan distance as heuristic. It reports false when the goal cannot be
// reached. Callers must pass in-bounds, non-wall start and goal cells.
//
// The open list is scanned linearly and the first node with the lowest f
// wins; removal moves the last open node into the freed slot. Neighbours are
// expanded up, down, left, right. Together these fix which of several equal
// cost routes is returned.
func FindRoute(g *Grid, start, goal Position) (Route, bool) {
	size := g.cols * g.rows
	closed := make([]bool, size)
	parent := make([]Position, size)
	open := make([]searchNode, 0, size)

	h := Manhattan(start, goal)
	open = append(open, searchNode{pos: start, g: 0, h: h, f: h})

	for len(open) > 0 {
		best := 0
		for i := 1; i < len(open); i++ {
			if open[i].f < open[best].f {
				best = i
			}
		}

		cur := open[best]
		last := len(open) - 1
		open[best] = open[last]
		open = open[:last]

		closed[g.index(cur.pos)] = true

		if cur.pos == goal {
			return buildRoute(g, parent, start, goal), true
		}

		for _, d := range neighborOrder {
			next := cur.pos.Add(d)
			if !g.InBounds(next) || g.IsWall(next) || closed[g.index(next)] {
				continue
			}

			ng := cur.g + 1
			nh := Manhattan(next, goal)
			nf := ng + nh

			found := false
			for j := range open {
				if open[j].pos != next {
					continue
				}
				found = true
				if nf < open[j].f {
					open[j].g = ng
					open[j].h = nh
					open[j].f = nf
					parent[g.index(next)] = cur.pos
				}
				break
			}

			if !found {
				open = append(open, searchNode{pos: next, g: ng, h: nh, f: nf})
				parent[g.index(next)] = cur.pos
			}
		}
	}

	return nil, false
}

// buildRoute walks the predecessor map back from goal and returns the path
// in start-to-goal order.
func buildRoute(g *Grid, parent []Position, start, goal Position) Route {
	var route Route
	for pos := goal; pos != start; pos = parent[g.index(pos)] {
		route = append(route, pos)
	}
	route = append(route, start)

	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route
}

package game

// AdversaryAt returns the adversary standing on p, or nil.
func AdversaryAt(adversaries []*Adversary, p Position) *Adversary {
	for _, adv := range adversaries {
		if adv.Pos == p {
			return adv
		}
	}
	return nil
}

// IsValidMove reports whether an entity may step onto p: inside the grid,
// not a wall and not occupied by an adversary. The agent's own cell is not
// an obstacle, so adversaries can step onto it.
func IsValidMove(g *Grid, p Position, adversaries []*Adversary) bool {
	return g.InBounds(p) && !g.IsWall(p) && AdversaryAt(adversaries, p) == nil
}

// FindCollision returns the first adversary sharing the agent's cell, or nil.
func FindCollision(agent *Agent, adversaries []*Adversary) *Adversary {
	return AdversaryAt(adversaries, agent.Pos)
}

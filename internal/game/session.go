package game

import (
	"errors"
	"fmt"
)

var (
	// ErrStartBlocked is returned when a level puts an entity outside the
	// grid or on a wall.
	ErrStartBlocked = errors.New("start position blocked")
	// ErrNoLevels is returned when the loader provides no levels.
	ErrNoLevels = errors.New("no levels")
)

// GridLoader supplies the maze of each level.
type GridLoader interface {
	LoadGrid(level int) (*Grid, error)
	LevelCount() int
}

// Session owns all mutable state of one run: the current level's grid, the
// entities and the level/run state machine. It is driven by a single
// goroutine and is not safe for concurrent use.
type Session struct {
	loader GridLoader
	rules  Rules
	levels int

	level      int // index of the next level to play once the current one ends
	gridLevel  int // index of the level whose grid is loaded
	phase      Phase
	outcome    Outcome
	levelTicks uint64
	runTicks   uint64

	grid        *Grid
	agent       *Agent
	adversaries []*Adversary
	tally       int
	total       int

	levelOver bool
	runOver   bool

	events []Event
}

// NewSession creates a session positioned before the first level.
func NewSession(loader GridLoader, rules Rules) *Session {
	return &Session{
		loader: loader,
		rules:  rules,
		levels: loader.LevelCount(),
		phase:  PhaseLevelStarting,
	}
}

// StartLevel loads the grid for the current level index and resets the
// per-level state. A load failure ends the run and is returned.
func (s *Session) StartLevel() error {
	s.phase = PhaseLevelStarting
	s.levelOver = false

	if s.levels <= 0 {
		s.abort()
		return ErrNoLevels
	}

	grid, err := s.loader.LoadGrid(s.level)
	if err != nil {
		s.abort()
		return fmt.Errorf("load level %d: %w", s.level, err)
	}
	if err := s.checkStarts(grid); err != nil {
		s.abort()
		return fmt.Errorf("level %d: %w", s.level, err)
	}

	s.grid = grid
	s.gridLevel = s.level
	s.total = grid.CountRewards()
	s.tally = 0
	s.levelTicks = 0

	s.agent = NewAgent(s.rules.AgentStart, s.rules.AgentSpeed.At(s.level))
	s.adversaries = make([]*Adversary, 0, len(s.rules.Adversaries))
	for i, r := range s.rules.Adversaries {
		s.adversaries = append(s.adversaries, NewAdversary(i+1, r.Start, r.Speed.At(s.level), r.Delay))
	}

	s.phase = PhaseLevelRunning
	s.emit(EventLevelStart)
	return nil
}

func (s *Session) checkStarts(g *Grid) error {
	starts := []Position{s.rules.AgentStart}
	for _, r := range s.rules.Adversaries {
		starts = append(starts, r.Start)
	}
	for _, p := range starts {
		if !g.InBounds(p) || g.IsWall(p) {
			return fmt.Errorf("%w: (%d,%d)", ErrStartBlocked, p.Col, p.Row)
		}
	}
	return nil
}

// Tick advances the simulation by one step and returns the events it
// produced. It does nothing unless a level is running.
func (s *Session) Tick(in Input) []Event {
	if s.phase != PhaseLevelRunning {
		return nil
	}
	s.levelTicks++
	s.runTicks++

	s.agent.SetDirection(in.Dir)

	switch in.Control {
	case ControlSkip:
		s.emit(EventSkip)
		s.completeLevel(true)
		return s.Events()
	case ControlQuit:
		s.emit(EventQuit)
		s.quit()
		return s.Events()
	}

	s.moveAgent()
	for _, adv := range s.adversaries {
		s.moveAdversary(adv)
	}
	s.Evaluate()

	return s.Events()
}

func (s *Session) moveAgent() {
	if !s.agent.Motion.Advance() {
		return
	}
	if s.agent.Dir == DirNone {
		return
	}
	next := s.agent.Pos.Add(s.agent.Dir)
	if s.IsValid(next) {
		s.agent.Pos = next
	}
}

// moveAdversary runs one adversary's delay, motion gate and pursuit step.
// Adversaries are moved one after another, so each sees the positions the
// previous ones already took this tick.
func (s *Session) moveAdversary(adv *Adversary) {
	if !adv.Activation.Advance() {
		return
	}
	if !adv.Motion.Advance() {
		return
	}

	route, ok := FindRoute(s.grid, adv.Pos, s.agent.Pos)
	adv.Route = route
	if !ok {
		return
	}
	if next, ok := route.Next(); ok && s.IsValid(next) {
		adv.Pos = next
	}
}

// Evaluate runs the per-tick objective checks: reward consumption, then
// adversary collision, then level completion.
func (s *Session) Evaluate() {
	if s.phase != PhaseLevelRunning {
		return
	}

	if s.grid.ConsumeReward(s.agent.Pos) {
		s.tally++
		s.emit(EventEat)
	}

	if FindCollision(s.agent, s.adversaries) != nil {
		s.fail()
		return
	}

	if LevelCleared(s.tally, s.total, s.IsFinalLevel()) {
		s.completeLevel(false)
	}
}

// Advance moves the state machine past a finished level: on to the next
// level, or to the end of the run.
func (s *Session) Advance() error {
	switch s.phase {
	case PhaseLevelComplete:
		if s.runOver {
			s.phase = PhaseRunEnded
			return nil
		}
		return s.StartLevel()
	case PhaseLevelFailed:
		s.phase = PhaseRunEnded
	}
	return nil
}

func (s *Session) completeLevel(skipped bool) {
	if !skipped {
		s.emit(EventLevelComplete)
	}
	final := s.IsFinalLevel()
	s.level++
	s.levelOver = true
	s.phase = PhaseLevelComplete
	if final {
		s.runOver = true
		s.outcome = OutcomeWin
		s.emit(EventWin)
	}
}

func (s *Session) fail() {
	s.emit(EventDeath)
	s.phase = PhaseLevelFailed
	s.levelOver = true
	s.runOver = true
	s.outcome = OutcomeLoss
}

func (s *Session) quit() {
	s.phase = PhaseRunEnded
	s.levelOver = true
	s.runOver = true
	s.outcome = OutcomeQuit
}

func (s *Session) abort() {
	s.phase = PhaseRunEnded
	s.levelOver = true
	s.runOver = true
	s.outcome = OutcomeAborted
}

func (s *Session) emit(e Event) {
	s.events = append(s.events, e)
}

// Events returns and clears the events emitted since the last call.
func (s *Session) Events() []Event {
	if len(s.events) == 0 {
		return nil
	}
	out := make([]Event, len(s.events))
	copy(out, s.events)
	s.events = s.events[:0]
	return out
}

// IsValid reports whether an entity may move onto p this tick.
func (s *Session) IsValid(p Position) bool {
	return IsValidMove(s.grid, p, s.adversaries)
}

// IsFinalLevel reports whether the loaded level is the last one.
func (s *Session) IsFinalLevel() bool {
	return s.gridLevel == s.levels-1
}

func (s *Session) Level() int { return s.level }
func (s *Session) Levels() int { return s.levels }
func (s *Session) Phase() Phase { return s.phase }
func (s *Session) Outcome() Outcome { return s.outcome }
func (s *Session) Tally() int { return s.tally }
func (s *Session) Total() int { return s.total }
func (s *Session) Grid() *Grid { return s.grid }
func (s *Session) Agent() *Agent { return s.agent }
func (s *Session) Adversaries() []*Adversary { return s.adversaries }
func (s *Session) LevelOver() bool { return s.levelOver }
func (s *Session) RunOver() bool { return s.runOver }
func (s *Session) LevelTicks() uint64 { return s.levelTicks }
func (s *Session) RunTicks() uint64 { return s.runTicks }

// Bounds returns the extents of the loaded grid.
func (s *Session) Bounds() Bounds {
	if s.grid == nil {
		return Bounds{}
	}
	return Bounds{Cols: s.grid.Cols(), Rows: s.grid.Rows()}
}

// Snapshot copies the state a renderer needs.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:   s.levelTicks,
		Level:  s.gridLevel,
		Levels: s.levels,
		Phase:  s.phase,
		Tally:  s.tally,
		Total:  s.total,
	}
	if s.grid != nil {
		snap.Grid = s.grid.Clone()
	}
	if s.agent != nil {
		snap.Agent = s.agent.Pos
		snap.AgentDir = s.agent.Dir
	}
	snap.Adversaries = make([]AdversaryState, 0, len(s.adversaries))
	for _, adv := range s.adversaries {
		snap.Adversaries = append(snap.Adversaries, AdversaryState{
			ID:       adv.ID,
			Pos:      adv.Pos,
			Active:   adv.IsActive(),
			RouteLen: adv.RouteLen(),
		})
	}
	return snap
}

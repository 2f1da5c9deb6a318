package game

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLoader struct {
	maps [][]string
	err  error
}

func (l stubLoader) LoadGrid(level int) (*Grid, error) {
	if l.err != nil {
		return nil, l.err
	}
	if level < 0 || level >= len(l.maps) {
		return nil, fmt.Errorf("no map for level %d", level)
	}
	m := l.maps[level]
	return ParseGrid(m, len(m[0])), nil
}

func (l stubLoader) LevelCount() int {
	return len(l.maps)
}

func repeatMap(m []string, n int) stubLoader {
	maps := make([][]string, n)
	for i := range maps {
		maps[i] = m
	}
	return stubLoader{maps: maps}
}

// borderedMap returns a cols x rows map with a wall border and rewards
// everywhere inside.
func borderedMap(cols, rows int) []string {
	lines := make([]string, rows)
	for r := range lines {
		if r == 0 || r == rows-1 {
			lines[r] = strings.Repeat("#", cols)
			continue
		}
		lines[r] = "#" + strings.Repeat(".", cols-2) + "#"
	}
	return lines
}

func fastAgent(start Position) Rules {
	return Rules{
		AgentStart: start,
		AgentSpeed: Speed{Base: 1},
	}
}

func newRunningSession(t *testing.T, loader GridLoader, rules Rules) *Session {
	t.Helper()
	s := NewSession(loader, rules)
	require.NoError(t, s.StartLevel())
	require.Equal(t, PhaseLevelRunning, s.Phase())
	require.Equal(t, []Event{EventLevelStart}, s.Events())
	return s
}

var singleReward = []string{
	"#####",
	"#   #",
	"# . #",
	"#   #",
	"#####",
}

func TestSession_CollectingLastRewardCompletesLevel(t *testing.T) {
	s := newRunningSession(t, repeatMap(singleReward, 2), fastAgent(Position{Col: 1, Row: 1}))
	assert.Equal(t, 1, s.Total())
	assert.Equal(t, 0, s.Tally())

	events := s.Tick(Input{Dir: DirRight})
	assert.Empty(t, events)
	assert.Equal(t, Position{Col: 2, Row: 1}, s.Agent().Pos)

	events = s.Tick(Input{Dir: DirDown})
	assert.Equal(t, []Event{EventEat, EventLevelComplete}, events)
	assert.Equal(t, Position{Col: 2, Row: 2}, s.Agent().Pos)
	assert.Equal(t, 1, s.Tally())
	assert.Equal(t, PhaseLevelComplete, s.Phase())
	assert.True(t, s.LevelOver())
	assert.False(t, s.RunOver())
	assert.Equal(t, 1, s.Level())

	require.NoError(t, s.Advance())
	assert.Equal(t, PhaseLevelRunning, s.Phase())
	assert.Equal(t, 0, s.Tally())
	assert.Equal(t, 1, s.Total())
	assert.Equal(t, Position{Col: 1, Row: 1}, s.Agent().Pos)
	assert.Equal(t, []Event{EventLevelStart}, s.Events())
}

func TestSession_RewardConsumedOnce(t *testing.T) {
	m := []string{
		"######",
		"# .. #",
		"######",
	}
	s := newRunningSession(t, repeatMap(m, 2), fastAgent(Position{Col: 1, Row: 1}))

	assert.Equal(t, []Event{EventEat}, s.Tick(Input{}))
	assert.Equal(t, 1, s.Tally())

	assert.Equal(t, []Event{EventEat, EventLevelComplete}, s.Tick(Input{}))
	assert.Equal(t, 2, s.Tally())
}

func TestSession_StandingStillDoesNotRecount(t *testing.T) {
	m := []string{
		"#####",
		"#. .#",
		"#####",
	}
	s := newRunningSession(t, repeatMap(m, 2), fastAgent(Position{Col: 1, Row: 1}))

	// The start cell is consumed on the first evaluation.
	events := s.Tick(Input{Dir: DirLeft})
	assert.Equal(t, []Event{EventEat}, events)
	for i := 0; i < 10; i++ {
		assert.Empty(t, s.Tick(Input{Dir: DirLeft}))
	}
	assert.Equal(t, 1, s.Tally())
	assert.Equal(t, Position{Col: 1, Row: 1}, s.Agent().Pos)
}

func TestSession_FinalLevelCompletesOneShort(t *testing.T) {
	corridor := []string{
		"########",
		"# .....#",
		"########",
	}

	t.Run("final level", func(t *testing.T) {
		s := newRunningSession(t, repeatMap(corridor, 1), fastAgent(Position{Col: 1, Row: 1}))
		require.Equal(t, 5, s.Total())

		for i := 0; i < 3; i++ {
			assert.Equal(t, []Event{EventEat}, s.Tick(Input{}))
		}
		events := s.Tick(Input{})
		assert.Equal(t, []Event{EventEat, EventLevelComplete, EventWin}, events)
		assert.Equal(t, 4, s.Tally())
		assert.True(t, s.RunOver())
		assert.Equal(t, OutcomeWin, s.Outcome())

		require.NoError(t, s.Advance())
		assert.Equal(t, PhaseRunEnded, s.Phase())
	})

	t.Run("earlier level needs every reward", func(t *testing.T) {
		s := newRunningSession(t, repeatMap(corridor, 2), fastAgent(Position{Col: 1, Row: 1}))

		for i := 0; i < 4; i++ {
			assert.Equal(t, []Event{EventEat}, s.Tick(Input{}))
		}
		assert.Equal(t, PhaseLevelRunning, s.Phase())

		assert.Equal(t, []Event{EventEat, EventLevelComplete}, s.Tick(Input{}))
		assert.False(t, s.RunOver())
	})
}

func TestSession_CollisionLosesRun(t *testing.T) {
	m := []string{
		"######",
		"#    #",
		"#.####",
		"######",
	}
	rules := fastAgent(Position{Col: 1, Row: 1})
	rules.Adversaries = []AdversaryRule{
		{Start: Position{Col: 3, Row: 1}, Speed: Speed{Base: 1}},
	}
	s := newRunningSession(t, repeatMap(m, 2), rules)

	events := s.Tick(Input{})
	assert.Equal(t, []Event{EventDeath}, events)
	assert.Equal(t, s.Agent().Pos, s.Adversaries()[0].Pos)
	assert.Equal(t, PhaseLevelFailed, s.Phase())
	assert.True(t, s.LevelOver())
	assert.True(t, s.RunOver())
	assert.Equal(t, OutcomeLoss, s.Outcome())

	assert.Nil(t, s.Tick(Input{}), "no ticks after the level ended")

	require.NoError(t, s.Advance())
	assert.Equal(t, PhaseRunEnded, s.Phase())
}

func TestSession_LossTakesPrecedenceOverCompletion(t *testing.T) {
	m := []string{
		"#####",
		"#  .#",
		"#####",
	}
	rules := fastAgent(Position{Col: 1, Row: 1})
	rules.Adversaries = []AdversaryRule{
		{Start: Position{Col: 3, Row: 1}, Speed: Speed{Base: 1000}, Delay: 1000},
	}
	s := newRunningSession(t, repeatMap(m, 2), rules)

	// The agent cannot step onto the adversary, so walk it over by hand.
	s.agent.Pos = Position{Col: 3, Row: 1}
	s.Evaluate()

	assert.Equal(t, []Event{EventEat, EventDeath}, s.Events())
	assert.Equal(t, OutcomeLoss, s.Outcome())
	assert.Equal(t, 0, s.Level(), "level is not counted as completed")
}

func TestSession_AgentBlockedByAdversary(t *testing.T) {
	m := []string{
		"######",
		"#  . #",
		"######",
	}
	rules := fastAgent(Position{Col: 1, Row: 1})
	rules.Adversaries = []AdversaryRule{
		{Start: Position{Col: 2, Row: 1}, Speed: Speed{Base: 1}, Delay: 100},
	}
	s := newRunningSession(t, repeatMap(m, 2), rules)

	for i := 0; i < 5; i++ {
		assert.Empty(t, s.Tick(Input{Dir: DirRight}))
	}
	assert.Equal(t, Position{Col: 1, Row: 1}, s.Agent().Pos)
	assert.Equal(t, PhaseLevelRunning, s.Phase())
}

func TestSession_AdversariesMoveInOrder(t *testing.T) {
	m := []string{
		"########",
		"#     .#",
		"########",
	}
	a := AdversaryRule{Start: Position{Col: 3, Row: 1}, Speed: Speed{Base: 1}}
	b := AdversaryRule{Start: Position{Col: 4, Row: 1}, Speed: Speed{Base: 1}}

	tests := []struct {
		name     string
		order    []AdversaryRule
		expected []Position
	}{
		{
			name:     "leader first frees the cell",
			order:    []AdversaryRule{a, b},
			expected: []Position{{Col: 2, Row: 1}, {Col: 3, Row: 1}},
		},
		{
			name:     "follower first is blocked",
			order:    []AdversaryRule{b, a},
			expected: []Position{{Col: 4, Row: 1}, {Col: 2, Row: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := Rules{
				AgentStart:  Position{Col: 1, Row: 1},
				AgentSpeed:  Speed{Base: 1000},
				Adversaries: tt.order,
			}
			s := newRunningSession(t, repeatMap(m, 2), rules)

			s.Tick(Input{Dir: DirLeft})
			for i, adv := range s.Adversaries() {
				assert.Equal(t, tt.expected[i], adv.Pos, "adversary %d", adv.ID)
			}
		})
	}
}

func TestSession_ActivationDelay(t *testing.T) {
	m := []string{
		"##########",
		"# .      #",
		"##########",
	}
	rules := Rules{
		AgentStart: Position{Col: 1, Row: 1},
		AgentSpeed: Speed{Base: 1000},
		Adversaries: []AdversaryRule{
			{Start: Position{Col: 8, Row: 1}, Speed: Speed{Base: 1}, Delay: 3},
		},
	}
	s := newRunningSession(t, repeatMap(m, 2), rules)
	adv := s.Adversaries()[0]

	s.Tick(Input{Dir: DirLeft})
	s.Tick(Input{Dir: DirLeft})
	assert.Equal(t, Position{Col: 8, Row: 1}, adv.Pos)
	assert.False(t, adv.IsActive())
	assert.Zero(t, adv.RouteLen())

	s.Tick(Input{Dir: DirLeft})
	assert.Equal(t, Position{Col: 7, Row: 1}, adv.Pos)
	assert.True(t, adv.IsActive())
	assert.Equal(t, 8, adv.RouteLen())

	s.Tick(Input{Dir: DirLeft})
	assert.Equal(t, Position{Col: 6, Row: 1}, adv.Pos)
}

func TestSession_AdversaryHoldsWhenUnreachable(t *testing.T) {
	m := []string{
		"#######",
		"#. # .#",
		"#######",
	}
	rules := fastAgent(Position{Col: 1, Row: 1})
	rules.Adversaries = []AdversaryRule{
		{Start: Position{Col: 4, Row: 1}, Speed: Speed{Base: 1}},
	}
	s := newRunningSession(t, repeatMap(m, 2), rules)

	s.Tick(Input{Dir: DirLeft})
	adv := s.Adversaries()[0]
	assert.Equal(t, Position{Col: 4, Row: 1}, adv.Pos)
	assert.Zero(t, adv.RouteLen())
}

func TestSession_Controls(t *testing.T) {
	t.Run("skip advances without completion event", func(t *testing.T) {
		s := newRunningSession(t, repeatMap(singleReward, 3), fastAgent(Position{Col: 1, Row: 1}))

		events := s.Tick(Input{Control: ControlSkip})
		assert.Equal(t, []Event{EventSkip}, events)
		assert.Equal(t, PhaseLevelComplete, s.Phase())
		assert.Equal(t, 1, s.Level())
		assert.False(t, s.RunOver())
		assert.Equal(t, Position{Col: 1, Row: 1}, s.Agent().Pos, "no movement on a skip tick")
	})

	t.Run("skip on final level wins", func(t *testing.T) {
		s := newRunningSession(t, repeatMap(singleReward, 1), fastAgent(Position{Col: 1, Row: 1}))

		events := s.Tick(Input{Control: ControlSkip})
		assert.Equal(t, []Event{EventSkip, EventWin}, events)
		assert.True(t, s.RunOver())
		assert.Equal(t, OutcomeWin, s.Outcome())
	})

	t.Run("quit ends run", func(t *testing.T) {
		s := newRunningSession(t, repeatMap(singleReward, 2), fastAgent(Position{Col: 1, Row: 1}))

		events := s.Tick(Input{Control: ControlQuit})
		assert.Equal(t, []Event{EventQuit}, events)
		assert.Equal(t, PhaseRunEnded, s.Phase())
		assert.True(t, s.RunOver())
		assert.Equal(t, OutcomeQuit, s.Outcome())
	})
}

func TestSession_StartLevelErrors(t *testing.T) {
	t.Run("loader failure aborts", func(t *testing.T) {
		loadErr := errors.New("disk on fire")
		loader := stubLoader{maps: [][]string{singleReward}, err: loadErr}
		s := NewSession(loader, fastAgent(Position{Col: 1, Row: 1}))

		err := s.StartLevel()
		require.Error(t, err)
		assert.ErrorIs(t, err, loadErr)
		assert.Equal(t, PhaseRunEnded, s.Phase())
		assert.Equal(t, OutcomeAborted, s.Outcome())
		assert.True(t, s.RunOver())
	})

	t.Run("no levels", func(t *testing.T) {
		s := NewSession(stubLoader{}, fastAgent(Position{Col: 1, Row: 1}))
		assert.ErrorIs(t, s.StartLevel(), ErrNoLevels)
		assert.Equal(t, OutcomeAborted, s.Outcome())
	})

	tests := []struct {
		name  string
		rules Rules
	}{
		{"agent on wall", fastAgent(Position{Col: 0, Row: 0})},
		{"agent outside grid", fastAgent(Position{Col: 9, Row: 9})},
		{
			name: "adversary on wall",
			rules: Rules{
				AgentStart:  Position{Col: 1, Row: 1},
				AgentSpeed:  Speed{Base: 1},
				Adversaries: []AdversaryRule{{Start: Position{Col: 4, Row: 2}, Speed: Speed{Base: 1}}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(repeatMap(singleReward, 1), tt.rules)
			assert.ErrorIs(t, s.StartLevel(), ErrStartBlocked)
			assert.Equal(t, OutcomeAborted, s.Outcome())
		})
	}
}

func TestSession_SpeedScalesWithLevel(t *testing.T) {
	s := newRunningSession(t, repeatMap(borderedMap(22, 13), 4), DefaultRules())
	assert.Equal(t, 100, s.Agent().Motion.Threshold)

	for level := 1; level < 4; level++ {
		s.Tick(Input{Control: ControlSkip})
		require.NoError(t, s.Advance())
	}

	assert.Equal(t, 3, s.Level())
	assert.True(t, s.IsFinalLevel())
	assert.Equal(t, 40, s.Agent().Motion.Threshold)
	advs := s.Adversaries()
	require.Len(t, advs, 3)
	assert.Equal(t, 325, advs[0].Motion.Threshold)
	assert.Equal(t, 125, advs[1].Motion.Threshold)
	assert.Equal(t, 210, advs[2].Motion.Threshold)
	assert.Equal(t, Adversary3Delay, advs[2].Activation.Delay)
}

func TestSession_SnapshotIsDetached(t *testing.T) {
	s := newRunningSession(t, repeatMap(singleReward, 2), fastAgent(Position{Col: 2, Row: 1}))

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Total)
	assert.Equal(t, PhaseLevelRunning, snap.Phase)
	assert.Equal(t, Bounds{Cols: 5, Rows: 5}, snap.Bounds())

	s.Tick(Input{Dir: DirDown})
	assert.Equal(t, CellReward, snap.Grid.At(Position{Col: 2, Row: 2}))
	assert.Equal(t, CellFree, s.Grid().At(Position{Col: 2, Row: 2}))
}

func TestSession_RewardOnStartCellCounts(t *testing.T) {
	m := []string{
		"#####",
		"#.. #",
		"#####",
	}
	rules := Rules{AgentStart: Position{Col: 1, Row: 1}, AgentSpeed: Speed{Base: 1000}}
	s := newRunningSession(t, repeatMap(m, 2), rules)
	require.Equal(t, 2, s.Total())

	assert.Equal(t, []Event{EventEat}, s.Tick(Input{}))
	assert.Equal(t, Position{Col: 1, Row: 1}, s.Agent().Pos)
	assert.Equal(t, 1, s.Tally())
	assert.Equal(t, PhaseLevelRunning, s.Phase())
}

package term

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/ugaemi/mazechase/internal/game"
)

// Glyphs
const (
	glyphWall      = '█'
	glyphReward    = '·'
	glyphAdversary = 'M'
	glyphIdle      = 'm'
)

// deathGlyphs shrink the agent one frame at a time down to an empty cell.
var deathGlyphs = [...]rune{'O', 'o', '.', ' '}

var agentGlyphs = map[game.Direction]rune{
	game.DirUp:    'v',
	game.DirDown:  '^',
	game.DirLeft:  '>',
	game.DirRight: '<',
}

// Screen is the terminal front end: it renders snapshots, shows overlay
// messages and turns key presses into per-tick input.
type Screen struct {
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{}
	once   sync.Once

	mu      sync.Mutex
	pending game.Input
}

// New initialises the terminal.
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return NewWithScreen(s), nil
}

// NewWithScreen wraps an already initialised tcell screen and starts the
// event pump.
func NewWithScreen(s tcell.Screen) *Screen {
	s.HideCursor()
	s.Clear()

	t := &Screen{
		screen: s,
		events: make(chan tcell.Event, 64),
		done:   make(chan struct{}),
	}
	go t.pump()
	return t
}

func (t *Screen) pump() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.done:
			return
		}
	}
}

// Poll drains the pending key events and returns the intent for the next
// tick. The newest direction wins; a control key is kept until polled.
func (t *Screen) Poll() game.Input {
	for {
		select {
		case ev := <-t.events:
			t.handle(ev)
		default:
			t.mu.Lock()
			in := t.pending
			t.pending = game.Input{}
			t.mu.Unlock()
			return in
		}
	}
}

func (t *Screen) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		in := translateKey(ev)
		t.mu.Lock()
		if in.Dir != game.DirNone {
			t.pending.Dir = in.Dir
		}
		if in.Control > t.pending.Control {
			t.pending.Control = in.Control
		}
		t.mu.Unlock()
	case *tcell.EventResize:
		t.screen.Sync()
	}
}

func translateKey(ev *tcell.EventKey) game.Input {
	switch ev.Key() {
	case tcell.KeyUp:
		return game.Input{Dir: game.DirUp}
	case tcell.KeyDown:
		return game.Input{Dir: game.DirDown}
	case tcell.KeyLeft:
		return game.Input{Dir: game.DirLeft}
	case tcell.KeyRight:
		return game.Input{Dir: game.DirRight}
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return game.Input{Control: game.ControlQuit}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'e', 'E':
			return game.Input{Control: game.ControlSkip}
		case 'q', 'Q':
			return game.Input{Control: game.ControlQuit}
		}
	}
	return game.Input{}
}

// Render draws the maze, the entities and a status line below the maze.
func (t *Screen) Render(snap game.Snapshot) {
	t.draw(snap)
	if snap.Grid != nil {
		g, ok := agentGlyphs[snap.AgentDir]
		if !ok {
			g = 'O'
		}
		t.screen.SetContent(snap.Agent.Col, snap.Agent.Row, g, nil, style(game.ColorAgent))
	}
	t.screen.Show()
}

// DeathFrames returns the length of the death animation.
func (t *Screen) DeathFrames() int { return len(deathGlyphs) }

// DrawDeath redraws the board with the agent at the given frame of its
// death. Frames past the end show the last one.
func (t *Screen) DrawDeath(snap game.Snapshot, frame int) {
	t.draw(snap)
	if snap.Grid != nil {
		frame = max(0, min(frame, len(deathGlyphs)-1))
		t.screen.SetContent(snap.Agent.Col, snap.Agent.Row, deathGlyphs[frame], nil, style(game.ColorAgent))
	}
	t.screen.Show()
}

// draw puts everything but the agent on a cleared screen.
func (t *Screen) draw(snap game.Snapshot) {
	t.screen.Clear()
	if snap.Grid == nil {
		return
	}

	wall := style(game.ColorWall)
	reward := style(game.ColorReward)
	for row := 0; row < snap.Grid.Rows(); row++ {
		for col := 0; col < snap.Grid.Cols(); col++ {
			switch snap.Grid.At(game.Position{Col: col, Row: row}) {
			case game.CellWall:
				t.screen.SetContent(col, row, glyphWall, nil, wall)
			case game.CellReward:
				t.screen.SetContent(col, row, glyphReward, nil, reward)
			}
		}
	}

	adv := style(game.ColorAdversary)
	for _, a := range snap.Adversaries {
		g := glyphAdversary
		if !a.Active {
			g = glyphIdle
		}
		t.screen.SetContent(a.Pos.Col, a.Pos.Row, g, nil, adv)
	}

	status := fmt.Sprintf("LEVEL %d/%d  SCORE %d/%d", snap.Level+1, snap.Levels, snap.Tally, snap.Total)
	t.drawText(0, snap.Grid.Rows(), status, style(game.ColorReward))
}

// ShowMessage draws text centred in the maze bounds.
func (t *Screen) ShowMessage(text string, c game.Color, b game.Bounds) {
	runes := []rune(text)
	col := (b.Cols - len(runes)) / 2
	if col < 0 {
		col = 0
	}
	row := b.Rows / 2

	t.drawText(col, row, text, style(c).Background(toColor(game.ColorBackground)).Bold(true))
	t.screen.Show()
}

func (t *Screen) drawText(col, row int, text string, st tcell.Style) {
	for i, r := range []rune(text) {
		t.screen.SetContent(col+i, row, r, nil, st)
	}
}

// Close restores the terminal.
func (t *Screen) Close() {
	t.once.Do(func() {
		close(t.done)
		t.screen.Fini()
	})
}

func style(c game.Color) tcell.Style {
	return tcell.StyleDefault.Foreground(toColor(c))
}

func toColor(c game.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

package run

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ugaemi/mazechase/internal/game"
	"github.com/ugaemi/mazechase/internal/store"
)

const recordTimeout = 5 * time.Second

// Overlay texts
const (
	MsgTitle    = "MAZE CHASE"
	MsgStarting = "STARTING"
	MsgComplete = "COMPLETED"
	MsgWin      = "YOU WIN!!"
	MsgLost     = "YOU LOST"
	MsgSkipping = "SKIPPING LEVEL"
	MsgQuitting = "QUITTING"
	MsgGameOver = "GAME OVER"
)

// Renderer draws a snapshot of the simulation.
type Renderer interface {
	Render(snap game.Snapshot)
}

// AudioSink plays the sound for an event. It must not block.
type AudioSink interface {
	Play(ev game.Event)
}

// InputSource returns the player's intent for the coming tick.
type InputSource interface {
	Poll() game.Input
}

// Overlay shows a centred message over the maze.
type Overlay interface {
	ShowMessage(text string, c game.Color, b game.Bounds)
}

// DeathAnimator is implemented by renderers that play the agent's death
// before the loss message. Frames run from 0 to DeathFrames()-1.
type DeathAnimator interface {
	DeathFrames() int
	DrawDeath(snap game.Snapshot, frame int)
}

// Spectator follows a run from outside the process.
type Spectator interface {
	Render(snap game.Snapshot)
	Event(ev game.Event, snap game.Snapshot)
	RunOver(rec *store.RunRecord)
}

// Config tunes the loop timing. Zero values fall back to the defaults.
type Config struct {
	TickInterval time.Duration
	MessageHold  time.Duration
	DeathFrame   time.Duration
}

// Runner drives a session in real time: one tick per TickInterval, with
// the collaborators fed after every tick.
type Runner struct {
	session  *game.Session
	renderer Renderer
	audio    AudioSink
	input    InputSource
	overlay  Overlay

	spectator Spectator
	runs      store.RunStore

	tick  time.Duration
	hold  time.Duration
	death time.Duration

	record  *store.RunRecord
	skipped bool
}

// NewRunner creates a runner. Spectator and run history are optional, see
// SetSpectator and SetStore.
func NewRunner(session *game.Session, renderer Renderer, audio AudioSink, input InputSource, overlay Overlay, cfg Config) *Runner {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = game.TickInterval
	}
	if cfg.MessageHold < 0 {
		cfg.MessageHold = 0
	}
	if cfg.DeathFrame <= 0 {
		cfg.DeathFrame = game.DeathFrameInterval
	}
	return &Runner{
		session:  session,
		renderer: renderer,
		audio:    audio,
		input:    input,
		overlay:  overlay,
		tick:     cfg.TickInterval,
		hold:     cfg.MessageHold,
		death:    cfg.DeathFrame,
	}
}

func (r *Runner) SetSpectator(s Spectator) { r.spectator = s }
func (r *Runner) SetStore(s store.RunStore) { r.runs = s }

// Run plays the whole run and returns its record. It stops when the run
// ends or ctx is cancelled; in the latter case the record is still stored
// and ctx.Err() is returned.
func (r *Runner) Run(ctx context.Context) (*store.RunRecord, error) {
	r.record = store.NewRunRecord(r.session.Levels())
	slog.Info("run started", "run", r.record.ID, "levels", r.record.Levels)

	if err := r.startLevel(ctx); err != nil {
		r.finish(ctx)
		return r.record, err
	}

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.finish(ctx)
			return r.record, ctx.Err()

		case <-ticker.C:
			in := r.input.Poll()
			events := r.session.Tick(in)
			snap := r.render()
			r.dispatch(events, snap)

			if !r.session.LevelOver() {
				continue
			}
			if err := r.endLevel(ctx); err != nil {
				r.finish(ctx)
				return r.record, err
			}
			if r.session.Phase() == game.PhaseRunEnded {
				r.finish(ctx)
				return r.record, nil
			}
		}
	}
}

func (r *Runner) startLevel(ctx context.Context) error {
	if err := r.session.StartLevel(); err != nil {
		slog.Error("level load failed", "run", r.record.ID, "level", r.session.Level(), "error", err)
		return err
	}
	return r.levelStarted(ctx)
}

// levelStarted announces a level the session has just loaded. The first
// level also gets the title screen.
func (r *Runner) levelStarted(ctx context.Context) error {
	r.skipped = false
	snap := r.render()
	slog.Info("level started", "run", r.record.ID, "level", snap.Level, "total", snap.Total)

	if snap.Level == 0 {
		if err := r.announce(ctx, MsgTitle, game.ColorAgent, snap); err != nil {
			return err
		}
	}
	r.dispatch(r.session.Events(), snap)
	return r.announce(ctx, MsgStarting, game.ColorReward, snap)
}

// endLevel shows the result of a finished level and moves the session on.
func (r *Runner) endLevel(ctx context.Context) error {
	snap := r.session.Snapshot()

	switch r.session.Outcome() {
	case game.OutcomeLoss:
		slog.Info("level failed", "run", r.record.ID, "level", snap.Level, "tally", snap.Tally, "total", snap.Total)
		if err := r.animateDeath(ctx, snap); err != nil {
			return err
		}
		if err := r.announce(ctx, MsgLost, game.ColorAdversary, snap); err != nil {
			return err
		}
	case game.OutcomeQuit:
		if err := r.announce(ctx, MsgQuitting, game.ColorAdversary, snap); err != nil {
			return err
		}
	default:
		slog.Info("level complete", "run", r.record.ID, "level", snap.Level, "tally", snap.Tally, "total", snap.Total, "skipped", r.skipped)
		msg := MsgComplete
		if r.skipped {
			msg = MsgSkipping
		}
		if err := r.announce(ctx, msg, game.ColorAgent, snap); err != nil {
			return err
		}
		if r.session.Outcome() == game.OutcomeWin {
			if err := r.announce(ctx, MsgWin, game.ColorAgent, snap); err != nil {
				return err
			}
		}
	}

	if r.session.Phase() == game.PhaseRunEnded {
		return nil
	}
	if err := r.session.Advance(); err != nil {
		slog.Error("level load failed", "run", r.record.ID, "level", r.session.Level(), "error", err)
		return fmt.Errorf("advance: %w", err)
	}
	if r.session.Phase() != game.PhaseLevelRunning {
		return nil
	}
	return r.levelStarted(ctx)
}

func (r *Runner) render() game.Snapshot {
	snap := r.session.Snapshot()
	r.renderer.Render(snap)
	if r.spectator != nil {
		r.spectator.Render(snap)
	}
	return snap
}

func (r *Runner) dispatch(events []game.Event, snap game.Snapshot) {
	for _, ev := range events {
		switch ev {
		case game.EventEat:
			r.record.Tally++
			r.audio.Play(ev)
		case game.EventDeath:
			r.audio.Play(ev)
		case game.EventLevelStart:
			// The fanfare belongs to the title screen.
			if snap.Level == 0 {
				r.audio.Play(ev)
			}
		case game.EventSkip:
			r.skipped = true
		}
		if r.spectator != nil {
			r.spectator.Event(ev, snap)
		}
	}
}

// animateDeath plays the renderer's death frames, if it has any.
func (r *Runner) animateDeath(ctx context.Context, snap game.Snapshot) error {
	anim, ok := r.renderer.(DeathAnimator)
	if !ok {
		return nil
	}
	for frame := 0; frame < anim.DeathFrames(); frame++ {
		anim.DrawDeath(snap, frame)
		if err := wait(ctx, r.death); err != nil {
			return err
		}
	}
	return nil
}

// announce shows a message and holds it for the configured time.
func (r *Runner) announce(ctx context.Context, text string, c game.Color, snap game.Snapshot) error {
	r.overlay.ShowMessage(text, c, snap.Bounds())
	return r.pause(ctx)
}

func (r *Runner) pause(ctx context.Context) error {
	return wait(ctx, r.hold)
}

// wait sleeps for d unless ctx ends first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// finish fills in the record, shows the closing message and stores the
// run. It runs even when ctx is already cancelled.
func (r *Runner) finish(ctx context.Context) {
	snap := r.session.Snapshot()

	outcome := r.session.Outcome()
	if outcome == game.OutcomeNone {
		outcome = game.OutcomeAborted
	}
	r.record.Outcome = outcome
	r.record.LevelReached = snap.Level + 1
	r.record.Ticks = r.session.RunTicks()
	r.record.EndedAt = time.Now()

	r.overlay.ShowMessage(MsgGameOver, game.ColorAdversary, snap.Bounds())
	if ctx.Err() == nil {
		// Cancellation only cuts the hold short; the run is recorded below.
		_ = r.pause(ctx)
	}

	slog.Info("run ended",
		"run", r.record.ID,
		"outcome", outcome.String(),
		"level", r.record.LevelReached,
		"tally", r.record.Tally,
		"ticks", r.record.Ticks,
	)

	if r.spectator != nil {
		r.spectator.RunOver(r.record)
	}
	if r.runs != nil {
		sctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := r.runs.Record(sctx, r.record); err != nil {
			slog.Error("record run failed", "run", r.record.ID, "error", err)
		}
	}
}

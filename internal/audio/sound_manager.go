package audio

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/ugaemi/mazechase/internal/game"
)

const (
	sampleRate = beep.SampleRate(44100)
)

// SoundManager plays the event sounds through the system speaker.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool

	// add hands a streamer to the output; replaced in tests.
	add func(beep.Streamer)

	// playing counts sounds that have not finished yet.
	playing atomic.Int32
}

// NewSoundManager creates a new sound manager
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.add = func(s beep.Streamer) {
		speaker.Lock()
		sm.mixer.Add(s)
		speaker.Unlock()
	}
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds and releases the speaker.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Clear()
	speaker.Close()
	sm.initialized = false
	sm.add = nil
	sm.playing.Store(0)
}

// Play starts the sound for ev, if it has one. The eat sound only plays
// when nothing else is, so it never cuts across the fanfare or the death
// tune and never stacks on itself.
func (sm *SoundManager) Play(ev game.Event) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.add == nil {
		return
	}

	var s beep.Streamer
	var err error
	switch ev {
	case game.EventEat:
		if sm.playing.Load() > 0 {
			return
		}
		s, err = eatSound(sampleRate)
	case game.EventLevelStart:
		s, err = fanfare(sampleRate)
	case game.EventDeath:
		s, err = deathSound(sampleRate)
	default:
		return
	}
	if err != nil {
		slog.Warn("build sound failed", "event", ev.String(), "error", err)
		return
	}
	sm.playing.Add(1)
	sm.add(beep.Seq(s, beep.Callback(func() { sm.playing.Add(-1) })))
}

// Nop is the audio sink used when sound is disabled.
type Nop struct{}

func (Nop) Play(game.Event) {}

package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// note is one step of a melody. A zero frequency is a rest.
type note struct {
	freq float64
	dur  time.Duration
}

var (
	eatNotes = []note{
		{494, 40 * time.Millisecond},
		{370, 40 * time.Millisecond},
	}

	fanfareNotes = []note{
		{523.25, 150 * time.Millisecond},
		{0, 30 * time.Millisecond},
		{659.25, 150 * time.Millisecond},
		{0, 30 * time.Millisecond},
		{783.99, 150 * time.Millisecond},
		{0, 30 * time.Millisecond},
		{1046.50, 400 * time.Millisecond},
	}

	deathNotes = []note{
		{784, 60 * time.Millisecond},
		{698, 60 * time.Millisecond},
		{622, 60 * time.Millisecond},
		{554, 60 * time.Millisecond},
		{494, 60 * time.Millisecond},
		{440, 60 * time.Millisecond},
		{392, 60 * time.Millisecond},
		{330, 240 * time.Millisecond},
	}
)

func eatSound(sr beep.SampleRate) (beep.Streamer, error) {
	return melody(sr, eatNotes, -0.6)
}

func fanfare(sr beep.SampleRate) (beep.Streamer, error) {
	return melody(sr, fanfareNotes, -0.5)
}

func deathSound(sr beep.SampleRate) (beep.Streamer, error) {
	return melody(sr, deathNotes, -0.5)
}

// melody chains sine tones and rests into one finite streamer. gain is
// applied as in effects.Gain, so -0.5 halves the amplitude.
func melody(sr beep.SampleRate, notes []note, gain float64) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		if n.freq == 0 {
			parts = append(parts, beep.Silence(sr.N(n.dur)))
			continue
		}
		tone, err := generators.SineTone(sr, n.freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(sr.N(n.dur), tone))
	}
	return &effects.Gain{Streamer: beep.Seq(parts...), Gain: gain}, nil
}

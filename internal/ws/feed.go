package ws

import (
	"log/slog"
	"sync"

	"github.com/ugaemi/mazechase/internal/game"
	"github.com/ugaemi/mazechase/internal/store"
)

// Feed publishes a running session to spectators. Frames are thinned to
// one every `every` renders; events and the run summary are always sent.
type Feed struct {
	hub   *Hub
	every uint64

	mu      sync.RWMutex
	renders uint64
	last    *game.Snapshot
}

// NewFeed creates a feed over hub. every below 1 sends every frame.
func NewFeed(hub *Hub, every int) *Feed {
	if every < 1 {
		every = 1
	}
	return &Feed{hub: hub, every: uint64(every)}
}

// Render records the snapshot and broadcasts it when due.
func (f *Feed) Render(snap game.Snapshot) {
	f.mu.Lock()
	f.renders++
	f.last = &snap
	due := (f.renders-1)%f.every == 0
	f.mu.Unlock()

	if !due || f.hub.ClientCount() == 0 {
		return
	}
	f.broadcast(TypeFrame, snap)
}

// Event broadcasts a simulation event.
func (f *Feed) Event(ev game.Event, snap game.Snapshot) {
	f.mu.Lock()
	f.last = &snap
	f.mu.Unlock()

	f.broadcast(TypeEvent, EventMessage{
		Event: ev,
		Level: snap.Level,
		Tally: snap.Tally,
		Total: snap.Total,
	})
}

// RunOver broadcasts the summary of a finished run.
func (f *Feed) RunOver(rec *store.RunRecord) {
	f.broadcast(TypeRunOver, RunOverMessage{Run: rec})
}

// LastFrame returns the most recent snapshot as a frame message.
func (f *Feed) LastFrame() (Message, bool) {
	f.mu.RLock()
	last := f.last
	f.mu.RUnlock()

	if last == nil {
		return Message{}, false
	}
	msg, err := NewMessage(TypeFrame, last)
	if err != nil {
		return Message{}, false
	}
	return msg, true
}

func (f *Feed) broadcast(msgType string, payload any) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		slog.Error("failed to build feed message", "type", msgType, "error", err)
		return
	}
	f.hub.BroadcastMessage(msg)
}

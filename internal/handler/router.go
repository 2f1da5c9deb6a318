package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/ugaemi/mazechase/internal/store"
	"github.com/ugaemi/mazechase/internal/ws"
)

const (
	recentRunsLimit = 20
	requestTimeout  = 5 * time.Second
)

// Router answers spectator requests. The feed itself is push-only; clients
// may ask for the current frame or the run history.
type Router struct {
	feed *ws.Feed
	runs store.RunStore
}

// NewRouter creates a new request router. runs may be nil.
func NewRouter(feed *ws.Feed, runs store.RunStore) *Router {
	return &Router{feed: feed, runs: runs}
}

type runsRequest struct {
	Limit int `json:"limit"`
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	switch msg.Type {
	case ws.TypeSnapshot:
		frame, ok := r.feed.LastFrame()
		if !ok {
			cm.Client.SendMessage(ws.NewErrorMessage("no frame yet"))
			return
		}
		cm.Client.SendMessage(frame)

	case ws.TypeRuns:
		var req runsRequest
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				slog.Warn("invalid runs request", "client", cm.Client.ID, "error", err)
				cm.Client.SendMessage(ws.NewErrorMessage("invalid runs request"))
				return
			}
		}
		// The history may sit behind a database; keep the hub loop free.
		go r.replyRuns(cm.Client, req.Limit)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

// HandleConnect sends a newly joined spectator the current frame so it
// does not have to wait for the next broadcast.
func (r *Router) HandleConnect(client *ws.Client) {
	if frame, ok := r.feed.LastFrame(); ok {
		client.SendMessage(frame)
	}
}

// HandleDisconnect handles client disconnection.
func (r *Router) HandleDisconnect(client *ws.Client) {
	slog.Debug("spectator left", "client", client.ID)
}

func (r *Router) replyRuns(client *ws.Client, limit int) {
	runs, err := r.recentRuns(limit)
	if err != nil {
		if !errors.Is(err, errNoHistory) {
			slog.Error("list runs failed", "client", client.ID, "error", err)
		}
		client.SendMessage(ws.NewErrorMessage(err.Error()))
		return
	}
	resp, err := ws.NewMessage(ws.TypeRuns, ws.RunsMessage{Runs: runs})
	if err != nil {
		slog.Error("failed to build runs message", "client", client.ID, "error", err)
		client.SendMessage(ws.NewErrorMessage("internal error"))
		return
	}
	client.SendMessage(resp)
}

func (r *Router) recentRuns(limit int) ([]*store.RunRecord, error) {
	if r.runs == nil {
		return nil, errNoHistory
	}
	if limit <= 0 || limit > recentRunsLimit {
		limit = recentRunsLimit
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return r.runs.Recent(ctx, limit)
}

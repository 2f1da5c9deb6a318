package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ugaemi/mazechase/internal/game"
)

// RunRecord is the summary of one finished run.
type RunRecord struct {
	ID           string       `json:"id"`
	Outcome      game.Outcome `json:"outcome"`
	LevelReached int          `json:"level_reached"`
	Levels       int          `json:"levels"`
	Tally        int          `json:"tally"`
	Ticks        uint64       `json:"ticks"`
	StartedAt    time.Time    `json:"started_at"`
	EndedAt      time.Time    `json:"ended_at"`
}

// NewRunRecord creates a record for a run that started now.
func NewRunRecord(levels int) *RunRecord {
	return &RunRecord{
		ID:        uuid.New().String(),
		Levels:    levels,
		StartedAt: time.Now(),
	}
}

// Duration returns the wall-clock length of the run.
func (r *RunRecord) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// RunStore defines the interface for persistent run history.
type RunStore interface {
	// Record inserts a finished run.
	Record(ctx context.Context, rec *RunRecord) error
	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]*RunRecord, error)
	// Close releases database resources.
	Close() error
}

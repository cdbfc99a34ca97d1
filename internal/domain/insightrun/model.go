package insightrun

import (
	"errors"
	"time"
)

var ErrRunNotFound = errors.New("insight run not found")

// Run summarizes one completed pipeline execution.
type Run struct {
	ID         string
	PlayerName string
	PlayerID   int64
	MinPatch   string
	MatchCount int
	RowCount   int
	Dropped    int
	CreatedAt  time.Time
}

package timelog

import (
	"context"
	"time"
)

// Reason records why a running segment ended.
type Reason string

const (
	ReasonStop  Reason = "stop"
	ReasonReset Reason = "reset"
	ReasonQuit  Reason = "quit"
)

// TimeLog is one finished running segment of the stopwatch.
type TimeLog struct {
	ID          int64
	SessionID   string
	StartedAt   time.Time
	StoppedAt   time.Time
	FromSeconds int
	ToSeconds   int
	Reason      Reason
}

// Counted is the number of ticks the segment added.
func (l TimeLog) Counted() int {
	return max(l.ToSeconds-l.FromSeconds, 0)
}

// Recorder accepts finished segments.
type Recorder interface {
	Create(ctx context.Context, log *TimeLog) error
}

// Nop drops every segment. It is used when the journal is disabled.
type Nop struct{}

func (Nop) Create(context.Context, *TimeLog) error { return nil }

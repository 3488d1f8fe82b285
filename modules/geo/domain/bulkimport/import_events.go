package bulkimport

import "time"

// CompletedEvent is published after every import run, successful or not.
type CompletedEvent struct {
	Result     Result
	Source     string
	FinishedAt time.Time
}

func NewCompletedEvent(result Result, source string) *CompletedEvent {
	return &CompletedEvent{Result: result, Source: source, FinishedAt: time.Now()}
}

package pipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	StageLoad  Stage = "load"
	StageEmit  Stage = "emit"
	StageWrite Stage = "write"
	StageStamp Stage = "stamp"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusSkipped marks a file left untouched because it is up to date.
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Event reports progress for a generated file (or for the whole run when
// File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. OnEvent may be called from several
// goroutines during the write stage.
type ProgressSink interface {
	OnEvent(Event)
}

package tracefile

import "time"

// Stage identifies a step of loading a fragment.
type Stage string

const (
	// StageRepair is the in-place repair of a fragment.
	StageRepair Stage = "repair"
	// StageParse is JSON decoding and record extraction.
	StageParse Stage = "parse"
	// StageMerge is writing the merged output.
	StageMerge Stage = "merge"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the fragment is waiting for a worker.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusDone indicates the stage finished.
	StatusDone Status = "done"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Progress reports the state of one fragment, or of the whole run when
// File is empty.
type Progress struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Sink consumes progress events. Implementations must be safe for use
// from several goroutines.
type Sink interface {
	OnProgress(Progress)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Progress
}

func (s ChannelSink) OnProgress(p Progress) {
	if s.Ch == nil {
		return
	}
	s.Ch <- p
}

func report(sink Sink, p Progress) {
	if sink == nil {
		return
	}
	sink.OnProgress(p)
}

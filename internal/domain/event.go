package domain

// EventKind identifies a progress event emitted during a run.
type EventKind string

const (
	EventStart       EventKind = "start"
	EventTransferred EventKind = "transferred"
	EventFailed      EventKind = "failed"
	EventWarning     EventKind = "warning"
	EventNoMatch     EventKind = "no_match"
	EventDone        EventKind = "done"
)

// Event is delivered to sinks as a run progresses. Current and Total are
// set on start and per-file events; Outcome only on per-file events.
type Event struct {
	Kind    EventKind
	Current int
	Total   int
	Outcome *TransferOutcome
	Message string
	Summary *Summary
}

// Percent returns progress in the range [0, 1].
func (e Event) Percent() float64 {
	if e.Total <= 0 {
		return 0
	}
	return float64(e.Current) / float64(e.Total)
}

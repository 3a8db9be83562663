package app

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/tozd/go/errors"

	"filecopier/internal/domain"
	appErrors "filecopier/internal/errors"
	"filecopier/internal/logging"
)

// OpenLogFunc creates the operation log for a run.
type OpenLogFunc func(destDir string, mode domain.Mode, start time.Time) (*logging.RunLog, error)

// Orchestrator runs a batch: validate, plan, then transfer every qualifying
// file in order. A failing file is recorded and the run moves on.
type Orchestrator struct {
	FS      FileSystem
	Sink    EventSink
	Logger  logging.Logger
	Now     func() time.Time
	OpenLog OpenLogFunc
}

// Run executes req. Only configuration problems are returned as errors;
// per-file failures are part of the summary.
func (o *Orchestrator) Run(ctx context.Context, req domain.TransferRequest) (domain.Summary, error) {
	if o.FS == nil {
		return domain.Summary{}, errors.New("orchestrator requires FS")
	}

	stop := o.Logger.Measure("Transfer run")
	defer stop()

	planner := Planner{FS: o.FS, Logger: o.Logger}
	req, err := planner.Validate(req)
	if err != nil {
		return domain.Summary{}, err
	}

	if err := o.FS.MkdirAll(req.DestRoot, 0o755); err != nil {
		return domain.Summary{}, appErrors.Wrap(appErrors.InvalidConfig, "mkdir", req.DestRoot, err)
	}

	runLog := o.openLog(req)
	defer runLog.Close()

	plan, err := planner.Plan(ctx, req)
	if err != nil {
		return domain.Summary{}, err
	}

	summary := domain.Summary{
		Total:   len(plan.Items),
		LogPath: runLog.Path(),
	}

	if plan.Empty() {
		summary.NoMatch = true
		runLog.Notice(logging.NoMatchNotice)
		o.emit(domain.Event{Kind: domain.EventNoMatch, Message: logging.NoMatchNotice})
		o.emit(domain.Event{Kind: domain.EventDone, Summary: &summary})
		return summary, nil
	}

	o.emit(domain.Event{Kind: domain.EventStart, Total: summary.Total})

	executor := Executor{FS: o.FS}
	produced := make(map[string]bool, len(plan.Items))
	for i, item := range plan.Items {
		if warning := o.collision(item.DestPath, produced); warning != "" {
			o.emit(domain.Event{
				Kind:    domain.EventWarning,
				Current: i,
				Total:   summary.Total,
				Message: warning,
			})
		}

		outcome := domain.TransferOutcome{
			Candidate: item.Candidate,
			DestPath:  item.DestPath,
		}
		bytes, err := executor.Transfer(item.Candidate.AbsolutePath, item.DestPath, req.Mode)
		kind := domain.EventTransferred
		var message string
		if err != nil {
			outcome.Status = domain.StatusFailure
			outcome.Err = err
			summary.Failed++
			kind = domain.EventFailed
			message = logging.FailureLine(outcome)
		} else {
			outcome.Status = domain.StatusSuccess
			outcome.Bytes = bytes
			summary.Succeeded++
			summary.Bytes += bytes
			produced[item.DestPath] = true
			message = logging.SuccessLine(req.Mode, outcome)
		}

		runLog.Record(outcome)
		summary.Outcomes = append(summary.Outcomes, outcome)
		o.emit(domain.Event{
			Kind:    kind,
			Current: i + 1,
			Total:   summary.Total,
			Outcome: &outcome,
			Message: message,
		})
	}

	o.Logger.Verbosef("Run finished: %d succeeded, %d failed", summary.Succeeded, summary.Failed)
	o.emit(domain.Event{Kind: domain.EventDone, Current: summary.Total, Total: summary.Total, Summary: &summary})
	return summary, nil
}

// collision describes what an overwrite of dest would replace, or returns ""
// when dest is free.
func (o *Orchestrator) collision(dest string, produced map[string]bool) string {
	if produced[dest] {
		return fmt.Sprintf("overwriting %s produced earlier in this run", dest)
	}
	exists, err := o.FS.Exists(dest)
	if err != nil {
		o.Logger.Verbosef("Cannot check %s: %v", dest, err)
		return ""
	}
	if exists {
		return fmt.Sprintf("overwriting existing %s", dest)
	}
	return ""
}

// openLog returns nil when logging is disabled or the log cannot be created;
// the run continues either way.
func (o *Orchestrator) openLog(req domain.TransferRequest) *logging.RunLog {
	if !req.LogEnabled {
		return nil
	}
	open := o.OpenLog
	if open == nil {
		open = logging.OpenRunLog
	}
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}

	runLog, err := open(req.DestRoot, req.Mode, now())
	if err != nil {
		err = appErrors.Wrap(appErrors.LogSetup, "log", req.DestRoot, err)
		o.Logger.Warnf("%s", appErrors.UserMessage(err))
		o.emit(domain.Event{
			Kind:    domain.EventWarning,
			Message: "logging disabled: " + appErrors.UserMessage(err),
		})
		return nil
	}
	return runLog
}

func (o *Orchestrator) emit(event domain.Event) {
	if o.Sink == nil {
		return
	}
	o.Sink.OnEvent(event)
}

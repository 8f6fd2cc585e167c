// Package jobcache implements the bounded, TTL-evicted job store the
// printer service consults for Get-Job-Attributes, Get-Jobs, Cancel-Job,
// Hold-Job, Release-Job and Restart-Job, and the job lifecycle state
// machine those operations drive.
package jobcache

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"
)

// JobState mirrors the RFC 8011 job-state values.
type JobState int32

const (
	JobPending            JobState = 3
	JobPendingHeld        JobState = 4
	JobProcessing         JobState = 5
	JobProcessingStopped  JobState = 6
	JobCanceled           JobState = 7
	JobAborted            JobState = 8
	JobCompleted          JobState = 9
)

func (s JobState) String() string {
	switch s {
	case JobPending:
		return "pending"
	case JobPendingHeld:
		return "pending-held"
	case JobProcessing:
		return "processing"
	case JobProcessingStopped:
		return "processing-stopped"
	case JobCanceled:
		return "canceled"
	case JobAborted:
		return "aborted"
	case JobCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// state reason keywords, a small subset of RFC 8011's job-state-reasons.
const (
	ReasonNone              = "none"
	ReasonJobIncoming        = "job-incoming"
	ReasonJobHoldUntil       = "job-hold-until-specified"
	ReasonProcessing         = "job-printing"
	ReasonCompletedOK        = "job-completed-successfully"
	ReasonCanceledByUser     = "job-canceled-by-user"
	ReasonAbortedBySystem    = "aborted-by-system"
)

const (
	evtHold    = "hold"
	evtRelease = "release"
	evtProcess = "process"
	evtStop    = "stop"
	evtAbort   = "abort"
	evtComplete = "complete"
	evtCancel  = "cancel"
	evtRestart = "restart"
)

// TemplateAttrs carries the job-creation-attributes a client supplied,
// resolved against the printer's defaults at job-creation time.
type TemplateAttrs struct {
	Media           string
	Orientation     *int32
	Sides           string
	PrintColorMode  string
	Resolution      *ResolutionValue
	JobName         string
}

type ResolutionValue struct {
	CrossFeed, Feed int32
	Units           byte
}

// Job is one entry in the cache: identity, lifecycle state, and the
// attribute values Get-Job-Attributes needs to report.
type Job struct {
	ID                 int32
	PrinterURI         string
	OriginatingUser     string
	DocumentFormat      string
	Template            TemplateAttrs
	CreatedAt           time.Time
	ProcessingAt        *time.Time
	CompletedAt         *time.Time
	StateReason         string
	StateMessage        string

	sm *fsm.FSM
}

func newJob(id int32, printerURI, user, format string, tmpl TemplateAttrs, held bool) *Job {
	j := &Job{
		ID:             id,
		PrinterURI:     printerURI,
		OriginatingUser: user,
		DocumentFormat: format,
		Template:       tmpl,
		CreatedAt:      time.Now(),
		StateReason:    ReasonJobIncoming,
		StateMessage:   "Pending",
	}
	initial := "pending"
	if held {
		initial = "pending-held"
		j.StateReason = ReasonJobHoldUntil
		j.StateMessage = "Held"
	}
	j.sm = fsm.NewFSM(
		initial,
		fsm.Events{
			{Name: evtHold, Src: []string{"pending"}, Dst: "pending-held"},
			{Name: evtRelease, Src: []string{"pending-held"}, Dst: "pending"},
			{Name: evtProcess, Src: []string{"pending"}, Dst: "processing"},
			{Name: evtStop, Src: []string{"processing"}, Dst: "processing-stopped"},
			{Name: evtProcess, Src: []string{"processing-stopped"}, Dst: "processing"},
			{Name: evtComplete, Src: []string{"processing"}, Dst: "completed"},
			{Name: evtAbort, Src: []string{"processing", "processing-stopped", "pending"}, Dst: "aborted"},
			{Name: evtCancel, Src: []string{"pending", "pending-held", "processing", "processing-stopped"}, Dst: "canceled"},
			{Name: evtRestart, Src: []string{"canceled", "aborted"}, Dst: "pending"},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				j.onEnterState(e)
			},
		},
	)
	return j
}

// onEnterState keeps StateReason and StateMessage (job-state-message) in
// sync with the FSM's current state; abort carries the triggering error's
// message as the event's single argument.
func (j *Job) onEnterState(e *fsm.Event) {
	now := time.Now()
	switch e.Dst {
	case "processing":
		if j.ProcessingAt == nil {
			j.ProcessingAt = &now
		}
		j.StateReason = ReasonProcessing
		j.StateMessage = "Processing"
	case "processing-stopped":
		j.StateMessage = "Stopped"
	case "completed":
		j.CompletedAt = &now
		j.StateReason = ReasonCompletedOK
		j.StateMessage = "Completed"
	case "canceled":
		j.CompletedAt = &now
		j.StateReason = ReasonCanceledByUser
		j.StateMessage = "Canceled"
	case "aborted":
		j.CompletedAt = &now
		j.StateReason = ReasonAbortedBySystem
		reason := "unknown error"
		if len(e.Args) > 0 {
			if s, ok := e.Args[0].(string); ok && s != "" {
				reason = s
			}
		}
		j.StateMessage = "Aborted: " + reason
	case "pending-held":
		j.StateReason = ReasonJobHoldUntil
		j.StateMessage = "Held"
	case "pending":
		j.StateReason = ReasonJobIncoming
		j.StateMessage = "Pending"
	}
}

// State returns the job's current lifecycle state.
func (j *Job) State() JobState {
	switch j.sm.Current() {
	case "pending":
		return JobPending
	case "pending-held":
		return JobPendingHeld
	case "processing":
		return JobProcessing
	case "processing-stopped":
		return JobProcessingStopped
	case "canceled":
		return JobCanceled
	case "aborted":
		return JobAborted
	case "completed":
		return JobCompleted
	default:
		return JobPending
	}
}

// IsActive reports whether the job can still be acted on (not in a
// terminal state).
func (j *Job) IsActive() bool {
	switch j.sm.Current() {
	case "canceled", "aborted", "completed":
		return false
	default:
		return true
	}
}

func (j *Job) fire(ctx context.Context, event string, args ...interface{}) error {
	if err := j.sm.Event(ctx, event, args...); err != nil {
		return fmt.Errorf("job %d: %w", j.ID, err)
	}
	return nil
}

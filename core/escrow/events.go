package escrow

import (
	"time"

	"github.com/google/uuid"
)

// EventType names the state-changing instructions for the audit log.
type EventType string

const (
	EventConfigInitialized EventType = "config_initialized"
	EventOpsUpdated        EventType = "ops_updated"
	EventJobCreated        EventType = "job_created"
	EventJobFunded         EventType = "job_funded"
	EventResultSubmitted   EventType = "result_submitted"
	EventJobDisputed       EventType = "job_disputed"
	EventJobSettled        EventType = "job_settled"
	EventDisputeResolved   EventType = "dispute_resolved"
)

// Cause labels recorded on dispute and settlement events.
const (
	DisputeCauseBuyerReject = "buyer_reject"
	DisputeCauseTimeout     = "timeout"
	SettleCauseBuyerApprove = "buyer_approve"
	SettleCauseDispute      = "dispute_resolved"
)

// Event is one append-only audit record emitted by a transition. Job-scoped
// fields are zero on config events.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	Job        Key         `json:"job,omitempty"`
	JobID      uint64      `json:"job_id,omitempty"`
	Actor      Key         `json:"actor"`
	PrevStatus string      `json:"prev_status,omitempty"`
	NewStatus  string      `json:"new_status,omitempty"`
	Amounts    *Settlement `json:"amounts,omitempty"`
	Reward     uint64      `json:"reward,omitempty"`
	Reason     string      `json:"reason,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// EventFilter captures simple query params for listing events.
type EventFilter struct {
	Job    Key
	Type   EventType
	Limit  int
	Offset int
}

func newEvent(t EventType, actor Key, now time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Actor:     actor,
		CreatedAt: now,
	}
}

func jobEvent(t EventType, job *Job, actor Key, prev JobStatus, now time.Time) Event {
	ev := newEvent(t, actor, now)
	ev.Job = job.Address
	ev.JobID = job.JobID
	ev.Reward = job.Reward
	ev.PrevStatus = prev.String()
	ev.NewStatus = job.Status.String()
	return ev
}

package escrow

import (
	"time"
)

const (
	// MaxFeeBps is the denominator for basis-point fee math.
	MaxFeeBps = 10_000

	// MaxReasonLen bounds the free-text reason on dispute resolution.
	MaxReasonLen = 160
)

// JobStatus tracks a job through its escrow lifecycle.
type JobStatus uint8

const (
	StatusCreated   JobStatus = 0
	StatusFunded    JobStatus = 1
	StatusSubmitted JobStatus = 2
	StatusDisputed  JobStatus = 3
	StatusSettled   JobStatus = 4
)

// String returns the lowercase status name used in events and storage.
func (s JobStatus) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusFunded:
		return "funded"
	case StatusSubmitted:
		return "submitted"
	case StatusDisputed:
		return "disputed"
	case StatusSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Config is the singleton deployment record. Admin is fixed at
// initialization; Ops is the only field admin may rotate afterwards.
type Config struct {
	Admin      Key       `json:"admin"`
	Ops        Key       `json:"ops"`
	Treasury   Key       `json:"treasury"`
	StableMint Key       `json:"stable_mint,omitempty"` // zero key = native settlement
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Job is the escrow record for one unit of outsourced work. One job exists
// per (buyer, jobID) pair at the address derived by JobAddress.
type Job struct {
	Address         Key       `json:"address"`
	JobID           uint64    `json:"job_id"`
	Buyer           Key       `json:"buyer"`
	Operator        Key       `json:"operator"`
	Reward          uint64    `json:"reward"`
	FeeBps          uint16    `json:"fee_bps"`
	DeadlineAt      time.Time `json:"deadline_at,omitempty"` // zero = no deadline
	Status          JobStatus `json:"status"`
	SubmissionHash  [32]byte  `json:"submission_hash"`
	SubmissionSet   bool      `json:"submission_set"`
	Payout          uint64    `json:"payout"`
	FeeAmount       uint64    `json:"fee_amount"`
	OperatorReceive uint64    `json:"operator_receive"`
	BuyerRefund     uint64    `json:"buyer_refund"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HasDeadline reports whether timeout escalation is time-gated for this job.
func (j *Job) HasDeadline() bool {
	return !j.DeadlineAt.IsZero()
}

// Transfer is a single custody fund movement produced by a transition.
// From and To are account keys: party identities or a job vault address.
type Transfer struct {
	From   Key    `json:"from"`
	To     Key    `json:"to"`
	Amount uint64 `json:"amount"`
}

// CreateJobParams carries the caller-chosen fields of createJob.
type CreateJobParams struct {
	JobID      uint64
	Operator   Key
	Reward     uint64
	FeeBps     uint16
	DeadlineAt time.Time
}

// JobFilter captures simple query params for listing jobs.
type JobFilter struct {
	Buyer    Key
	Operator Key
	Status   *JobStatus
	Limit    int
	Offset   int
}

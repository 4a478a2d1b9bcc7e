package escrow

import "time"

// The transition functions below are the authoritative state machine. They
// validate signer, status, and timing against the in-memory records, mutate
// them, and hand back the fund movements and audit events for the store to
// commit atomically. They never touch storage themselves.

// NewConfig builds the singleton config record. The store enforces the
// init-once check; the signing admin becomes the immutable admin identity.
func NewConfig(admin, ops, treasury, stableMint Key, now time.Time) (Config, Event) {
	cfg := Config{
		Admin:      admin,
		Ops:        ops,
		Treasury:   treasury,
		StableMint: stableMint,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	ev := newEvent(EventConfigInitialized, admin, now)
	return cfg, ev
}

// ApplyUpdateOps rotates the arbitration identity. Admin only. In-flight
// disputes are adjudicated by whichever ops is current at resolve time.
func ApplyUpdateOps(cfg *Config, signer, newOps Key, now time.Time) (Event, error) {
	if signer != cfg.Admin {
		return Event{}, ErrUnauthorizedActor
	}
	cfg.Ops = newOps
	cfg.UpdatedAt = now
	return newEvent(EventOpsUpdated, signer, now), nil
}

// NewJob validates createJob input and builds the job record at its derived
// address. A zero DeadlineAt means timeout escalation is never time-gated.
func NewJob(buyer Key, p CreateJobParams, now time.Time) (Job, Event, error) {
	if p.Reward == 0 {
		return Job{}, Event{}, ErrInvalidReward
	}
	if p.FeeBps > MaxFeeBps {
		return Job{}, Event{}, ErrInvalidFeeBps
	}
	if !p.DeadlineAt.IsZero() && !p.DeadlineAt.After(now) {
		return Job{}, Event{}, ErrInvalidDeadline
	}
	job := Job{
		Address:    JobAddress(buyer, p.JobID),
		JobID:      p.JobID,
		Buyer:      buyer,
		Operator:   p.Operator,
		Reward:     p.Reward,
		FeeBps:     p.FeeBps,
		DeadlineAt: p.DeadlineAt,
		Status:     StatusCreated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	ev := jobEvent(EventJobCreated, &job, buyer, StatusCreated, now)
	ev.PrevStatus = ""
	return job, ev, nil
}

// ApplyFund moves the reward from the buyer into the job vault.
func ApplyFund(job *Job, signer Key, now time.Time) (Transfer, Event, error) {
	if job.Status != StatusCreated {
		return Transfer{}, Event{}, ErrInvalidStatus
	}
	if signer != job.Buyer {
		return Transfer{}, Event{}, ErrUnauthorizedActor
	}
	prev := job.Status
	job.Status = StatusFunded
	job.UpdatedAt = now
	transfer := Transfer{From: job.Buyer, To: job.Address, Amount: job.Reward}
	return transfer, jobEvent(EventJobFunded, job, signer, prev, now), nil
}

// ApplySubmit records the operator's content-addressed outcome digest.
func ApplySubmit(job *Job, signer Key, submissionHash [32]byte, now time.Time) (Event, error) {
	if job.Status != StatusFunded {
		return Event{}, ErrInvalidStatus
	}
	if signer != job.Operator {
		return Event{}, ErrUnauthorizedActor
	}
	prev := job.Status
	job.SubmissionHash = submissionHash
	job.SubmissionSet = true
	job.Status = StatusSubmitted
	job.UpdatedAt = now
	return jobEvent(EventResultSubmitted, job, signer, prev, now), nil
}

// ApplyReview settles at the full reward on approval, or opens a dispute on
// rejection with no funds moving.
func ApplyReview(job *Job, cfg Config, signer Key, approve bool, now time.Time) ([]Transfer, []Event, error) {
	if job.Status != StatusSubmitted {
		return nil, nil, ErrInvalidStatus
	}
	if signer != job.Buyer {
		return nil, nil, ErrUnauthorizedActor
	}
	if !job.SubmissionSet {
		return nil, nil, ErrSubmissionMissing
	}
	if approve {
		transfers, ev, err := settleJob(job, cfg, signer, job.Reward, SettleCauseBuyerApprove, now)
		if err != nil {
			return nil, nil, err
		}
		return transfers, []Event{ev}, nil
	}
	prev := job.Status
	job.Status = StatusDisputed
	job.UpdatedAt = now
	ev := jobEvent(EventJobDisputed, job, signer, prev, now)
	ev.Reason = DisputeCauseBuyerReject
	return nil, []Event{ev}, nil
}

// ApplyTimeout escalates a stalled job to arbitration. Only the buyer or the
// configured ops may call it, and only once the deadline has passed. No
// funds move; resolution happens through resolveDispute.
func ApplyTimeout(job *Job, cfg Config, signer Key, now time.Time) (Event, error) {
	if job.Status != StatusFunded && job.Status != StatusSubmitted {
		return Event{}, ErrInvalidStatus
	}
	if signer != job.Buyer && signer != cfg.Ops {
		return Event{}, ErrUnauthorizedActor
	}
	if job.HasDeadline() && !now.After(job.DeadlineAt) {
		return Event{}, ErrDeadlineNotReached
	}
	prev := job.Status
	job.Status = StatusDisputed
	job.UpdatedAt = now
	ev := jobEvent(EventJobDisputed, job, signer, prev, now)
	ev.Reason = DisputeCauseTimeout
	return ev, nil
}

// ApplyResolve settles a disputed job at an ops-chosen payout anywhere
// between zero and the full reward.
func ApplyResolve(job *Job, cfg Config, signer Key, payout uint64, reason string, now time.Time) ([]Transfer, []Event, error) {
	if job.Status != StatusDisputed {
		return nil, nil, ErrInvalidStatus
	}
	if signer != cfg.Ops {
		return nil, nil, ErrUnauthorizedActor
	}
	if len(reason) > MaxReasonLen {
		return nil, nil, ErrReasonTooLong
	}
	transfers, settled, err := settleJob(job, cfg, signer, payout, SettleCauseDispute, now)
	if err != nil {
		return nil, nil, err
	}
	resolved := newEvent(EventDisputeResolved, signer, now)
	resolved.Job = job.Address
	resolved.JobID = job.JobID
	resolved.Reward = job.Reward
	resolved.Amounts = settled.Amounts
	resolved.Reason = reason
	return transfers, []Event{settled, resolved}, nil
}

// settleJob applies the three-way split, marks the job terminal, and builds
// the vault disbursement transfers. Zero-amount shares produce no transfer.
func settleJob(job *Job, cfg Config, actor Key, payout uint64, cause string, now time.Time) ([]Transfer, Event, error) {
	split, err := Settle(job.Reward, job.FeeBps, payout)
	if err != nil {
		return nil, Event{}, err
	}
	prev := job.Status
	job.Status = StatusSettled
	job.Payout = split.Payout
	job.FeeAmount = split.FeeAmount
	job.OperatorReceive = split.OperatorReceive
	job.BuyerRefund = split.BuyerRefund
	job.UpdatedAt = now

	var transfers []Transfer
	for _, t := range []Transfer{
		{From: job.Address, To: job.Operator, Amount: split.OperatorReceive},
		{From: job.Address, To: cfg.Treasury, Amount: split.FeeAmount},
		{From: job.Address, To: job.Buyer, Amount: split.BuyerRefund},
	} {
		if t.Amount > 0 {
			transfers = append(transfers, t)
		}
	}

	ev := jobEvent(EventJobSettled, job, actor, prev, now)
	ev.Amounts = &split
	ev.Reason = cause
	return transfers, ev, nil
}

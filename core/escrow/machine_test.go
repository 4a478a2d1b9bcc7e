package escrow

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var (
	testAdmin    = DeriveKey([]byte("test"), []byte("admin"))
	testOps      = DeriveKey([]byte("test"), []byte("ops"))
	testTreasury = DeriveKey([]byte("test"), []byte("treasury"))
	testBuyer    = DeriveKey([]byte("test"), []byte("buyer"))
	testOperator = DeriveKey([]byte("test"), []byte("operator"))
)

func testConfig(now time.Time) Config {
	cfg, _ := NewConfig(testAdmin, testOps, testTreasury, Key{}, now)
	return cfg
}

func testJob(t *testing.T, now time.Time) Job {
	t.Helper()
	job, _, err := NewJob(testBuyer, CreateJobParams{
		JobID:      1,
		Operator:   testOperator,
		Reward:     1_000_000,
		FeeBps:     100,
		DeadlineAt: now.Add(time.Hour),
	}, now)
	if err != nil {
		t.Fatalf("NewJob() error: %v", err)
	}
	return job
}

func fundedJob(t *testing.T, now time.Time) Job {
	t.Helper()
	job := testJob(t, now)
	if _, _, err := ApplyFund(&job, testBuyer, now); err != nil {
		t.Fatalf("ApplyFund() error: %v", err)
	}
	return job
}

func submittedJob(t *testing.T, now time.Time) Job {
	t.Helper()
	job := fundedJob(t, now)
	if _, err := ApplySubmit(&job, testOperator, [32]byte{1}, now); err != nil {
		t.Fatalf("ApplySubmit() error: %v", err)
	}
	return job
}

func TestNewJob(t *testing.T) {
	now := time.Now()

	t.Run("valid", func(t *testing.T) {
		job := testJob(t, now)
		if job.Status != StatusCreated {
			t.Errorf("status = %v, want %v", job.Status, StatusCreated)
		}
		if job.Address != JobAddress(testBuyer, 1) {
			t.Error("job address must derive from (buyer, jobID)")
		}
		if job.SubmissionSet {
			t.Error("new job must not have a submission")
		}
	})

	t.Run("zero reward", func(t *testing.T) {
		_, _, err := NewJob(testBuyer, CreateJobParams{JobID: 2, Operator: testOperator, Reward: 0}, now)
		if !errors.Is(err, ErrInvalidReward) {
			t.Errorf("error = %v, want %v", err, ErrInvalidReward)
		}
	})

	t.Run("fee bps above max", func(t *testing.T) {
		_, _, err := NewJob(testBuyer, CreateJobParams{JobID: 3, Operator: testOperator, Reward: 1, FeeBps: 10_001}, now)
		if !errors.Is(err, ErrInvalidFeeBps) {
			t.Errorf("error = %v, want %v", err, ErrInvalidFeeBps)
		}
	})

	t.Run("past deadline", func(t *testing.T) {
		_, _, err := NewJob(testBuyer, CreateJobParams{
			JobID: 4, Operator: testOperator, Reward: 1, DeadlineAt: now.Add(-time.Second),
		}, now)
		if !errors.Is(err, ErrInvalidDeadline) {
			t.Errorf("error = %v, want %v", err, ErrInvalidDeadline)
		}
	})

	t.Run("no deadline allowed", func(t *testing.T) {
		job, _, err := NewJob(testBuyer, CreateJobParams{JobID: 5, Operator: testOperator, Reward: 1}, now)
		if err != nil {
			t.Fatalf("NewJob() error: %v", err)
		}
		if job.HasDeadline() {
			t.Error("zero deadline must mean no deadline")
		}
	})
}

func TestApplyFund(t *testing.T) {
	now := time.Now()

	t.Run("moves reward into the vault", func(t *testing.T) {
		job := testJob(t, now)
		transfer, ev, err := ApplyFund(&job, testBuyer, now)
		if err != nil {
			t.Fatalf("ApplyFund() error: %v", err)
		}
		if job.Status != StatusFunded {
			t.Errorf("status = %v, want %v", job.Status, StatusFunded)
		}
		want := Transfer{From: testBuyer, To: job.Address, Amount: job.Reward}
		if transfer != want {
			t.Errorf("transfer = %+v, want %+v", transfer, want)
		}
		if ev.Type != EventJobFunded || ev.PrevStatus != "created" || ev.NewStatus != "funded" {
			t.Errorf("unexpected event: %+v", ev)
		}
	})

	t.Run("wrong signer", func(t *testing.T) {
		job := testJob(t, now)
		_, _, err := ApplyFund(&job, testOperator, now)
		if !errors.Is(err, ErrAuthorization) {
			t.Errorf("error = %v, want authorization class", err)
		}
		if job.Status != StatusCreated {
			t.Error("failed instruction must not mutate the job")
		}
	})

	t.Run("already funded", func(t *testing.T) {
		job := fundedJob(t, now)
		_, _, err := ApplyFund(&job, testBuyer, now)
		if !errors.Is(err, ErrState) {
			t.Errorf("error = %v, want state class", err)
		}
	})
}

func TestApplySubmit(t *testing.T) {
	now := time.Now()

	t.Run("records the hash", func(t *testing.T) {
		job := fundedJob(t, now)
		hash := [32]byte{0xAB, 0xCD}
		ev, err := ApplySubmit(&job, testOperator, hash, now)
		if err != nil {
			t.Fatalf("ApplySubmit() error: %v", err)
		}
		if job.Status != StatusSubmitted || !job.SubmissionSet || job.SubmissionHash != hash {
			t.Errorf("unexpected job state: %+v", job)
		}
		if ev.Type != EventResultSubmitted {
			t.Errorf("event type = %v, want %v", ev.Type, EventResultSubmitted)
		}
	})

	t.Run("wrong signer", func(t *testing.T) {
		job := fundedJob(t, now)
		if _, err := ApplySubmit(&job, testBuyer, [32]byte{1}, now); !errors.Is(err, ErrAuthorization) {
			t.Errorf("error = %v, want authorization class", err)
		}
	})

	t.Run("not funded", func(t *testing.T) {
		job := testJob(t, now)
		if _, err := ApplySubmit(&job, testOperator, [32]byte{1}, now); !errors.Is(err, ErrState) {
			t.Errorf("error = %v, want state class", err)
		}
	})

	t.Run("no resubmission", func(t *testing.T) {
		job := submittedJob(t, now)
		if _, err := ApplySubmit(&job, testOperator, [32]byte{2}, now); !errors.Is(err, ErrState) {
			t.Errorf("error = %v, want state class", err)
		}
	})
}

func TestApplyReview(t *testing.T) {
	now := time.Now()
	cfg := testConfig(now)

	t.Run("approve settles at full reward", func(t *testing.T) {
		job := submittedJob(t, now)
		transfers, events, err := ApplyReview(&job, cfg, testBuyer, true, now)
		if err != nil {
			t.Fatalf("ApplyReview() error: %v", err)
		}
		if job.Status != StatusSettled {
			t.Errorf("status = %v, want %v", job.Status, StatusSettled)
		}
		if job.Payout != 1_000_000 || job.FeeAmount != 10_000 || job.OperatorReceive != 990_000 || job.BuyerRefund != 0 {
			t.Errorf("unexpected split: %+v", job)
		}
		// Zero buyer refund produces no transfer.
		if len(transfers) != 2 {
			t.Fatalf("transfers = %d, want 2", len(transfers))
		}
		if transfers[0].To != testOperator || transfers[0].Amount != 990_000 {
			t.Errorf("operator transfer = %+v", transfers[0])
		}
		if transfers[1].To != testTreasury || transfers[1].Amount != 10_000 {
			t.Errorf("treasury transfer = %+v", transfers[1])
		}
		if len(events) != 1 || events[0].Type != EventJobSettled || events[0].Reason != SettleCauseBuyerApprove {
			t.Errorf("unexpected events: %+v", events)
		}
	})

	t.Run("reject opens a dispute without moving funds", func(t *testing.T) {
		job := submittedJob(t, now)
		transfers, events, err := ApplyReview(&job, cfg, testBuyer, false, now)
		if err != nil {
			t.Fatalf("ApplyReview() error: %v", err)
		}
		if job.Status != StatusDisputed {
			t.Errorf("status = %v, want %v", job.Status, StatusDisputed)
		}
		if len(transfers) != 0 {
			t.Errorf("reject must not move funds, got %+v", transfers)
		}
		if len(events) != 1 || events[0].Type != EventJobDisputed || events[0].Reason != DisputeCauseBuyerReject {
			t.Errorf("unexpected events: %+v", events)
		}
	})

	t.Run("wrong signer", func(t *testing.T) {
		job := submittedJob(t, now)
		if _, _, err := ApplyReview(&job, cfg, testOperator, true, now); !errors.Is(err, ErrAuthorization) {
			t.Errorf("error = %v, want authorization class", err)
		}
	})

	t.Run("not submitted", func(t *testing.T) {
		job := fundedJob(t, now)
		if _, _, err := ApplyReview(&job, cfg, testBuyer, true, now); !errors.Is(err, ErrState) {
			t.Errorf("error = %v, want state class", err)
		}
	})

	t.Run("submission missing", func(t *testing.T) {
		job := fundedJob(t, now)
		job.Status = StatusSubmitted // forced inconsistent record
		if _, _, err := ApplyReview(&job, cfg, testBuyer, true, now); !errors.Is(err, ErrSubmissionMissing) {
			t.Errorf("error = %v, want %v", err, ErrSubmissionMissing)
		}
	})
}

func TestApplyTimeout(t *testing.T) {
	now := time.Now()
	cfg := testConfig(now)
	after := now.Add(2 * time.Hour)

	t.Run("before deadline fails with timing error", func(t *testing.T) {
		job := fundedJob(t, now)
		if _, err := ApplyTimeout(&job, cfg, testBuyer, now); !errors.Is(err, ErrTiming) {
			t.Errorf("error = %v, want timing class", err)
		}
		if job.Status != StatusFunded {
			t.Error("failed instruction must not mutate the job")
		}
	})

	t.Run("unauthorized actor fails regardless of time", func(t *testing.T) {
		job := fundedJob(t, now)
		if _, err := ApplyTimeout(&job, cfg, testOperator, after); !errors.Is(err, ErrAuthorization) {
			t.Errorf("error = %v, want authorization class", err)
		}
	})

	t.Run("buyer escalates a funded job", func(t *testing.T) {
		job := fundedJob(t, now)
		ev, err := ApplyTimeout(&job, cfg, testBuyer, after)
		if err != nil {
			t.Fatalf("ApplyTimeout() error: %v", err)
		}
		if job.Status != StatusDisputed {
			t.Errorf("status = %v, want %v", job.Status, StatusDisputed)
		}
		if ev.Reason != DisputeCauseTimeout {
			t.Errorf("event reason = %q, want %q", ev.Reason, DisputeCauseTimeout)
		}
	})

	t.Run("ops escalates a submitted job", func(t *testing.T) {
		job := submittedJob(t, now)
		if _, err := ApplyTimeout(&job, cfg, testOps, after); err != nil {
			t.Fatalf("ApplyTimeout() error: %v", err)
		}
		if job.Status != StatusDisputed {
			t.Errorf("status = %v, want %v", job.Status, StatusDisputed)
		}
	})

	t.Run("no deadline means no timing gate", func(t *testing.T) {
		job, _, err := NewJob(testBuyer, CreateJobParams{JobID: 9, Operator: testOperator, Reward: 100}, now)
		if err != nil {
			t.Fatalf("NewJob() error: %v", err)
		}
		if _, _, err := ApplyFund(&job, testBuyer, now); err != nil {
			t.Fatalf("ApplyFund() error: %v", err)
		}
		if _, err := ApplyTimeout(&job, cfg, testBuyer, now); err != nil {
			t.Errorf("ApplyTimeout() error: %v", err)
		}
	})

	t.Run("created job cannot time out", func(t *testing.T) {
		job := testJob(t, now)
		if _, err := ApplyTimeout(&job, cfg, testBuyer, after); !errors.Is(err, ErrState) {
			t.Errorf("error = %v, want state class", err)
		}
	})
}

func TestApplyResolve(t *testing.T) {
	now := time.Now()
	cfg := testConfig(now)

	disputed := func(t *testing.T) Job {
		t.Helper()
		job := submittedJob(t, now)
		if _, _, err := ApplyReview(&job, cfg, testBuyer, false, now); err != nil {
			t.Fatalf("ApplyReview() error: %v", err)
		}
		return job
	}

	t.Run("partial payout", func(t *testing.T) {
		job := disputed(t)
		transfers, events, err := ApplyResolve(&job, cfg, testOps, 600_000, "manual_partial", now)
		if err != nil {
			t.Fatalf("ApplyResolve() error: %v", err)
		}
		if job.Status != StatusSettled {
			t.Errorf("status = %v, want %v", job.Status, StatusSettled)
		}
		if job.Payout != 600_000 || job.FeeAmount != 6_000 || job.OperatorReceive != 594_000 || job.BuyerRefund != 400_000 {
			t.Errorf("unexpected split: %+v", job)
		}
		if len(transfers) != 3 {
			t.Errorf("transfers = %d, want 3", len(transfers))
		}
		if len(events) != 2 || events[0].Type != EventJobSettled || events[1].Type != EventDisputeResolved {
			t.Errorf("unexpected events: %+v", events)
		}
		if events[1].Reason != "manual_partial" {
			t.Errorf("resolution reason = %q", events[1].Reason)
		}
	})

	t.Run("zero payout refunds the buyer", func(t *testing.T) {
		job := disputed(t)
		transfers, _, err := ApplyResolve(&job, cfg, testOps, 0, "timeout_refund", now)
		if err != nil {
			t.Fatalf("ApplyResolve() error: %v", err)
		}
		if job.BuyerRefund != job.Reward {
			t.Errorf("buyer refund = %d, want %d", job.BuyerRefund, job.Reward)
		}
		if len(transfers) != 1 || transfers[0].To != testBuyer || transfers[0].Amount != job.Reward {
			t.Errorf("unexpected transfers: %+v", transfers)
		}
	})

	t.Run("wrong signer", func(t *testing.T) {
		job := disputed(t)
		if _, _, err := ApplyResolve(&job, cfg, testBuyer, 0, "", now); !errors.Is(err, ErrAuthorization) {
			t.Errorf("error = %v, want authorization class", err)
		}
	})

	t.Run("payout above reward", func(t *testing.T) {
		job := disputed(t)
		if _, _, err := ApplyResolve(&job, cfg, testOps, job.Reward+1, "", now); !errors.Is(err, ErrInvalidPayout) {
			t.Errorf("error = %v, want %v", err, ErrInvalidPayout)
		}
	})

	t.Run("reason at the bound succeeds", func(t *testing.T) {
		job := disputed(t)
		if _, _, err := ApplyResolve(&job, cfg, testOps, 0, strings.Repeat("r", MaxReasonLen), now); err != nil {
			t.Errorf("ApplyResolve() error: %v", err)
		}
	})

	t.Run("oversized reason", func(t *testing.T) {
		job := disputed(t)
		if _, _, err := ApplyResolve(&job, cfg, testOps, 0, strings.Repeat("r", 300), now); !errors.Is(err, ErrReasonTooLong) {
			t.Errorf("error = %v, want %v", err, ErrReasonTooLong)
		}
	})

	t.Run("not disputed", func(t *testing.T) {
		job := submittedJob(t, now)
		if _, _, err := ApplyResolve(&job, cfg, testOps, 0, "", now); !errors.Is(err, ErrState) {
			t.Errorf("error = %v, want state class", err)
		}
	})
}

func TestSettledJobIsTerminal(t *testing.T) {
	now := time.Now()
	cfg := testConfig(now)

	job := submittedJob(t, now)
	if _, _, err := ApplyReview(&job, cfg, testBuyer, true, now); err != nil {
		t.Fatalf("ApplyReview() error: %v", err)
	}
	if job.Status != StatusSettled {
		t.Fatalf("status = %v, want %v", job.Status, StatusSettled)
	}

	later := now.Add(48 * time.Hour)
	if _, _, err := ApplyFund(&job, testBuyer, later); !errors.Is(err, ErrState) {
		t.Errorf("fund on settled job: error = %v, want state class", err)
	}
	if _, err := ApplySubmit(&job, testOperator, [32]byte{1}, later); !errors.Is(err, ErrState) {
		t.Errorf("submit on settled job: error = %v, want state class", err)
	}
	if _, _, err := ApplyReview(&job, cfg, testBuyer, true, later); !errors.Is(err, ErrState) {
		t.Errorf("review on settled job: error = %v, want state class", err)
	}
	if _, err := ApplyTimeout(&job, cfg, testBuyer, later); !errors.Is(err, ErrState) {
		t.Errorf("timeout on settled job: error = %v, want state class", err)
	}
	if _, _, err := ApplyResolve(&job, cfg, testOps, 0, "", later); !errors.Is(err, ErrState) {
		t.Errorf("resolve on settled job: error = %v, want state class", err)
	}
}

func TestApplyUpdateOps(t *testing.T) {
	now := time.Now()

	t.Run("admin rotates ops", func(t *testing.T) {
		cfg := testConfig(now)
		newOps := DeriveKey([]byte("test"), []byte("ops2"))
		ev, err := ApplyUpdateOps(&cfg, testAdmin, newOps, now)
		if err != nil {
			t.Fatalf("ApplyUpdateOps() error: %v", err)
		}
		if cfg.Ops != newOps {
			t.Error("ops must be replaced")
		}
		if cfg.Admin != testAdmin {
			t.Error("admin must be immutable")
		}
		if ev.Type != EventOpsUpdated {
			t.Errorf("event type = %v, want %v", ev.Type, EventOpsUpdated)
		}
	})

	t.Run("non-admin rejected", func(t *testing.T) {
		cfg := testConfig(now)
		if _, err := ApplyUpdateOps(&cfg, testOps, testOps, now); !errors.Is(err, ErrAuthorization) {
			t.Errorf("error = %v, want authorization class", err)
		}
	})
}

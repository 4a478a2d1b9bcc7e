package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/c4stleone/SOLHeaven/core/escrow"
	storage "github.com/c4stleone/SOLHeaven/storage/escrow"
)

var (
	instructionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "escrow_instructions_total",
		Help: "Escrow instructions processed, by instruction name and outcome.",
	}, []string{"instruction", "outcome"})

	settledLamportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "escrow_settled_lamports_total",
		Help: "Lamports disbursed at settlement, by share.",
	}, []string{"share"})

	openDisputes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "escrow_open_disputes",
		Help: "Jobs currently in Disputed status.",
	})
)

// InstrumentedStore wraps a Store and records Prometheus metrics for every
// instruction. Reads pass through uncounted.
type InstrumentedStore struct {
	storage.Store
}

// Instrument wraps the given store and primes the dispute gauge from the
// current backlog, so a restart against an existing database does not report
// zero open disputes.
func Instrument(ctx context.Context, inner storage.Store) *InstrumentedStore {
	status := escrow.StatusDisputed
	if jobs, err := inner.ListJobs(ctx, escrow.JobFilter{Status: &status}); err == nil {
		openDisputes.Set(float64(len(jobs)))
	}
	return &InstrumentedStore{Store: inner}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, escrow.ErrAuthorization):
		return "authorization_error"
	case errors.Is(err, escrow.ErrState):
		return "state_error"
	case errors.Is(err, escrow.ErrTiming):
		return "timing_error"
	case errors.Is(err, escrow.ErrValidation):
		return "validation_error"
	default:
		return "error"
	}
}

func observe(instruction string, err error) {
	instructionsTotal.WithLabelValues(instruction, outcome(err)).Inc()
}

func observeSettlement(job escrow.Job) {
	settledLamportsTotal.WithLabelValues("operator").Add(float64(job.OperatorReceive))
	settledLamportsTotal.WithLabelValues("treasury").Add(float64(job.FeeAmount))
	settledLamportsTotal.WithLabelValues("buyer").Add(float64(job.BuyerRefund))
}

func (s *InstrumentedStore) InitializeConfig(ctx context.Context, admin, ops, treasury, stableMint escrow.Key) (escrow.Config, error) {
	cfg, err := s.Store.InitializeConfig(ctx, admin, ops, treasury, stableMint)
	observe("initialize_config", err)
	return cfg, err
}

func (s *InstrumentedStore) UpdateOps(ctx context.Context, signer, newOps escrow.Key) (escrow.Config, error) {
	cfg, err := s.Store.UpdateOps(ctx, signer, newOps)
	observe("update_ops", err)
	return cfg, err
}

func (s *InstrumentedStore) CreateJob(ctx context.Context, buyer escrow.Key, params escrow.CreateJobParams) (escrow.Job, error) {
	job, err := s.Store.CreateJob(ctx, buyer, params)
	observe("create_job", err)
	return job, err
}

func (s *InstrumentedStore) FundJob(ctx context.Context, signer, address escrow.Key) (escrow.Job, error) {
	job, err := s.Store.FundJob(ctx, signer, address)
	observe("fund_job", err)
	return job, err
}

func (s *InstrumentedStore) SubmitResult(ctx context.Context, signer, address escrow.Key, submissionHash [32]byte) (escrow.Job, error) {
	job, err := s.Store.SubmitResult(ctx, signer, address, submissionHash)
	observe("submit_result", err)
	return job, err
}

func (s *InstrumentedStore) ReviewJob(ctx context.Context, signer, address escrow.Key, approve bool) (escrow.Job, error) {
	job, err := s.Store.ReviewJob(ctx, signer, address, approve)
	observe("review_job", err)
	if err == nil {
		if job.Status == escrow.StatusSettled {
			observeSettlement(job)
		} else if job.Status == escrow.StatusDisputed {
			openDisputes.Inc()
		}
	}
	return job, err
}

func (s *InstrumentedStore) TriggerTimeout(ctx context.Context, signer, address escrow.Key) (escrow.Job, error) {
	job, err := s.Store.TriggerTimeout(ctx, signer, address)
	observe("trigger_timeout", err)
	if err == nil {
		openDisputes.Inc()
	}
	return job, err
}

func (s *InstrumentedStore) ResolveDispute(ctx context.Context, signer, address escrow.Key, payout uint64, reason string) (escrow.Job, error) {
	job, err := s.Store.ResolveDispute(ctx, signer, address, payout, reason)
	observe("resolve_dispute", err)
	if err == nil {
		observeSettlement(job)
		openDisputes.Dec()
	}
	return job, err
}

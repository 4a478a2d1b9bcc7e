package escrow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/c4stleone/SOLHeaven/core/escrow"
)

// PGStore persists escrow state in Postgres. Every instruction runs inside
// a single transaction with the job row locked, so record mutation, fund
// movement, and event append commit together or not at all. Two conflicting
// instructions on the same job serialize on the row lock and the loser
// fails its status precondition.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects, initializes schema, and optionally seeds fixtures.
func NewPGStore(ctx context.Context, dsn string, seed bool) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &PGStore{pool: pool}
	if err := s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if seed {
		if err := s.seedFixtures(ctx); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *PGStore) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS escrow_config (
  address TEXT PRIMARY KEY,
  admin TEXT NOT NULL,
  ops TEXT NOT NULL,
  treasury TEXT NOT NULL,
  stable_mint TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS escrow_jobs (
  address TEXT PRIMARY KEY,
  job_id BIGINT NOT NULL,
  buyer TEXT NOT NULL,
  operator TEXT NOT NULL,
  reward BIGINT NOT NULL,
  fee_bps INT NOT NULL,
  deadline_at TIMESTAMPTZ,
  status INT NOT NULL,
  submission_hash BYTEA,
  submission_set BOOLEAN NOT NULL DEFAULT FALSE,
  payout BIGINT NOT NULL DEFAULT 0,
  fee_amount BIGINT NOT NULL DEFAULT 0,
  operator_receive BIGINT NOT NULL DEFAULT 0,
  buyer_refund BIGINT NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_escrow_jobs_buyer ON escrow_jobs(buyer);
CREATE INDEX IF NOT EXISTS idx_escrow_jobs_status ON escrow_jobs(status);
CREATE TABLE IF NOT EXISTS escrow_balances (
  account TEXT PRIMARY KEY,
  lamports BIGINT NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS escrow_events (
  seq BIGSERIAL PRIMARY KEY,
  id TEXT NOT NULL UNIQUE,
  type TEXT NOT NULL,
  job TEXT,
  job_id BIGINT,
  actor TEXT NOT NULL,
  prev_status TEXT,
  new_status TEXT,
  payout BIGINT,
  fee_amount BIGINT,
  operator_receive BIGINT,
  buyer_refund BIGINT,
  reward BIGINT,
  reason TEXT,
  created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_escrow_events_job ON escrow_events(job);
`
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *PGStore) seedFixtures(ctx context.Context) error {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM escrow_config`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	cfg, jobs, balances := SeedData()
	_, err := s.pool.Exec(ctx, `
INSERT INTO escrow_config (address, admin, ops, treasury, stable_mint, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (address) DO NOTHING
`, escrow.ConfigAddress().String(), cfg.Admin.String(), cfg.Ops.String(), cfg.Treasury.String(), keyText(cfg.StableMint), cfg.CreatedAt, cfg.UpdatedAt)
	if err != nil {
		return err
	}
	for _, j := range jobs {
		if err := s.insertJob(ctx, s.pool, j); err != nil {
			return err
		}
	}
	for account, lamports := range balances {
		_, err := s.pool.Exec(ctx, `
INSERT INTO escrow_balances (account, lamports) VALUES ($1,$2)
ON CONFLICT (account) DO UPDATE SET lamports = escrow_balances.lamports + EXCLUDED.lamports
`, account.String(), int64(lamports))
		if err != nil {
			return err
		}
	}
	return nil
}

// Close shuts down the pool.
func (s *PGStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitializeConfig bootstraps the singleton config. A second call fails.
func (s *PGStore) InitializeConfig(ctx context.Context, admin, ops, treasury, stableMint escrow.Key) (escrow.Config, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return escrow.Config{}, err
	}
	defer tx.Rollback(ctx)

	if _, err := s.getConfig(ctx, tx); err == nil {
		return escrow.Config{}, escrow.ErrConfigExists
	} else if !errors.Is(err, escrow.ErrConfigNotFound) {
		return escrow.Config{}, err
	}

	cfg, ev := escrow.NewConfig(admin, ops, treasury, stableMint, time.Now().UTC())
	_, err = tx.Exec(ctx, `
INSERT INTO escrow_config (address, admin, ops, treasury, stable_mint, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, escrow.ConfigAddress().String(), cfg.Admin.String(), cfg.Ops.String(), cfg.Treasury.String(), keyText(cfg.StableMint), cfg.CreatedAt, cfg.UpdatedAt)
	if err != nil {
		return escrow.Config{}, err
	}
	if err := s.insertEvents(ctx, tx, []escrow.Event{ev}); err != nil {
		return escrow.Config{}, err
	}
	return cfg, tx.Commit(ctx)
}

// UpdateOps rotates the arbitration identity. Admin only.
func (s *PGStore) UpdateOps(ctx context.Context, signer, newOps escrow.Key) (escrow.Config, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return escrow.Config{}, err
	}
	defer tx.Rollback(ctx)

	cfg, err := s.getConfigForUpdate(ctx, tx)
	if err != nil {
		return escrow.Config{}, err
	}
	ev, err := escrow.ApplyUpdateOps(&cfg, signer, newOps, time.Now().UTC())
	if err != nil {
		return escrow.Config{}, err
	}
	_, err = tx.Exec(ctx, `UPDATE escrow_config SET ops = $1, updated_at = $2 WHERE address = $3`,
		cfg.Ops.String(), cfg.UpdatedAt, escrow.ConfigAddress().String())
	if err != nil {
		return escrow.Config{}, err
	}
	if err := s.insertEvents(ctx, tx, []escrow.Event{ev}); err != nil {
		return escrow.Config{}, err
	}
	return cfg, tx.Commit(ctx)
}

// CreateJob allocates the job record at its derived address. Re-creating
// the same (buyer, jobID) fails on the primary key.
func (s *PGStore) CreateJob(ctx context.Context, buyer escrow.Key, params escrow.CreateJobParams) (escrow.Job, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return escrow.Job{}, err
	}
	defer tx.Rollback(ctx)

	if _, err := s.getConfig(ctx, tx); err != nil {
		return escrow.Job{}, err
	}
	address := escrow.JobAddress(buyer, params.JobID)
	if _, err := s.getJob(ctx, tx, address, false); err == nil {
		return escrow.Job{}, escrow.ErrJobExists
	} else if !errors.Is(err, escrow.ErrJobNotFound) {
		return escrow.Job{}, err
	}

	job, ev, err := escrow.NewJob(buyer, params, time.Now().UTC())
	if err != nil {
		return escrow.Job{}, err
	}
	if err := s.insertJob(ctx, tx, job); err != nil {
		return escrow.Job{}, err
	}
	if err := s.insertEvents(ctx, tx, []escrow.Event{ev}); err != nil {
		return escrow.Job{}, err
	}
	return job, tx.Commit(ctx)
}

// FundJob moves the reward from the buyer's balance into the job vault.
func (s *PGStore) FundJob(ctx context.Context, signer, address escrow.Key) (escrow.Job, error) {
	return s.applyJob(ctx, address, func(job *escrow.Job, _ escrow.Config, now time.Time) ([]escrow.Transfer, []escrow.Event, error) {
		transfer, ev, err := escrow.ApplyFund(job, signer, now)
		if err != nil {
			return nil, nil, err
		}
		return []escrow.Transfer{transfer}, []escrow.Event{ev}, nil
	})
}

// SubmitResult records the operator's submission hash.
func (s *PGStore) SubmitResult(ctx context.Context, signer, address escrow.Key, submissionHash [32]byte) (escrow.Job, error) {
	return s.applyJob(ctx, address, func(job *escrow.Job, _ escrow.Config, now time.Time) ([]escrow.Transfer, []escrow.Event, error) {
		ev, err := escrow.ApplySubmit(job, signer, submissionHash, now)
		if err != nil {
			return nil, nil, err
		}
		return nil, []escrow.Event{ev}, nil
	})
}

// ReviewJob settles on approval or opens a dispute on rejection.
func (s *PGStore) ReviewJob(ctx context.Context, signer, address escrow.Key, approve bool) (escrow.Job, error) {
	return s.applyJob(ctx, address, func(job *escrow.Job, cfg escrow.Config, now time.Time) ([]escrow.Transfer, []escrow.Event, error) {
		return escrow.ApplyReview(job, cfg, signer, approve, now)
	})
}

// TriggerTimeout escalates a past-deadline job to arbitration.
func (s *PGStore) TriggerTimeout(ctx context.Context, signer, address escrow.Key) (escrow.Job, error) {
	return s.applyJob(ctx, address, func(job *escrow.Job, cfg escrow.Config, now time.Time) ([]escrow.Transfer, []escrow.Event, error) {
		ev, err := escrow.ApplyTimeout(job, cfg, signer, now)
		if err != nil {
			return nil, nil, err
		}
		return nil, []escrow.Event{ev}, nil
	})
}

// ResolveDispute settles a disputed job at the ops-chosen payout.
func (s *PGStore) ResolveDispute(ctx context.Context, signer, address escrow.Key, payout uint64, reason string) (escrow.Job, error) {
	return s.applyJob(ctx, address, func(job *escrow.Job, cfg escrow.Config, now time.Time) ([]escrow.Transfer, []escrow.Event, error) {
		return escrow.ApplyResolve(job, cfg, signer, payout, reason, now)
	})
}

// applyJob runs one instruction inside a transaction with the job row
// locked.
func (s *PGStore) applyJob(ctx context.Context, address escrow.Key, apply func(job *escrow.Job, cfg escrow.Config, now time.Time) ([]escrow.Transfer, []escrow.Event, error)) (escrow.Job, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return escrow.Job{}, err
	}
	defer tx.Rollback(ctx)

	cfg, err := s.getConfig(ctx, tx)
	if err != nil {
		return escrow.Job{}, err
	}
	job, err := s.getJob(ctx, tx, address, true)
	if err != nil {
		return escrow.Job{}, err
	}
	transfers, events, err := apply(&job, cfg, time.Now().UTC())
	if err != nil {
		return escrow.Job{}, err
	}
	if err := s.applyTransfers(ctx, tx, transfers); err != nil {
		return escrow.Job{}, err
	}
	if err := s.updateJob(ctx, tx, job); err != nil {
		return escrow.Job{}, err
	}
	if err := s.insertEvents(ctx, tx, events); err != nil {
		return escrow.Job{}, err
	}
	return job, tx.Commit(ctx)
}

// applyTransfers moves lamports between ledger rows, locking each debited
// account and failing the whole instruction on insufficient balance.
func (s *PGStore) applyTransfers(ctx context.Context, tx pgx.Tx, transfers []escrow.Transfer) error {
	for _, t := range transfers {
		var balance int64
		err := tx.QueryRow(ctx, `SELECT lamports FROM escrow_balances WHERE account = $1 FOR UPDATE`, t.From.String()).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			return escrow.ErrInsufficientFunds
		}
		if err != nil {
			return err
		}
		if uint64(balance) < t.Amount {
			return escrow.ErrInsufficientFunds
		}
		if _, err := tx.Exec(ctx, `UPDATE escrow_balances SET lamports = lamports - $1 WHERE account = $2`, int64(t.Amount), t.From.String()); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
INSERT INTO escrow_balances (account, lamports) VALUES ($1,$2)
ON CONFLICT (account) DO UPDATE SET lamports = escrow_balances.lamports + EXCLUDED.lamports
`, t.To.String(), int64(t.Amount))
		if err != nil {
			return err
		}
	}
	return nil
}

// Credit tops up an account balance and returns the new balance.
func (s *PGStore) Credit(ctx context.Context, account escrow.Key, amount uint64) (uint64, error) {
	var balance int64
	err := s.pool.QueryRow(ctx, `
INSERT INTO escrow_balances (account, lamports) VALUES ($1,$2)
ON CONFLICT (account) DO UPDATE SET lamports = escrow_balances.lamports + EXCLUDED.lamports
RETURNING lamports
`, account.String(), int64(amount)).Scan(&balance)
	if err != nil {
		return 0, err
	}
	return uint64(balance), nil
}

// Balance returns the current balance of an account or vault.
func (s *PGStore) Balance(ctx context.Context, account escrow.Key) (uint64, error) {
	var balance int64
	err := s.pool.QueryRow(ctx, `SELECT lamports FROM escrow_balances WHERE account = $1`, account.String()).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return uint64(balance), nil
}

// GetConfig returns the singleton config.
func (s *PGStore) GetConfig(ctx context.Context) (escrow.Config, error) {
	return s.getConfig(ctx, s.pool)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *PGStore) getConfig(ctx context.Context, q rowQuerier) (escrow.Config, error) {
	return scanConfig(q.QueryRow(ctx, `
SELECT admin, ops, treasury, stable_mint, created_at, updated_at
FROM escrow_config WHERE address = $1
`, escrow.ConfigAddress().String()))
}

func (s *PGStore) getConfigForUpdate(ctx context.Context, tx pgx.Tx) (escrow.Config, error) {
	return scanConfig(tx.QueryRow(ctx, `
SELECT admin, ops, treasury, stable_mint, created_at, updated_at
FROM escrow_config WHERE address = $1 FOR UPDATE
`, escrow.ConfigAddress().String()))
}

func scanConfig(row pgx.Row) (escrow.Config, error) {
	var cfg escrow.Config
	var admin, ops, treasury, mint string
	err := row.Scan(&admin, &ops, &treasury, &mint, &cfg.CreatedAt, &cfg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return escrow.Config{}, escrow.ErrConfigNotFound
	}
	if err != nil {
		return escrow.Config{}, err
	}
	if cfg.Admin, err = escrow.ParseKey(admin); err != nil {
		return escrow.Config{}, err
	}
	if cfg.Ops, err = escrow.ParseKey(ops); err != nil {
		return escrow.Config{}, err
	}
	if cfg.Treasury, err = escrow.ParseKey(treasury); err != nil {
		return escrow.Config{}, err
	}
	if mint != "" {
		if cfg.StableMint, err = escrow.ParseKey(mint); err != nil {
			return escrow.Config{}, err
		}
	}
	return cfg, nil
}

// GetJob fetches a job by its derived address.
func (s *PGStore) GetJob(ctx context.Context, address escrow.Key) (escrow.Job, error) {
	return s.getJob(ctx, s.pool, address, false)
}

const jobColumns = `address, job_id, buyer, operator, reward, fee_bps, deadline_at, status,
submission_hash, submission_set, payout, fee_amount, operator_receive, buyer_refund,
created_at, updated_at`

func (s *PGStore) getJob(ctx context.Context, q rowQuerier, address escrow.Key, forUpdate bool) (escrow.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM escrow_jobs WHERE address = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	job, err := scanJob(q.QueryRow(ctx, query, address.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return escrow.Job{}, escrow.ErrJobNotFound
	}
	return job, err
}

func scanJob(row pgx.Row) (escrow.Job, error) {
	var job escrow.Job
	var address, buyer, operator string
	var jobID, reward, payout, feeAmount, operatorReceive, buyerRefund int64
	var feeBps int32
	var deadline *time.Time
	var status int16
	var hash []byte
	err := row.Scan(&address, &jobID, &buyer, &operator, &reward, &feeBps, &deadline, &status,
		&hash, &job.SubmissionSet, &payout, &feeAmount, &operatorReceive, &buyerRefund,
		&job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return escrow.Job{}, err
	}
	if job.Address, err = escrow.ParseKey(address); err != nil {
		return escrow.Job{}, err
	}
	if job.Buyer, err = escrow.ParseKey(buyer); err != nil {
		return escrow.Job{}, err
	}
	if job.Operator, err = escrow.ParseKey(operator); err != nil {
		return escrow.Job{}, err
	}
	job.JobID = uint64(jobID)
	job.Reward = uint64(reward)
	job.FeeBps = uint16(feeBps)
	if deadline != nil {
		job.DeadlineAt = *deadline
	}
	job.Status = escrow.JobStatus(status)
	copy(job.SubmissionHash[:], hash)
	job.Payout = uint64(payout)
	job.FeeAmount = uint64(feeAmount)
	job.OperatorReceive = uint64(operatorReceive)
	job.BuyerRefund = uint64(buyerRefund)
	return job, nil
}

// execer covers both the pool and an open transaction.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *PGStore) insertJob(ctx context.Context, q execer, job escrow.Job) error {
	_, err := q.Exec(ctx, `
INSERT INTO escrow_jobs (`+jobColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
`, job.Address.String(), int64(job.JobID), job.Buyer.String(), job.Operator.String(),
		int64(job.Reward), int32(job.FeeBps), deadlineArg(job), int16(job.Status),
		job.SubmissionHash[:], job.SubmissionSet, int64(job.Payout), int64(job.FeeAmount),
		int64(job.OperatorReceive), int64(job.BuyerRefund), job.CreatedAt, job.UpdatedAt)
	return err
}

func (s *PGStore) updateJob(ctx context.Context, tx pgx.Tx, job escrow.Job) error {
	_, err := tx.Exec(ctx, `
UPDATE escrow_jobs SET status = $1, submission_hash = $2, submission_set = $3,
payout = $4, fee_amount = $5, operator_receive = $6, buyer_refund = $7, updated_at = $8
WHERE address = $9
`, int16(job.Status), job.SubmissionHash[:], job.SubmissionSet, int64(job.Payout),
		int64(job.FeeAmount), int64(job.OperatorReceive), int64(job.BuyerRefund),
		job.UpdatedAt, job.Address.String())
	return err
}

func (s *PGStore) insertEvents(ctx context.Context, tx pgx.Tx, events []escrow.Event) error {
	for _, ev := range events {
		var payout, feeAmount, operatorReceive, buyerRefund *int64
		if ev.Amounts != nil {
			payout = int64Ptr(ev.Amounts.Payout)
			feeAmount = int64Ptr(ev.Amounts.FeeAmount)
			operatorReceive = int64Ptr(ev.Amounts.OperatorReceive)
			buyerRefund = int64Ptr(ev.Amounts.BuyerRefund)
		}
		_, err := tx.Exec(ctx, `
INSERT INTO escrow_events (id, type, job, job_id, actor, prev_status, new_status,
payout, fee_amount, operator_receive, buyer_refund, reward, reason, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
`, ev.ID, string(ev.Type), keyText(ev.Job), int64(ev.JobID), ev.Actor.String(),
			ev.PrevStatus, ev.NewStatus, payout, feeAmount, operatorReceive, buyerRefund,
			int64(ev.Reward), ev.Reason, ev.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

// ListJobs returns jobs matching the filter, oldest first.
func (s *PGStore) ListJobs(ctx context.Context, filter escrow.JobFilter) ([]escrow.Job, error) {
	status := -1
	if filter.Status != nil {
		status = int(*filter.Status)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.pool.Query(ctx, `
SELECT `+jobColumns+` FROM escrow_jobs
WHERE ($1 = '' OR buyer = $1)
  AND ($2 = '' OR operator = $2)
  AND ($3 < 0 OR status = $3)
ORDER BY created_at, job_id
LIMIT $4 OFFSET $5
`, keyText(filter.Buyer), keyText(filter.Operator), status, limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []escrow.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

// ListEvents returns audit events in append order.
func (s *PGStore) ListEvents(ctx context.Context, filter escrow.EventFilter) ([]escrow.Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 1000
	}
	rows, err := s.pool.Query(ctx, `
SELECT id, type, job, job_id, actor, prev_status, new_status,
       payout, fee_amount, operator_receive, buyer_refund, reward, reason, created_at
FROM escrow_events
WHERE ($1 = '' OR job = $1)
  AND ($2 = '' OR type = $2)
ORDER BY seq
LIMIT $3 OFFSET $4
`, keyText(filter.Job), string(filter.Type), limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []escrow.Event
	for rows.Next() {
		var ev escrow.Event
		var job, actor, prevStatus, newStatus, reason *string
		var jobID, reward *int64
		var payout, feeAmount, operatorReceive, buyerRefund *int64
		var evType string
		err := rows.Scan(&ev.ID, &evType, &job, &jobID, &actor, &prevStatus, &newStatus,
			&payout, &feeAmount, &operatorReceive, &buyerRefund, &reward, &reason, &ev.CreatedAt)
		if err != nil {
			return nil, err
		}
		ev.Type = escrow.EventType(evType)
		if job != nil && *job != "" {
			if ev.Job, err = escrow.ParseKey(*job); err != nil {
				return nil, err
			}
		}
		if jobID != nil {
			ev.JobID = uint64(*jobID)
		}
		if actor != nil {
			if ev.Actor, err = escrow.ParseKey(*actor); err != nil {
				return nil, err
			}
		}
		if prevStatus != nil {
			ev.PrevStatus = *prevStatus
		}
		if newStatus != nil {
			ev.NewStatus = *newStatus
		}
		if payout != nil {
			ev.Amounts = &escrow.Settlement{
				Payout:          uint64(*payout),
				FeeAmount:       uint64(*feeAmount),
				OperatorReceive: uint64(*operatorReceive),
				BuyerRefund:     uint64(*buyerRefund),
			}
		}
		if reward != nil {
			ev.Reward = uint64(*reward)
		}
		if reason != nil {
			ev.Reason = *reason
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func deadlineArg(job escrow.Job) *time.Time {
	if !job.HasDeadline() {
		return nil
	}
	d := job.DeadlineAt
	return &d
}

func keyText(k escrow.Key) string {
	if k.IsZero() {
		return ""
	}
	return k.String()
}

func int64Ptr(v uint64) *int64 {
	signed := int64(v)
	return &signed
}

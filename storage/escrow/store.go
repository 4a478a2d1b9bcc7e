package escrow

import (
	"context"

	"github.com/c4stleone/SOLHeaven/core/escrow"
)

// Store executes escrow instructions atomically against a backing ledger.
// Each instruction either fully commits (record mutation, fund movement,
// event append) or leaves no trace. Implementations: MemoryStore for tests
// and single-process runs, PGStore for Postgres deployments.
type Store interface {
	// Instruction surface.
	InitializeConfig(ctx context.Context, admin, ops, treasury, stableMint escrow.Key) (escrow.Config, error)
	UpdateOps(ctx context.Context, signer, newOps escrow.Key) (escrow.Config, error)
	CreateJob(ctx context.Context, buyer escrow.Key, params escrow.CreateJobParams) (escrow.Job, error)
	FundJob(ctx context.Context, signer, job escrow.Key) (escrow.Job, error)
	SubmitResult(ctx context.Context, signer, job escrow.Key, submissionHash [32]byte) (escrow.Job, error)
	ReviewJob(ctx context.Context, signer, job escrow.Key, approve bool) (escrow.Job, error)
	TriggerTimeout(ctx context.Context, signer, job escrow.Key) (escrow.Job, error)
	ResolveDispute(ctx context.Context, signer, job escrow.Key, payout uint64, reason string) (escrow.Job, error)

	// Ledger access for the excluded payment rails.
	Credit(ctx context.Context, account escrow.Key, amount uint64) (uint64, error)
	Balance(ctx context.Context, account escrow.Key) (uint64, error)

	// Read accessors.
	GetConfig(ctx context.Context) (escrow.Config, error)
	GetJob(ctx context.Context, address escrow.Key) (escrow.Job, error)
	ListJobs(ctx context.Context, filter escrow.JobFilter) ([]escrow.Job, error)
	ListEvents(ctx context.Context, filter escrow.EventFilter) ([]escrow.Event, error)

	Close()
}

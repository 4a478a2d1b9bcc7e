package escrow

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/c4stleone/SOLHeaven/core/escrow"
)

// MemoryStore holds escrow state in memory with proper concurrency control.
// The single mutex makes every instruction atomic across the job record,
// the balance ledger, and the event log, matching the all-or-nothing
// commit the Postgres store gets from transactions.
type MemoryStore struct {
	mu       sync.RWMutex
	config   *escrow.Config
	jobs     map[escrow.Key]escrow.Job
	balances map[escrow.Key]uint64
	events   []escrow.Event
	now      func() time.Time
}

// NewMemoryStore returns an empty MemoryStore, optionally seeded with demo
// fixtures.
func NewMemoryStore(seed bool) *MemoryStore {
	s := &MemoryStore{
		jobs:     make(map[escrow.Key]escrow.Job),
		balances: make(map[escrow.Key]uint64),
		now:      time.Now,
	}
	if seed {
		cfg, jobs, balances := SeedData()
		s.config = &cfg
		for _, j := range jobs {
			s.jobs[j.Address] = j
		}
		for k, v := range balances {
			s.balances[k] = v
		}
	}
	return s
}

// InitializeConfig bootstraps the singleton config. A second call fails.
func (s *MemoryStore) InitializeConfig(_ context.Context, admin, ops, treasury, stableMint escrow.Key) (escrow.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config != nil {
		return escrow.Config{}, escrow.ErrConfigExists
	}
	cfg, ev := escrow.NewConfig(admin, ops, treasury, stableMint, s.now())
	s.config = &cfg
	s.events = append(s.events, ev)
	return cfg, nil
}

// UpdateOps rotates the arbitration identity. Admin only.
func (s *MemoryStore) UpdateOps(_ context.Context, signer, newOps escrow.Key) (escrow.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		return escrow.Config{}, escrow.ErrConfigNotFound
	}
	cfg := *s.config
	ev, err := escrow.ApplyUpdateOps(&cfg, signer, newOps, s.now())
	if err != nil {
		return escrow.Config{}, err
	}
	s.config = &cfg
	s.events = append(s.events, ev)
	return cfg, nil
}

// CreateJob allocates the job record at its derived address. Re-creating
// the same (buyer, jobID) fails because the slot is occupied.
func (s *MemoryStore) CreateJob(_ context.Context, buyer escrow.Key, params escrow.CreateJobParams) (escrow.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		return escrow.Job{}, escrow.ErrConfigNotFound
	}
	address := escrow.JobAddress(buyer, params.JobID)
	if _, ok := s.jobs[address]; ok {
		return escrow.Job{}, escrow.ErrJobExists
	}
	job, ev, err := escrow.NewJob(buyer, params, s.now())
	if err != nil {
		return escrow.Job{}, err
	}
	s.jobs[address] = job
	s.events = append(s.events, ev)
	return job, nil
}

// FundJob moves the reward from the buyer's balance into the job vault.
func (s *MemoryStore) FundJob(_ context.Context, signer, address escrow.Key) (escrow.Job, error) {
	return s.applyJob(address, func(job *escrow.Job, _ escrow.Config, now time.Time) ([]escrow.Transfer, []escrow.Event, error) {
		transfer, ev, err := escrow.ApplyFund(job, signer, now)
		if err != nil {
			return nil, nil, err
		}
		return []escrow.Transfer{transfer}, []escrow.Event{ev}, nil
	})
}

// SubmitResult records the operator's submission hash.
func (s *MemoryStore) SubmitResult(_ context.Context, signer, address escrow.Key, submissionHash [32]byte) (escrow.Job, error) {
	return s.applyJob(address, func(job *escrow.Job, _ escrow.Config, now time.Time) ([]escrow.Transfer, []escrow.Event, error) {
		ev, err := escrow.ApplySubmit(job, signer, submissionHash, now)
		if err != nil {
			return nil, nil, err
		}
		return nil, []escrow.Event{ev}, nil
	})
}

// ReviewJob settles on approval or opens a dispute on rejection.
func (s *MemoryStore) ReviewJob(_ context.Context, signer, address escrow.Key, approve bool) (escrow.Job, error) {
	return s.applyJob(address, func(job *escrow.Job, cfg escrow.Config, now time.Time) ([]escrow.Transfer, []escrow.Event, error) {
		return escrow.ApplyReview(job, cfg, signer, approve, now)
	})
}

// TriggerTimeout escalates a past-deadline job to arbitration.
func (s *MemoryStore) TriggerTimeout(_ context.Context, signer, address escrow.Key) (escrow.Job, error) {
	return s.applyJob(address, func(job *escrow.Job, cfg escrow.Config, now time.Time) ([]escrow.Transfer, []escrow.Event, error) {
		ev, err := escrow.ApplyTimeout(job, cfg, signer, now)
		if err != nil {
			return nil, nil, err
		}
		return nil, []escrow.Event{ev}, nil
	})
}

// ResolveDispute settles a disputed job at the ops-chosen payout.
func (s *MemoryStore) ResolveDispute(_ context.Context, signer, address escrow.Key, payout uint64, reason string) (escrow.Job, error) {
	return s.applyJob(address, func(job *escrow.Job, cfg escrow.Config, now time.Time) ([]escrow.Transfer, []escrow.Event, error) {
		return escrow.ApplyResolve(job, cfg, signer, payout, reason, now)
	})
}

// applyJob runs one instruction to completion under the write lock. The
// transition works on a copy; nothing is committed until the transfers have
// cleared against the balance ledger.
func (s *MemoryStore) applyJob(address escrow.Key, apply func(job *escrow.Job, cfg escrow.Config, now time.Time) ([]escrow.Transfer, []escrow.Event, error)) (escrow.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		return escrow.Job{}, escrow.ErrConfigNotFound
	}
	job, ok := s.jobs[address]
	if !ok {
		return escrow.Job{}, escrow.ErrJobNotFound
	}
	transfers, events, err := apply(&job, *s.config, s.now())
	if err != nil {
		return escrow.Job{}, err
	}
	next, err := s.settleTransfers(transfers)
	if err != nil {
		return escrow.Job{}, err
	}
	for k, v := range next {
		s.balances[k] = v
	}
	s.jobs[address] = job
	s.events = append(s.events, events...)
	return job, nil
}

// settleTransfers validates all fund movements against current balances and
// returns the resulting balance changes without applying them.
func (s *MemoryStore) settleTransfers(transfers []escrow.Transfer) (map[escrow.Key]uint64, error) {
	next := make(map[escrow.Key]uint64)
	get := func(k escrow.Key) uint64 {
		if v, ok := next[k]; ok {
			return v
		}
		return s.balances[k]
	}
	for _, t := range transfers {
		from := get(t.From)
		if from < t.Amount {
			return nil, escrow.ErrInsufficientFunds
		}
		next[t.From] = from - t.Amount
		next[t.To] = get(t.To) + t.Amount
	}
	return next, nil
}

// Credit tops up an account balance and returns the new balance.
func (s *MemoryStore) Credit(_ context.Context, account escrow.Key, amount uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[account] += amount
	return s.balances[account], nil
}

// Balance returns the current balance of an account or vault.
func (s *MemoryStore) Balance(_ context.Context, account escrow.Key) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[account], nil
}

// GetConfig returns the singleton config.
func (s *MemoryStore) GetConfig(_ context.Context) (escrow.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil {
		return escrow.Config{}, escrow.ErrConfigNotFound
	}
	return *s.config, nil
}

// GetJob fetches a job by its derived address.
func (s *MemoryStore) GetJob(_ context.Context, address escrow.Key) (escrow.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[address]
	if !ok {
		return escrow.Job{}, escrow.ErrJobNotFound
	}
	return job, nil
}

// ListJobs returns jobs matching the filter, oldest first.
func (s *MemoryStore) ListJobs(_ context.Context, filter escrow.JobFilter) ([]escrow.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]escrow.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		if !filter.Buyer.IsZero() && j.Buyer != filter.Buyer {
			continue
		}
		if !filter.Operator.IsZero() && j.Operator != filter.Operator {
			continue
		}
		if filter.Status != nil && j.Status != *filter.Status {
			continue
		}
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool {
		if out[i].CreatedAt.Equal(out[k].CreatedAt) {
			return out[i].JobID < out[k].JobID
		}
		return out[i].CreatedAt.Before(out[k].CreatedAt)
	})
	return paginate(out, filter.Offset, filter.Limit), nil
}

// ListEvents returns audit events in append order.
func (s *MemoryStore) ListEvents(_ context.Context, filter escrow.EventFilter) ([]escrow.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]escrow.Event, 0, len(s.events))
	for _, ev := range s.events {
		if !filter.Job.IsZero() && ev.Job != filter.Job {
			continue
		}
		if filter.Type != "" && ev.Type != filter.Type {
			continue
		}
		out = append(out, ev)
	}
	return paginate(out, filter.Offset, filter.Limit), nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() {}

func paginate[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return []T{}
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

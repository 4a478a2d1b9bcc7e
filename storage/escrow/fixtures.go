package escrow

import (
	"time"

	"github.com/c4stleone/SOLHeaven/core/escrow"
)

// DemoKey derives a stable throwaway key for local runs and examples.
func DemoKey(name string) escrow.Key {
	return escrow.DeriveKey([]byte("demo"), []byte(name))
}

// SeedData returns demo fixtures for the memory driver: a bootstrapped
// config, a funded job awaiting submission, an unfunded job, and starting
// balances for the demo buyer.
func SeedData() (escrow.Config, []escrow.Job, map[escrow.Key]uint64) {
	now := time.Now().UTC()
	admin := DemoKey("admin")
	ops := DemoKey("ops")
	treasury := DemoKey("treasury")
	buyer := DemoKey("buyer")
	operator := DemoKey("operator")

	cfg := escrow.Config{
		Admin:     admin,
		Ops:       ops,
		Treasury:  treasury,
		CreatedAt: now,
		UpdatedAt: now,
	}

	funded := escrow.Job{
		Address:    escrow.JobAddress(buyer, 1),
		JobID:      1,
		Buyer:      buyer,
		Operator:   operator,
		Reward:     1_000_000,
		FeeBps:     100,
		DeadlineAt: now.Add(72 * time.Hour),
		Status:     escrow.StatusFunded,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	created := escrow.Job{
		Address:   escrow.JobAddress(buyer, 2),
		JobID:     2,
		Buyer:     buyer,
		Operator:  operator,
		Reward:    250_000,
		FeeBps:    250,
		Status:    escrow.StatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}

	balances := map[escrow.Key]uint64{
		buyer:          5_000_000,
		funded.Address: funded.Reward,
	}

	return cfg, []escrow.Job{funded, created}, balances
}

package escrow

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestSettle(t *testing.T) {
	cases := []struct {
		name    string
		reward  uint64
		feeBps  uint16
		payout  uint64
		want    Settlement
		wantErr error
	}{
		{
			name:   "full approval",
			reward: 1_000_000, feeBps: 100, payout: 1_000_000,
			want: Settlement{Payout: 1_000_000, FeeAmount: 10_000, OperatorReceive: 990_000, BuyerRefund: 0},
		},
		{
			name:   "partial payout",
			reward: 1_000_000, feeBps: 100, payout: 600_000,
			want: Settlement{Payout: 600_000, FeeAmount: 6_000, OperatorReceive: 594_000, BuyerRefund: 400_000},
		},
		{
			name:   "zero payout refunds everything",
			reward: 1_000_000, feeBps: 100, payout: 0,
			want: Settlement{Payout: 0, FeeAmount: 0, OperatorReceive: 0, BuyerRefund: 1_000_000},
		},
		{
			name:   "zero fee",
			reward: 500, feeBps: 0, payout: 500,
			want: Settlement{Payout: 500, FeeAmount: 0, OperatorReceive: 500, BuyerRefund: 0},
		},
		{
			name:   "max fee takes the whole payout",
			reward: 500, feeBps: 10_000, payout: 500,
			want: Settlement{Payout: 500, FeeAmount: 500, OperatorReceive: 0, BuyerRefund: 0},
		},
		{
			name:   "fee floor division",
			reward: 999, feeBps: 100, payout: 999,
			want: Settlement{Payout: 999, FeeAmount: 9, OperatorReceive: 990, BuyerRefund: 0},
		},
		{
			name:   "payout above reward",
			reward: 100, feeBps: 100, payout: 101,
			wantErr: ErrInvalidPayout,
		},
		{
			name:   "fee bps above max",
			reward: 100, feeBps: 10_001, payout: 100,
			wantErr: ErrInvalidFeeBps,
		},
		{
			name:   "fee multiplication overflow",
			reward: math.MaxUint64, feeBps: 2, payout: math.MaxUint64,
			wantErr: ErrMathOverflow,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Settle(tc.reward, tc.feeBps, tc.payout)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Settle() error = %v, want %v", err, tc.wantErr)
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("expected a validation-class error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Settle() unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Settle() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestSettleConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10_000; i++ {
		reward := rng.Uint64() % 10_000_000_000
		feeBps := uint16(rng.Intn(MaxFeeBps + 1))
		var payout uint64
		if reward > 0 {
			payout = rng.Uint64() % (reward + 1)
		}
		got, err := Settle(reward, feeBps, payout)
		if err != nil {
			t.Fatalf("Settle(%d, %d, %d) unexpected error: %v", reward, feeBps, payout, err)
		}
		if sum := got.FeeAmount + got.OperatorReceive + got.BuyerRefund; sum != reward {
			t.Fatalf("conservation violated: Settle(%d, %d, %d) shares sum to %d", reward, feeBps, payout, sum)
		}
	}
}

package escrow

import "math"

// Settlement is the three-way split of an escrowed reward.
type Settlement struct {
	Payout          uint64 `json:"payout"`
	FeeAmount       uint64 `json:"fee_amount"`
	OperatorReceive uint64 `json:"operator_receive"`
	BuyerRefund     uint64 `json:"buyer_refund"`
}

// Settle splits reward into protocol fee, operator payout, and buyer refund
// for a chosen payout. FeeAmount + OperatorReceive + BuyerRefund always
// equals reward exactly; the fee floor division loses nothing because the
// remainder stays with the operator.
func Settle(reward uint64, feeBps uint16, payout uint64) (Settlement, error) {
	if feeBps > MaxFeeBps {
		return Settlement{}, ErrInvalidFeeBps
	}
	if payout > reward {
		return Settlement{}, ErrInvalidPayout
	}
	if feeBps > 0 && payout > math.MaxUint64/uint64(feeBps) {
		return Settlement{}, ErrMathOverflow
	}
	feeAmount := payout * uint64(feeBps) / MaxFeeBps
	return Settlement{
		Payout:          payout,
		FeeAmount:       feeAmount,
		OperatorReceive: payout - feeAmount,
		BuyerRefund:     reward - payout,
	}, nil
}

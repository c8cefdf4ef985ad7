package feeledger

import (
	"fmt"

	"edupay-backend/internal/money"
)

// RejectionReason classifies why a proposed payment was refused.
type RejectionReason string

const (
	// NonPositiveAmount: the proposed amount was zero or negative.
	NonPositiveAmount RejectionReason = "NON_POSITIVE_AMOUNT"
	// ExceedsOutstandingBalance: the amount is larger than what is owed.
	ExceedsOutstandingBalance RejectionReason = "EXCEEDS_OUTSTANDING_BALANCE"
)

// Rejection is a business-rule refusal of a proposed payment. It is a
// normal negative result, not a fault; it carries the balance due at the
// time of the check so callers can show "exceeds remaining due of X".
type Rejection struct {
	Reason     RejectionReason `json:"reason"`
	BalanceDue money.Amount    `json:"balance_due"`
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case NonPositiveAmount:
		return "payment amount must be greater than zero"
	case ExceedsOutstandingBalance:
		return fmt.Sprintf("payment amount exceeds the remaining balance of %s", r.BalanceDue)
	default:
		return string(r.Reason)
	}
}

// ValidatePayment checks a proposed amount against the current balance
// due. It runs synchronously before any mutation, has no side effects,
// and consults nothing beyond its arguments.
//
// An amount equal to the balance due is accepted and pays the account to
// exactly zero. The collected amount may never exceed what is owed, even
// by a single paisa, so once the balance is zero or negative every
// positive amount is refused.
func ValidatePayment(amount, balanceDue money.Amount) *Rejection {
	if amount <= 0 {
		return &Rejection{Reason: NonPositiveAmount, BalanceDue: balanceDue}
	}
	if amount > balanceDue {
		return &Rejection{Reason: ExceedsOutstandingBalance, BalanceDue: balanceDue}
	}
	return nil
}

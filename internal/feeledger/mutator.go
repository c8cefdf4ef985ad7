package feeledger

import (
	"edupay-backend/internal/models"
	"edupay-backend/internal/money"
)

// ApplyPayment validates payment.Amount against the student's pre-payment
// balance and, on acceptance, returns a copy of the student with the
// amount added to TotalPaid and the status recomputed. The input student
// is not modified.
//
// The returned error is always a *Rejection. Callers that skip this
// function and bump TotalPaid directly are breaking the ledger
// consistency contract, not handling a runtime condition.
func ApplyPayment(student *models.Student, structures []*models.FeeStructure, payment *models.PaymentRecord) (*models.Student, error) {
	snapshot := ComputeBalance(student, structures)
	if rej := ValidatePayment(payment.Amount, snapshot.BalanceDue); rej != nil {
		return nil, rej
	}

	updated := *student
	updated.TotalPaid = student.TotalPaid + payment.Amount
	updated.Status = StatusFor(updated.TotalPaid, snapshot.NetPayable)
	return &updated, nil
}

// Reprice recomputes a student's status after an administrative change to
// discount or previous-year dues. TotalPaid is left untouched: no payment
// is implied, only the derived status moves.
func Reprice(student *models.Student, structures []*models.FeeStructure) *models.Student {
	updated := *student
	snapshot := ComputeBalance(&updated, structures)
	updated.Status = StatusFor(updated.TotalPaid, snapshot.NetPayable)
	return &updated
}

// ApplyDiscount returns a copy of the student with the new discount and a
// recomputed status against the existing TotalPaid.
func ApplyDiscount(student *models.Student, structures []*models.FeeStructure, newDiscount money.Amount) *models.Student {
	updated := *student
	updated.Discount = newDiscount
	return Reprice(&updated, structures)
}

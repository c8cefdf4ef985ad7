// Package feeledger holds the fee balance arithmetic and payment
// acceptance rules. Everything in it is pure: functions operate only on
// the values passed in, perform no I/O, and hold no package state, so the
// same inputs always produce the same outputs. Locking, transactions and
// persistence around these rules belong to the service layer.
package feeledger

import (
	"edupay-backend/internal/models"
	"edupay-backend/internal/money"
)

// BalanceSnapshot is the derived financial position of one student.
type BalanceSnapshot struct {
	GrossTotal money.Amount `json:"gross_total"` // structure total + previous year dues
	NetPayable money.Amount `json:"net_payable"` // gross total - discount
	BalanceDue money.Amount `json:"balance_due"` // net payable - total paid; negative = overpaid
}

// DueForDisplay returns the balance due floored at zero. UI badges use
// this; the underlying ledger value stays unclamped.
func (b BalanceSnapshot) DueForDisplay() money.Amount {
	return b.BalanceDue.ClampZero()
}

// MatchStructure finds the fee structure for the student's class and
// academic year. Both must match; a same-named class from another session
// never applies. A nil return is not an error: schools may genuinely run
// classes without a fee schedule.
func MatchStructure(student *models.Student, structures []*models.FeeStructure) *models.FeeStructure {
	for _, s := range structures {
		if s.ClassName == student.ClassName && s.AcademicYear == student.AcademicYear {
			return s
		}
	}
	return nil
}

// ComputeBalance derives the student's balance snapshot against the given
// structures. A missing structure contributes a zero total.
func ComputeBalance(student *models.Student, structures []*models.FeeStructure) BalanceSnapshot {
	var structureTotal money.Amount
	if s := MatchStructure(student, structures); s != nil {
		structureTotal = s.Total
	}

	gross := structureTotal + student.PreviousYearDues
	net := gross - student.Discount
	due := net - student.TotalPaid

	return BalanceSnapshot{
		GrossTotal: gross,
		NetPayable: net,
		BalanceDue: due,
	}
}

// StatusFor derives the fee status from the paid amount and net payable.
// Paying exactly to zero counts as PAID, never PARTIAL.
func StatusFor(totalPaid, netPayable money.Amount) models.FeeStatus {
	switch {
	case totalPaid >= netPayable:
		return models.FeeStatusPaid
	case totalPaid > 0:
		return models.FeeStatusPartial
	default:
		return models.FeeStatusUnpaid
	}
}

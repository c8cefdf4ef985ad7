package feeledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupay-backend/internal/models"
	"edupay-backend/internal/money"
)

func payment(amount money.Amount) *models.PaymentRecord {
	return &models.PaymentRecord{
		StudentID:   "st-1",
		Amount:      amount,
		PaymentType: models.PaymentTypePart,
		Method:      models.PaymentMethodCash,
		ReceivedBy:  "John Admin",
	}
}

func TestApplyPaymentExactBalance(t *testing.T) {
	structures := []*models.FeeStructure{class10Structure()}

	updated, err := ApplyPayment(aliceStudent(), structures, payment(money.FromRupees(17000)))
	require.NoError(t, err)

	assert.Equal(t, money.FromRupees(27000), updated.TotalPaid)
	assert.Equal(t, models.FeeStatusPaid, updated.Status)

	snap := ComputeBalance(updated, structures)
	assert.Equal(t, money.Zero, snap.BalanceDue)
}

func TestApplyPaymentDoesNotMutateInput(t *testing.T) {
	student := aliceStudent()
	structures := []*models.FeeStructure{class10Structure()}

	_, err := ApplyPayment(student, structures, payment(money.FromRupees(5000)))
	require.NoError(t, err)

	assert.Equal(t, money.FromRupees(10000), student.TotalPaid)
	assert.Equal(t, models.FeeStatusPartial, student.Status)
}

func TestApplyPaymentRejectsOverpayment(t *testing.T) {
	student := aliceStudent()
	structures := []*models.FeeStructure{class10Structure()}

	updated, err := ApplyPayment(student, structures, payment(money.FromRupees(17001)))
	require.Error(t, err)
	assert.Nil(t, updated)

	var rej *Rejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, ExceedsOutstandingBalance, rej.Reason)
	assert.Equal(t, money.FromRupees(17000), rej.BalanceDue)

	// Pre-payment state is untouched by the rejection.
	assert.Equal(t, money.FromRupees(10000), student.TotalPaid)
}

func TestApplyPaymentRejectsNonPositive(t *testing.T) {
	structures := []*models.FeeStructure{class10Structure()}

	for _, amount := range []money.Amount{0, money.FromRupees(-50)} {
		_, err := ApplyPayment(aliceStudent(), structures, payment(amount))
		var rej *Rejection
		require.True(t, errors.As(err, &rej))
		assert.Equal(t, NonPositiveAmount, rej.Reason)
	}
}

func TestApplyPaymentSequence(t *testing.T) {
	student := aliceStudent()
	structures := []*models.FeeStructure{class10Structure()}

	// 5000 then 12000 against a due of 17000: both accepted.
	first, err := ApplyPayment(student, structures, payment(money.FromRupees(5000)))
	require.NoError(t, err)
	assert.Equal(t, models.FeeStatusPartial, first.Status)

	second, err := ApplyPayment(first, structures, payment(money.FromRupees(12000)))
	require.NoError(t, err)
	assert.Equal(t, models.FeeStatusPaid, second.Status)
	assert.Equal(t, money.FromRupees(27000), second.TotalPaid)

	// The account is settled; any further positive amount is refused.
	_, err = ApplyPayment(second, structures, payment(1))
	var rej *Rejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, ExceedsOutstandingBalance, rej.Reason)
}

func TestAcceptedPaymentsConserveLedger(t *testing.T) {
	student := aliceStudent()
	student.TotalPaid = 0
	student.Status = models.FeeStatusUnpaid
	structures := []*models.FeeStructure{class10Structure()}

	amounts := []money.Amount{
		money.FromRupees(1000),
		money.FromRupees(2500),
		money.FromRupees(9999) + 50, // 9999.50: paise amounts stay exact
		money.FromRupees(13500) + 50,
	}

	var ledgerSum money.Amount
	current := student
	for _, amt := range amounts {
		snapBefore := ComputeBalance(current, structures)

		updated, err := ApplyPayment(current, structures, payment(amt))
		require.NoError(t, err)

		// No accepted payment may exceed the pre-payment balance due.
		assert.True(t, amt <= snapBefore.BalanceDue)
		ledgerSum += amt
		assert.Equal(t, ledgerSum, updated.TotalPaid)
		current = updated
	}

	assert.Equal(t, money.FromRupees(27000), current.TotalPaid)
	assert.Equal(t, models.FeeStatusPaid, current.Status)
	assert.Equal(t, money.Zero, ComputeBalance(current, structures).BalanceDue)
}

func TestStatusNeverRegressesAcrossPayments(t *testing.T) {
	student := aliceStudent()
	student.TotalPaid = 0
	student.Status = models.FeeStatusUnpaid
	structures := []*models.FeeStructure{class10Structure()}

	rank := map[models.FeeStatus]int{
		models.FeeStatusUnpaid:  0,
		models.FeeStatusPartial: 1,
		models.FeeStatusPaid:    2,
	}

	current := student
	lastRank := rank[current.Status]
	for _, amt := range []money.Amount{money.FromRupees(100), money.FromRupees(400), money.FromRupees(26500)} {
		updated, err := ApplyPayment(current, structures, payment(amt))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rank[updated.Status], lastRank)
		lastRank = rank[updated.Status]
		current = updated
	}
	assert.Equal(t, models.FeeStatusPaid, current.Status)
}

func TestApplyDiscountRecomputesStatus(t *testing.T) {
	student := aliceStudent() // paid 10000 of net 27000
	structures := []*models.FeeStructure{class10Structure()}

	// Raising the discount so that net payable drops to the amount
	// already paid flips the student to PAID without any payment.
	updated := ApplyDiscount(student, structures, money.FromRupees(17500))

	assert.Equal(t, money.FromRupees(10000), updated.TotalPaid)
	assert.Equal(t, models.FeeStatusPaid, updated.Status)

	// And lowering it back regresses the status derivation (admin
	// adjustments are not payments, monotonicity does not apply).
	reverted := ApplyDiscount(updated, structures, money.FromRupees(500))
	assert.Equal(t, models.FeeStatusPartial, reverted.Status)
}

func TestRepriceAfterDuesAdjustment(t *testing.T) {
	student := aliceStudent()
	student.TotalPaid = money.FromRupees(27000)
	student.Status = models.FeeStatusPaid
	structures := []*models.FeeStructure{class10Structure()}

	student.PreviousYearDues = money.FromRupees(5000)
	updated := Reprice(student, structures)

	assert.Equal(t, models.FeeStatusPartial, updated.Status)
	assert.Equal(t, money.FromRupees(2500), ComputeBalance(updated, structures).BalanceDue)
}

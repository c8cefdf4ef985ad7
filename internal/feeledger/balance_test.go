package feeledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupay-backend/internal/models"
	"edupay-backend/internal/money"
)

func class10Structure() *models.FeeStructure {
	return &models.FeeStructure{
		ID:           "fs-1",
		ClassName:    "Class 10",
		AcademicYear: "2024-25",
		Components: []models.FeeComponent{
			{Name: "Tuition Fee", Amount: money.FromRupees(15000)},
			{Name: "Lab Fee", Amount: money.FromRupees(5000)},
			{Name: "Library Fee", Amount: money.FromRupees(2000)},
			{Name: "Sports Fee", Amount: money.FromRupees(3000)},
		},
		Total: money.FromRupees(25000),
	}
}

func aliceStudent() *models.Student {
	return &models.Student{
		ID:               "st-1",
		RollNo:           "1001",
		Name:             "Alice Johnson",
		ClassName:        "Class 10",
		AcademicYear:     "2024-25",
		PreviousYearDues: money.FromRupees(2500),
		Discount:         money.FromRupees(500),
		TotalPaid:        money.FromRupees(10000),
		Status:           models.FeeStatusPartial,
	}
}

func TestComputeBalance(t *testing.T) {
	structures := []*models.FeeStructure{class10Structure()}

	snap := ComputeBalance(aliceStudent(), structures)

	assert.Equal(t, money.FromRupees(27500), snap.GrossTotal)
	assert.Equal(t, money.FromRupees(27000), snap.NetPayable)
	assert.Equal(t, money.FromRupees(17000), snap.BalanceDue)
}

func TestComputeBalanceIsDeterministic(t *testing.T) {
	student := aliceStudent()
	structures := []*models.FeeStructure{class10Structure()}

	first := ComputeBalance(student, structures)
	second := ComputeBalance(student, structures)

	assert.Equal(t, first, second)
	// Inputs must not be mutated by the computation.
	assert.Equal(t, money.FromRupees(10000), student.TotalPaid)
}

func TestComputeBalanceMissingStructure(t *testing.T) {
	student := aliceStudent()
	student.ClassName = "Class 7" // no structure exists for this class
	structures := []*models.FeeStructure{class10Structure()}

	snap := ComputeBalance(student, structures)

	// Missing structure is not an error: total is treated as zero.
	assert.Equal(t, money.FromRupees(2500), snap.GrossTotal)
	assert.Equal(t, money.FromRupees(2000), snap.NetPayable)
	assert.Equal(t, money.FromRupees(-8000), snap.BalanceDue)
}

func TestComputeBalanceNeverMatchesAcrossSessions(t *testing.T) {
	student := aliceStudent()
	student.AcademicYear = "2025-26"

	// Same class name, previous session. Must not match.
	structures := []*models.FeeStructure{class10Structure()}

	require.Nil(t, MatchStructure(student, structures))

	snap := ComputeBalance(student, structures)
	assert.Equal(t, money.FromRupees(2500), snap.GrossTotal)
}

func TestComputeBalanceNegativeNetPayable(t *testing.T) {
	student := aliceStudent()
	student.Discount = money.FromRupees(30000) // exceeds gross
	student.TotalPaid = 0

	snap := ComputeBalance(student, []*models.FeeStructure{class10Structure()})

	// Ledger values stay unclamped; only the display accessor floors.
	assert.Equal(t, money.FromRupees(-2500), snap.NetPayable)
	assert.Equal(t, money.FromRupees(-2500), snap.BalanceDue)
	assert.Equal(t, money.Zero, snap.DueForDisplay())
}

func TestComputeBalanceOverpaymentIsVisible(t *testing.T) {
	student := aliceStudent()
	student.TotalPaid = money.FromRupees(28000)

	snap := ComputeBalance(student, []*models.FeeStructure{class10Structure()})

	assert.Equal(t, money.FromRupees(-1000), snap.BalanceDue)
	assert.Equal(t, money.Zero, snap.DueForDisplay())
}

func TestStatusFor(t *testing.T) {
	net := money.FromRupees(27000)

	tests := []struct {
		name      string
		totalPaid money.Amount
		want      models.FeeStatus
	}{
		{"nothing paid", 0, models.FeeStatusUnpaid},
		{"partially paid", money.FromRupees(100), models.FeeStatusPartial},
		{"one paisa short", net - 1, models.FeeStatusPartial},
		{"exactly paid resolves to PAID", net, models.FeeStatusPaid},
		{"overpaid", net + 1, models.FeeStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.totalPaid, net))
		})
	}
}

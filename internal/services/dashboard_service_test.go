package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"edupay-backend/internal/models"
	"edupay-backend/internal/money"
)

func TestAggregateStatsKeepsPendingDuesUnclamped(t *testing.T) {
	owing := testStudent() // net 27000, paid 10000: due 17000
	overpaid := testStudent()
	overpaid.ID = "stu-2"
	overpaid.TotalPaid = money.FromRupees(28000) // due -1000
	overpaid.Status = models.FeeStatusPaid

	stats := aggregateStats("2024-25",
		[]*models.Student{owing, overpaid},
		[]*models.FeeStructure{testStructure()})

	assert.Equal(t, 2, stats.TotalStudents)
	assert.Equal(t, money.FromRupees(54000), stats.TotalExpected)
	assert.Equal(t, money.FromRupees(38000), stats.TotalCollected)

	// the ledger aggregate nets the overpayment against dues owed;
	// only the display figure floors each student at zero
	assert.Equal(t, money.FromRupees(16000), stats.PendingDues)
	assert.Equal(t, money.FromRupees(17000), stats.DisplayDues)

	assert.Equal(t, 1, stats.StatusCounts[models.FeeStatusPartial])
	assert.Equal(t, 1, stats.StatusCounts[models.FeeStatusPaid])
	assert.Equal(t, 2, stats.ClassCounts["Class 10"])
}

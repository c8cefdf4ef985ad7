package feeledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupay-backend/internal/models"
	"edupay-backend/internal/money"
)

func TestScopeToSession(t *testing.T) {
	students := []*models.Student{
		{ID: "st-1", ClassName: "Class 10", AcademicYear: "2024-25"},
		{ID: "st-2", ClassName: "Class 10", AcademicYear: "2023-24"},
		{ID: "st-3", ClassName: "Class 9", AcademicYear: "2024-25"},
	}
	structures := []*models.FeeStructure{
		{ID: "fs-1", ClassName: "Class 10", AcademicYear: "2024-25"},
		{ID: "fs-2", ClassName: "Class 10", AcademicYear: "2023-24"},
	}
	payments := []*models.PaymentRecord{
		{ID: "p-1", StudentID: "st-1", Amount: money.FromRupees(5000)},
		{ID: "p-2", StudentID: "st-2", Amount: money.FromRupees(3000)},
		{ID: "p-3", StudentID: "st-3", Amount: money.FromRupees(1000)},
	}

	gotStudents, gotStructures, gotPayments := ScopeToSession(students, structures, payments, "2024-25")

	require.Len(t, gotStudents, 2)
	assert.Equal(t, "st-1", gotStudents[0].ID)
	assert.Equal(t, "st-3", gotStudents[1].ID)

	require.Len(t, gotStructures, 1)
	assert.Equal(t, "fs-1", gotStructures[0].ID)

	// Payments are scoped transitively through their student.
	require.Len(t, gotPayments, 2)
	assert.Equal(t, "p-1", gotPayments[0].ID)
	assert.Equal(t, "p-3", gotPayments[1].ID)
}

func TestScopeToSessionEmptySession(t *testing.T) {
	students := []*models.Student{{ID: "st-1", AcademicYear: "2024-25"}}
	payments := []*models.PaymentRecord{{ID: "p-1", StudentID: "st-1"}}

	gotStudents, gotStructures, gotPayments := ScopeToSession(students, nil, payments, "2019-20")

	assert.Empty(t, gotStudents)
	assert.Empty(t, gotStructures)
	assert.Empty(t, gotPayments)
}

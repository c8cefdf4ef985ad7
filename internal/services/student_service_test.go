package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupay-backend/internal/models"
	"edupay-backend/internal/money"
)

func TestParseEnrollmentCSV(t *testing.T) {
	csv := strings.Join([]string{
		"roll_no,name,class_name,parent_name,contact,gender,previous_year_dues,discount",
		"101,Alice Sharma,Class 10,Raj Sharma,9876543210,FEMALE,2500,500",
		"102,Bob Verma,Class 9,,,,,",
	}, "\n")

	reqs, err := ParseEnrollmentCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	assert.Equal(t, "Alice Sharma", reqs[0].Name)
	assert.Equal(t, models.GenderFemale, reqs[0].Gender)
	assert.Equal(t, money.FromRupees(2500), reqs[0].PreviousYearDues)
	assert.Equal(t, money.FromRupees(500), reqs[0].Discount)

	// blanks default to zero amounts and MALE
	assert.Equal(t, "Bob Verma", reqs[1].Name)
	assert.Equal(t, models.GenderMale, reqs[1].Gender)
	assert.Equal(t, money.Amount(0), reqs[1].PreviousYearDues)
}

func TestParseEnrollmentCSVIgnoresAcademicYearColumn(t *testing.T) {
	// import files may carry a year column; enrollment always lands in
	// the active session, so the column has no representation at all
	csv := strings.Join([]string{
		"name,class_name,academic_year",
		"Alice Sharma,Class 10,2019-20",
	}, "\n")

	reqs, err := ParseEnrollmentCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "Alice Sharma", reqs[0].Name)
}

func TestParseEnrollmentCSVMissingRequiredColumn(t *testing.T) {
	_, err := ParseEnrollmentCSV(strings.NewReader("roll_no,name\n1,Alice"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "class_name")
}

func TestParseEnrollmentCSVBadAmount(t *testing.T) {
	csv := strings.Join([]string{
		"name,class_name,previous_year_dues",
		"Alice,Class 10,12.345",
	}, "\n")

	_, err := ParseEnrollmentCSV(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestValidateEnrollment(t *testing.T) {
	valid := func() *models.CreateStudentRequest {
		return &models.CreateStudentRequest{
			Name:      "Alice Sharma",
			ClassName: "Class 10",
			Gender:    models.GenderFemale,
		}
	}

	assert.NoError(t, validateEnrollment(valid()))

	r := valid()
	r.Name = "  "
	assert.Error(t, validateEnrollment(r))

	r = valid()
	r.Gender = "OTHER"
	assert.Error(t, validateEnrollment(r))

	r = valid()
	r.Discount = money.FromRupees(-1)
	assert.Error(t, validateEnrollment(r))
}

package models

import (
	"time"

	"edupay-backend/internal/money"
)

// FeeStatus is the derived payment standing of a student. It is always a
// pure function of totalPaid vs the computed net payable and is never set
// independently of a balance recomputation.
type FeeStatus string

const (
	FeeStatusPaid    FeeStatus = "PAID"
	FeeStatusPartial FeeStatus = "PARTIAL"
	FeeStatusUnpaid  FeeStatus = "UNPAID"
)

// Gender is a closed enumeration for the enrollment form.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

type Student struct {
	ID               string       `json:"id"`
	RollNo           string       `json:"roll_no"`
	Name             string       `json:"name"`
	ClassName        string       `json:"class_name"`
	AcademicYear     string       `json:"academic_year"`
	ParentName       string       `json:"parent_name"`
	Contact          string       `json:"contact"`
	Gender           Gender       `json:"gender"`
	PreviousYearDues money.Amount `json:"previous_year_dues"`
	Discount         money.Amount `json:"discount"`
	TotalPaid        money.Amount `json:"total_paid"`
	Status           FeeStatus    `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// CreateStudentRequest is the request body for enrolling a single student.
type CreateStudentRequest struct {
	RollNo           string       `json:"roll_no"`
	Name             string       `json:"name"`
	ClassName        string       `json:"class_name"`
	ParentName       string       `json:"parent_name"`
	Contact          string       `json:"contact"`
	Gender           Gender       `json:"gender"`
	PreviousYearDues money.Amount `json:"previous_year_dues"`
	Discount         money.Amount `json:"discount"`
}

// UpdateStudentRequest is the request body for administrative edits.
// Discount and previous-year dues changes trigger a status recompute.
type UpdateStudentRequest struct {
	RollNo           string       `json:"roll_no"`
	Name             string       `json:"name"`
	ClassName        string       `json:"class_name"`
	ParentName       string       `json:"parent_name"`
	Contact          string       `json:"contact"`
	Gender           Gender       `json:"gender"`
	PreviousYearDues money.Amount `json:"previous_year_dues"`
	Discount         money.Amount `json:"discount"`
}

// ApplyDiscountRequest adjusts only the discount field.
type ApplyDiscountRequest struct {
	Discount money.Amount `json:"discount"`
}

// BulkEnrollRequest enrolls many students at once. Every row is tagged
// with the active session's academic year regardless of what the import
// data carried.
type BulkEnrollRequest struct {
	Students []CreateStudentRequest `json:"students"`
}

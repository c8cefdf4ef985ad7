package models

import (
	"time"

	"edupay-backend/internal/money"
)

// FeeComponent is one named line item of a class fee structure. Components
// are owned by exactly one structure and replaced wholesale on edit.
type FeeComponent struct {
	Name   string       `json:"name"`
	Amount money.Amount `json:"amount"`
}

// FeeStructure is the fee schedule for one (className, academicYear) pair.
// Total is always recomputed server-side from the component sum; a total
// sent by a client is never trusted.
type FeeStructure struct {
	ID           string         `json:"id"`
	ClassName    string         `json:"class_name"`
	AcademicYear string         `json:"academic_year"`
	Components   []FeeComponent `json:"components"`
	Total        money.Amount   `json:"total"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ComponentSum returns the sum of the component amounts.
func (f *FeeStructure) ComponentSum() money.Amount {
	var sum money.Amount
	for _, c := range f.Components {
		sum += c.Amount
	}
	return sum
}

// CreateFeeStructureRequest creates or replaces a class fee schedule.
type CreateFeeStructureRequest struct {
	ClassName    string         `json:"class_name"`
	AcademicYear string         `json:"academic_year"`
	Components   []FeeComponent `json:"components"`
}

// UpdateFeeStructureRequest replaces the component list of a structure.
type UpdateFeeStructureRequest struct {
	Components []FeeComponent `json:"components"`
}

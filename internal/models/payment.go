package models

import (
	"time"

	"edupay-backend/internal/money"
)

// PaymentType is the billing period a payment covers.
type PaymentType string

const (
	PaymentTypeMonthly PaymentType = "MONTHLY"
	PaymentTypeTerm    PaymentType = "TERM"
	PaymentTypeYearly  PaymentType = "YEARLY"
	PaymentTypePart    PaymentType = "PART"
)

// ValidPaymentType reports whether t is a known payment type.
func ValidPaymentType(t PaymentType) bool {
	switch t {
	case PaymentTypeMonthly, PaymentTypeTerm, PaymentTypeYearly, PaymentTypePart:
		return true
	}
	return false
}

// PaymentMethod is how the money was received.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodOnline PaymentMethod = "ONLINE"
	PaymentMethodCheque PaymentMethod = "CHEQUE"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodOnline, PaymentMethodCheque:
		return true
	}
	return false
}

// PaymentRecord is one accepted collection. Records are append-only: there
// is no update or delete path, and the sum of a student's records must
// always equal that student's TotalPaid.
type PaymentRecord struct {
	ID            string        `json:"id"`
	ReceiptNumber string        `json:"receipt_number"`
	StudentID     string        `json:"student_id"`
	StudentName   string        `json:"student_name,omitempty"` // joined from students
	Amount        money.Amount  `json:"amount"`
	Date          time.Time     `json:"date"`
	PaymentType   PaymentType   `json:"payment_type"`
	Method        PaymentMethod `json:"method"`
	ReceivedBy    string        `json:"received_by"`
	Note          string        `json:"note,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// SubmitPaymentRequest is the request body for collecting a payment.
type SubmitPaymentRequest struct {
	StudentID   string        `json:"student_id"`
	Amount      money.Amount  `json:"amount"`
	PaymentType PaymentType   `json:"payment_type"`
	Method      PaymentMethod `json:"method"`
	Note        string        `json:"note"`
}

package models

import "time"

// ActivityAction is a closed set of audit trail actions.
type ActivityAction string

const (
	ActionPaymentCollected ActivityAction = "PAYMENT_COLLECTED"
	ActionStudentAdded     ActivityAction = "STUDENT_ADDED"
	ActionStudentUpdated   ActivityAction = "STUDENT_UPDATED"
	ActionStructureUpdated ActivityAction = "STRUCTURE_UPDATED"
	ActionDiscountApplied  ActivityAction = "DISCOUNT_APPLIED"
	ActionUserCreated      ActivityAction = "USER_CREATED"
	ActionUserUpdated      ActivityAction = "USER_UPDATED"
	ActionLogin            ActivityAction = "LOGIN"
)

// ActivityLog is one append-only audit trail row.
type ActivityLog struct {
	ID        int            `json:"id"`
	UserID    int            `json:"user_id"`
	UserName  string         `json:"user_name"`
	Action    ActivityAction `json:"action"`
	Details   string         `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

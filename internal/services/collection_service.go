package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"sync"

	"edupay-backend/internal/feeledger"
	"edupay-backend/internal/metrics"
	"edupay-backend/internal/models"
	"edupay-backend/internal/money"
)

// ErrConcurrentMutation reports that two submissions for the same student
// raced: the losing one fails fast instead of double-applying against a
// stale balance.
var ErrConcurrentMutation = errors.New("payment conflicted with a concurrent submission for this student")

// PersistenceError reports that a payment passed validation but the
// durable write did not complete. It carries the exact records that were
// attempted so the caller can retry without recomputation.
type PersistenceError struct {
	Student *models.Student
	Payment *models.PaymentRecord
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("payment accepted but not durably persisted: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// StudentReader loads students for the collection path.
type StudentReader interface {
	Get(ctx context.Context, id string) (*models.Student, error)
}

// StructureReader loads the fee structures of one session.
type StructureReader interface {
	ListBySession(ctx context.Context, session string) ([]*models.FeeStructure, error)
}

// LedgerStore issues receipt numbers and commits the student update plus
// the payment append as one atomic unit. CommitPayment must return
// ErrStalePaidTotal when the student's total_paid no longer matches
// expectedPaid.
type LedgerStore interface {
	GenerateReceiptNumber(ctx context.Context) (string, error)
	CommitPayment(ctx context.Context, student *models.Student, expectedPaid money.Amount, payment *models.PaymentRecord) error
}

// ErrStalePaidTotal is the sentinel a LedgerStore returns when the
// optimistic guard fails.
var ErrStalePaidTotal = errors.New("stale total_paid")

// Publisher pushes change events to connected dashboards.
type Publisher interface {
	PublishPaymentAccepted(session string, student *models.Student, payment *models.PaymentRecord)
}

// AuditLogger appends to the activity trail. Best-effort.
type AuditLogger interface {
	Log(ctx context.Context, userID int, userName string, action models.ActivityAction, details string)
}

// Invalidator drops caches derived from the ledger. Best-effort.
type Invalidator interface {
	InvalidatePayments(ctx context.Context)
}

// SubmitPaymentResult is returned to the caller after an accepted payment.
type SubmitPaymentResult struct {
	Student *models.Student           `json:"student"`
	Payment *models.PaymentRecord     `json:"payment"`
	Balance feeledger.BalanceSnapshot `json:"balance"`
}

// CollectionService is the only sanctioned mutation entry point for a
// student's paid total. Handlers must route every collection through
// SubmitPayment; nothing else may touch TotalPaid.
type CollectionService struct {
	students   StudentReader
	structures StructureReader
	ledger     LedgerStore
	publisher  Publisher
	audit      AuditLogger
	cache      Invalidator

	// Striped per-student locks make read-validate-mutate-append one
	// critical section per student.
	locks [64]sync.Mutex
}

func NewCollectionService(
	students StudentReader,
	structures StructureReader,
	ledger LedgerStore,
	publisher Publisher,
	audit AuditLogger,
	cache Invalidator,
) *CollectionService {
	return &CollectionService{
		students:   students,
		structures: structures,
		ledger:     ledger,
		publisher:  publisher,
		audit:      audit,
		cache:      cache,
	}
}

func (s *CollectionService) lockFor(studentID string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(studentID))
	return &s.locks[h.Sum32()%uint32(len(s.locks))]
}

// SubmitPayment validates and applies one payment. Business refusals come
// back as *feeledger.Rejection; infrastructure problems as
// ErrConcurrentMutation or *PersistenceError.
func (s *CollectionService) SubmitPayment(ctx context.Context, req *models.SubmitPaymentRequest, receivedByUserID int, receivedByName string) (*SubmitPaymentResult, error) {
	if req.StudentID == "" {
		return nil, fmt.Errorf("student_id is required")
	}
	if !models.ValidPaymentType(req.PaymentType) {
		return nil, fmt.Errorf("unknown payment type %q", req.PaymentType)
	}
	if !models.ValidPaymentMethod(req.Method) {
		return nil, fmt.Errorf("unknown payment method %q", req.Method)
	}

	lock := s.lockFor(req.StudentID)
	lock.Lock()
	defer lock.Unlock()

	student, err := s.students.Get(ctx, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("student not found: %w", err)
	}

	structures, err := s.structures.ListBySession(ctx, student.AcademicYear)
	if err != nil {
		return nil, fmt.Errorf("failed to load fee structures: %w", err)
	}
	if feeledger.MatchStructure(student, structures) == nil {
		// Missing structure is data to fix, never a blocked payment.
		log.Printf("[Collection] WARNING: no fee structure for (%s, %s); treating total as 0",
			student.ClassName, student.AcademicYear)
	}

	receiptNumber, err := s.ledger.GenerateReceiptNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to issue receipt number: %w", err)
	}

	payment := &models.PaymentRecord{
		ReceiptNumber: receiptNumber,
		StudentID:     student.ID,
		Amount:        req.Amount,
		PaymentType:   req.PaymentType,
		Method:        req.Method,
		ReceivedBy:    receivedByName,
		Note:          req.Note,
	}

	updated, err := feeledger.ApplyPayment(student, structures, payment)
	if err != nil {
		var rej *feeledger.Rejection
		if errors.As(err, &rej) {
			metrics.PaymentsRejected.WithLabelValues(string(rej.Reason)).Inc()
		}
		return nil, err
	}

	if err := s.ledger.CommitPayment(ctx, updated, student.TotalPaid, payment); err != nil {
		if errors.Is(err, ErrStalePaidTotal) {
			metrics.ConcurrentConflicts.Inc()
			return nil, ErrConcurrentMutation
		}
		return nil, &PersistenceError{Student: updated, Payment: payment, Err: err}
	}

	metrics.PaymentsAccepted.Inc()
	metrics.AmountCollectedPaise.Add(float64(payment.Amount))

	if s.cache != nil {
		s.cache.InvalidatePayments(ctx)
	}
	if s.publisher != nil {
		s.publisher.PublishPaymentAccepted(updated.AcademicYear, updated, payment)
	}
	if s.audit != nil {
		s.audit.Log(ctx, receivedByUserID, receivedByName, models.ActionPaymentCollected,
			fmt.Sprintf("Collected %s for %s (%s)", payment.Amount, updated.Name, payment.ReceiptNumber))
	}

	return &SubmitPaymentResult{
		Student: updated,
		Payment: payment,
		Balance: feeledger.ComputeBalance(updated, structures),
	}, nil
}

// ComputeBalance exposes the read-only snapshot for one student.
func (s *CollectionService) ComputeBalance(ctx context.Context, studentID string) (*models.Student, feeledger.BalanceSnapshot, error) {
	student, err := s.students.Get(ctx, studentID)
	if err != nil {
		return nil, feeledger.BalanceSnapshot{}, fmt.Errorf("student not found: %w", err)
	}
	structures, err := s.structures.ListBySession(ctx, student.AcademicYear)
	if err != nil {
		return nil, feeledger.BalanceSnapshot{}, fmt.Errorf("failed to load fee structures: %w", err)
	}
	return student, feeledger.ComputeBalance(student, structures), nil
}

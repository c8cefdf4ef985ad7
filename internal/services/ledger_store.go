package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"edupay-backend/internal/models"
	"edupay-backend/internal/money"
	"edupay-backend/internal/repositories"
)

// PgLedgerStore commits a payment and its student update in one
// PostgreSQL transaction, guarded by the total_paid the balance was read
// against.
type PgLedgerStore struct {
	pool        *pgxpool.Pool
	studentRepo *repositories.StudentRepository
	paymentRepo *repositories.PaymentRepository
}

func NewPgLedgerStore(pool *pgxpool.Pool, studentRepo *repositories.StudentRepository, paymentRepo *repositories.PaymentRepository) *PgLedgerStore {
	return &PgLedgerStore{
		pool:        pool,
		studentRepo: studentRepo,
		paymentRepo: paymentRepo,
	}
}

func (s *PgLedgerStore) GenerateReceiptNumber(ctx context.Context) (string, error) {
	return s.paymentRepo.GenerateReceiptNumber(ctx)
}

func (s *PgLedgerStore) CommitPayment(ctx context.Context, student *models.Student, expectedPaid money.Amount, payment *models.PaymentRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin payment transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.studentRepo.ApplyPaymentTx(ctx, tx, student, expectedPaid); err != nil {
		if errors.Is(err, repositories.ErrStaleTotalPaid) {
			return ErrStalePaidTotal
		}
		return err
	}

	if err := s.paymentRepo.CreateTx(ctx, tx, payment); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

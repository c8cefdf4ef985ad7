package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"edupay-backend/internal/models"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

// GenerateReceiptNumber draws the next receipt number from a database
// sequence so numbering stays gapless-enough and O(1) under load.
func (r *PaymentRepository) GenerateReceiptNumber(ctx context.Context) (string, error) {
	var nextNum int
	err := r.DB.QueryRow(ctx, "SELECT nextval('receipt_number_sequence')").Scan(&nextNum)
	if err != nil {
		return "", fmt.Errorf("failed to get next receipt number: %w", err)
	}
	return fmt.Sprintf("RCP-%06d", nextNum), nil
}

// CreateTx appends a payment record inside the caller's transaction. The
// ledger is append-only: there is no update or delete counterpart.
func (r *PaymentRepository) CreateTx(ctx context.Context, tx pgx.Tx, p *models.PaymentRecord) error {
	query := `
		INSERT INTO payments (receipt_number, student_id, amount, payment_type, method, received_by, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, date, created_at
	`
	err := tx.QueryRow(ctx, query,
		p.ReceiptNumber,
		p.StudentID,
		p.Amount,
		p.PaymentType,
		p.Method,
		p.ReceivedBy,
		p.Note,
	).Scan(&p.ID, &p.Date, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append payment record: %w", err)
	}
	return nil
}

const paymentColumns = `
	p.id, p.receipt_number, p.student_id, s.name, p.amount, p.date,
	p.payment_type, p.method, p.received_by, COALESCE(p.note, ''), p.created_at
`

func scanPayment(row pgx.Row) (*models.PaymentRecord, error) {
	p := &models.PaymentRecord{}
	err := row.Scan(
		&p.ID,
		&p.ReceiptNumber,
		&p.StudentID,
		&p.StudentName,
		&p.Amount,
		&p.Date,
		&p.PaymentType,
		&p.Method,
		&p.ReceivedBy,
		&p.Note,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PaymentRepository) Get(ctx context.Context, id string) (*models.PaymentRecord, error) {
	query := "SELECT " + paymentColumns + ` FROM payments p JOIN students s ON p.student_id = s.id WHERE p.id = $1`
	return scanPayment(r.DB.QueryRow(ctx, query, id))
}

func (r *PaymentRepository) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*models.PaymentRecord, error) {
	query := "SELECT " + paymentColumns + ` FROM payments p JOIN students s ON p.student_id = s.id WHERE p.receipt_number = $1`
	return scanPayment(r.DB.QueryRow(ctx, query, receiptNumber))
}

func (r *PaymentRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.PaymentRecord, error) {
	query := "SELECT " + paymentColumns + `
		FROM payments p
		JOIN students s ON p.student_id = s.id
		WHERE p.student_id = $1
		ORDER BY p.created_at
	`
	return r.queryMany(ctx, query, studentID)
}

// ListBySession returns all payments for students of one academic year.
// Payments carry no session field; the scope goes through the student.
func (r *PaymentRepository) ListBySession(ctx context.Context, session string) ([]*models.PaymentRecord, error) {
	query := "SELECT " + paymentColumns + `
		FROM payments p
		JOIN students s ON p.student_id = s.id
		WHERE s.academic_year = $1
		ORDER BY p.created_at DESC
	`
	return r.queryMany(ctx, query, session)
}

func (r *PaymentRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*models.PaymentRecord, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"edupay-backend/internal/models"
	"edupay-backend/internal/money"
)

// ErrStaleTotalPaid is returned when the optimistic concurrency guard on
// a payment update matches no row: another writer moved total_paid after
// our balance was read.
var ErrStaleTotalPaid = fmt.Errorf("student total_paid changed since balance was read")

type StudentRepository struct {
	DB *pgxpool.Pool
}

func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{DB: db}
}

const studentColumns = `
	id, roll_no, name, class_name, academic_year, parent_name, contact, gender,
	previous_year_dues, discount, total_paid, status, created_at, updated_at
`

func scanStudent(row pgx.Row) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(
		&s.ID,
		&s.RollNo,
		&s.Name,
		&s.ClassName,
		&s.AcademicYear,
		&s.ParentName,
		&s.Contact,
		&s.Gender,
		&s.PreviousYearDues,
		&s.Discount,
		&s.TotalPaid,
		&s.Status,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	query := `
		INSERT INTO students (roll_no, name, class_name, academic_year, parent_name, contact, gender,
		                      previous_year_dues, discount, total_paid, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		s.RollNo, s.Name, s.ClassName, s.AcademicYear, s.ParentName, s.Contact, s.Gender,
		s.PreviousYearDues, s.Discount, s.TotalPaid, s.Status,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// CreateBatch inserts many students inside one transaction so a bulk
// enrollment is all-or-nothing.
func (r *StudentRepository) CreateBatch(ctx context.Context, students []*models.Student) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin bulk enroll: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO students (roll_no, name, class_name, academic_year, parent_name, contact, gender,
		                      previous_year_dues, discount, total_paid, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	for _, s := range students {
		err := tx.QueryRow(ctx, query,
			s.RollNo, s.Name, s.ClassName, s.AcademicYear, s.ParentName, s.Contact, s.Gender,
			s.PreviousYearDues, s.Discount, s.TotalPaid, s.Status,
		).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to enroll %q: %w", s.Name, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *StudentRepository) Get(ctx context.Context, id string) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE id = $1"
	return scanStudent(r.DB.QueryRow(ctx, query, id))
}

func (r *StudentRepository) ListBySession(ctx context.Context, session string) ([]*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE academic_year = $1 ORDER BY class_name, roll_no"
	rows, err := r.DB.Query(ctx, query, session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func (r *StudentRepository) ListSessions(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, "SELECT DISTINCT academic_year FROM students ORDER BY academic_year DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Update persists administrative edits. TotalPaid is deliberately not
// touched here; only the payment path may move it.
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	query := `
		UPDATE students
		SET roll_no = $1, name = $2, class_name = $3, parent_name = $4, contact = $5, gender = $6,
		    previous_year_dues = $7, discount = $8, status = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		s.RollNo, s.Name, s.ClassName, s.ParentName, s.Contact, s.Gender,
		s.PreviousYearDues, s.Discount, s.Status, s.ID,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return nil
}

// ApplyPaymentTx updates the student's paid total and status inside the
// caller's transaction, guarded by the total_paid value the balance was
// computed against. Zero rows affected means a concurrent writer won.
func (r *StudentRepository) ApplyPaymentTx(ctx context.Context, tx pgx.Tx, s *models.Student, expectedPaid money.Amount) error {
	query := `
		UPDATE students
		SET total_paid = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND total_paid = $4
	`
	tag, err := tx.Exec(ctx, query, s.TotalPaid, s.Status, s.ID, expectedPaid)
	if err != nil {
		return fmt.Errorf("failed to apply payment to student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleTotalPaid
	}
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, "DELETE FROM students WHERE id = $1", id)
	return err
}

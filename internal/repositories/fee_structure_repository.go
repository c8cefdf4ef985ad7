package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"edupay-backend/internal/models"
)

type FeeStructureRepository struct {
	DB *pgxpool.Pool
}

func NewFeeStructureRepository(db *pgxpool.Pool) *FeeStructureRepository {
	return &FeeStructureRepository{DB: db}
}

func scanFeeStructure(row pgx.Row) (*models.FeeStructure, error) {
	fs := &models.FeeStructure{}
	var componentsJSON []byte
	err := row.Scan(
		&fs.ID,
		&fs.ClassName,
		&fs.AcademicYear,
		&componentsJSON,
		&fs.Total,
		&fs.CreatedAt,
		&fs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(componentsJSON, &fs.Components); err != nil {
		return nil, fmt.Errorf("failed to decode fee components: %w", err)
	}
	return fs, nil
}

func (r *FeeStructureRepository) Create(ctx context.Context, fs *models.FeeStructure) error {
	componentsJSON, err := json.Marshal(fs.Components)
	if err != nil {
		return fmt.Errorf("failed to encode fee components: %w", err)
	}

	query := `
		INSERT INTO fee_structures (class_name, academic_year, components, total)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err = r.DB.QueryRow(ctx, query,
		fs.ClassName, fs.AcademicYear, componentsJSON, fs.Total,
	).Scan(&fs.ID, &fs.CreatedAt, &fs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create fee structure: %w", err)
	}
	return nil
}

func (r *FeeStructureRepository) Get(ctx context.Context, id string) (*models.FeeStructure, error) {
	query := `
		SELECT id, class_name, academic_year, components, total, created_at, updated_at
		FROM fee_structures
		WHERE id = $1
	`
	return scanFeeStructure(r.DB.QueryRow(ctx, query, id))
}

func (r *FeeStructureRepository) ListBySession(ctx context.Context, session string) ([]*models.FeeStructure, error) {
	query := `
		SELECT id, class_name, academic_year, components, total, created_at, updated_at
		FROM fee_structures
		WHERE academic_year = $1
		ORDER BY class_name
	`
	rows, err := r.DB.Query(ctx, query, session)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var structures []*models.FeeStructure
	for rows.Next() {
		fs, err := scanFeeStructure(rows)
		if err != nil {
			return nil, err
		}
		structures = append(structures, fs)
	}
	return structures, rows.Err()
}

// Update replaces the component list and total wholesale.
func (r *FeeStructureRepository) Update(ctx context.Context, fs *models.FeeStructure) error {
	componentsJSON, err := json.Marshal(fs.Components)
	if err != nil {
		return fmt.Errorf("failed to encode fee components: %w", err)
	}

	query := `
		UPDATE fee_structures
		SET components = $1, total = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`
	err = r.DB.QueryRow(ctx, query, componentsJSON, fs.Total, fs.ID).Scan(&fs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update fee structure: %w", err)
	}
	return nil
}

func (r *FeeStructureRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, "DELETE FROM fee_structures WHERE id = $1", id)
	return err
}

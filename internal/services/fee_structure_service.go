package services

import (
	"context"
	"fmt"
	"strings"

	"edupay-backend/internal/cache"
	"edupay-backend/internal/models"
	"edupay-backend/internal/repositories"
)

// FeeStructureService manages class fee schedules. The stored total is
// always the component sum computed here; client-sent totals are ignored.
type FeeStructureService struct {
	Repo      *repositories.FeeStructureRepository
	Audit     *ActivityService
	Publisher *HubPublisher
}

func NewFeeStructureService(repo *repositories.FeeStructureRepository, audit *ActivityService, publisher *HubPublisher) *FeeStructureService {
	return &FeeStructureService{Repo: repo, Audit: audit, Publisher: publisher}
}

func validateComponents(components []models.FeeComponent) error {
	if len(components) == 0 {
		return fmt.Errorf("at least one fee component is required")
	}
	for i, c := range components {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("component %d: name is required", i+1)
		}
		if c.Amount.IsNegative() {
			return fmt.Errorf("component %q: amount cannot be negative", c.Name)
		}
	}
	return nil
}

// Create adds the fee schedule for one (className, academicYear) pair.
func (s *FeeStructureService) Create(ctx context.Context, req *models.CreateFeeStructureRequest, actorID int, actorName string) (*models.FeeStructure, error) {
	className := strings.TrimSpace(req.ClassName)
	session := strings.TrimSpace(req.AcademicYear)
	if className == "" || session == "" {
		return nil, fmt.Errorf("class name and academic year are required")
	}
	if err := validateComponents(req.Components); err != nil {
		return nil, err
	}

	fs := &models.FeeStructure{
		ClassName:    className,
		AcademicYear: session,
		Components:   req.Components,
	}
	fs.Total = fs.ComponentSum()

	if err := s.Repo.Create(ctx, fs); err != nil {
		return nil, err
	}

	cache.InvalidateStructureCaches(ctx)
	if s.Publisher != nil {
		s.Publisher.PublishStructureUpdated(fs.AcademicYear, fs.ClassName)
	}
	if s.Audit != nil {
		s.Audit.Log(ctx, actorID, actorName, models.ActionStructureUpdated,
			fmt.Sprintf("Created fee structure for %s (%s), total %s", fs.ClassName, fs.AcademicYear, fs.Total))
	}
	return fs, nil
}

func (s *FeeStructureService) Get(ctx context.Context, id string) (*models.FeeStructure, error) {
	return s.Repo.Get(ctx, id)
}

// ListBySession returns every structure of one academic year.
func (s *FeeStructureService) ListBySession(ctx context.Context, session string) ([]*models.FeeStructure, error) {
	return s.Repo.ListBySession(ctx, session)
}

// Update replaces the component list wholesale and recomputes the total.
// Already-enrolled students are not repriced here; their snapshots pick
// up the new total on the next read.
func (s *FeeStructureService) Update(ctx context.Context, id string, req *models.UpdateFeeStructureRequest, actorID int, actorName string) (*models.FeeStructure, error) {
	if err := validateComponents(req.Components); err != nil {
		return nil, err
	}

	fs, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fee structure not found: %w", err)
	}

	fs.Components = req.Components
	fs.Total = fs.ComponentSum()

	if err := s.Repo.Update(ctx, fs); err != nil {
		return nil, err
	}

	cache.InvalidateStructureCaches(ctx)
	if s.Publisher != nil {
		s.Publisher.PublishStructureUpdated(fs.AcademicYear, fs.ClassName)
	}
	if s.Audit != nil {
		s.Audit.Log(ctx, actorID, actorName, models.ActionStructureUpdated,
			fmt.Sprintf("Updated fee structure for %s (%s), total %s", fs.ClassName, fs.AcademicYear, fs.Total))
	}
	return fs, nil
}

func (s *FeeStructureService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateStructureCaches(ctx)
	return nil
}

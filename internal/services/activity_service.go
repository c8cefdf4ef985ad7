package services

import (
	"context"
	"log"

	"edupay-backend/internal/models"
	"edupay-backend/internal/repositories"
)

// ActivityService records the audit trail. Writes are best-effort: a
// failed log line is logged and dropped, never surfaced to the caller.
type ActivityService struct {
	Repo *repositories.ActivityLogRepository
}

func NewActivityService(repo *repositories.ActivityLogRepository) *ActivityService {
	return &ActivityService{Repo: repo}
}

func (s *ActivityService) Log(ctx context.Context, userID int, userName string, action models.ActivityAction, details string) {
	entry := &models.ActivityLog{
		UserID:   userID,
		UserName: userName,
		Action:   action,
		Details:  details,
	}
	if err := s.Repo.Create(ctx, entry); err != nil {
		log.Printf("[Activity] failed to record %s: %v", action, err)
	}
}

func (s *ActivityService) List(ctx context.Context, limit int) ([]*models.ActivityLog, error) {
	return s.Repo.List(ctx, limit)
}

package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"edupay-backend/internal/cache"
	"edupay-backend/internal/feeledger"
	"edupay-backend/internal/models"
	"edupay-backend/internal/money"
	"edupay-backend/internal/repositories"
)

const dashboardCacheTTL = 60 * time.Second

// DashboardStats summarizes one session for the landing page. Every
// figure is derived from ledger snapshots so the dashboard can never
// disagree with a student's balance view. PendingDues is the raw ledger
// sum, so an overpaid student subtracts from it; DisplayDues floors each
// student at zero for the headline badge.
type DashboardStats struct {
	Session        string                   `json:"session"`
	TotalStudents  int                      `json:"total_students"`
	TotalExpected  money.Amount             `json:"total_expected"`
	TotalCollected money.Amount             `json:"total_collected"`
	PendingDues    money.Amount             `json:"pending_dues"`
	DisplayDues    money.Amount             `json:"display_dues"`
	StatusCounts   map[models.FeeStatus]int `json:"status_counts"`
	ClassCounts    map[string]int           `json:"class_counts"`
	RecentPayments []*models.PaymentRecord  `json:"recent_payments"`
}

type DashboardService struct {
	Students   *repositories.StudentRepository
	Structures *repositories.FeeStructureRepository
	Payments   *repositories.PaymentRepository
}

func NewDashboardService(
	students *repositories.StudentRepository,
	structures *repositories.FeeStructureRepository,
	payments *repositories.PaymentRepository,
) *DashboardService {
	return &DashboardService{Students: students, Structures: structures, Payments: payments}
}

// Stats computes the session summary, served from Redis when fresh.
func (s *DashboardService) Stats(ctx context.Context, session string) (*DashboardStats, error) {
	cacheKey := "dashboard:stats:" + session
	if data, ok := cache.GetCached(ctx, cacheKey); ok {
		var stats DashboardStats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
	}

	students, err := s.Students.ListBySession(ctx, session)
	if err != nil {
		return nil, err
	}
	structures, err := s.Structures.ListBySession(ctx, session)
	if err != nil {
		return nil, err
	}

	stats := aggregateStats(session, students, structures)

	recent, err := s.Payments.ListBySession(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(recent) > 10 {
		recent = recent[:10]
	}
	stats.RecentPayments = recent

	if data, err := json.Marshal(stats); err == nil {
		cache.SetCached(ctx, cacheKey, data, dashboardCacheTTL)
	} else {
		log.Printf("[Dashboard] failed to cache stats: %v", err)
	}
	return stats, nil
}

func aggregateStats(session string, students []*models.Student, structures []*models.FeeStructure) *DashboardStats {
	stats := &DashboardStats{
		Session:       session,
		TotalStudents: len(students),
		StatusCounts:  make(map[models.FeeStatus]int),
		ClassCounts:   make(map[string]int),
	}
	for _, st := range students {
		snap := feeledger.ComputeBalance(st, structures)
		stats.TotalExpected += snap.NetPayable
		stats.TotalCollected += st.TotalPaid
		stats.PendingDues += snap.BalanceDue
		stats.DisplayDues += snap.DueForDisplay()
		stats.StatusCounts[st.Status]++
		stats.ClassCounts[st.ClassName]++
	}
	return stats
}

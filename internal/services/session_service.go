package services

import (
	"context"
	"fmt"
	"strings"

	"edupay-backend/internal/models"
	"edupay-backend/internal/repositories"
)

// SessionService resolves the active academic session. The value lives in
// system_settings so it survives restarts; the configured default applies
// until an admin sets one.
type SessionService struct {
	Settings       *repositories.SystemSettingRepository
	DefaultSession string
}

func NewSessionService(settings *repositories.SystemSettingRepository, defaultSession string) *SessionService {
	return &SessionService{Settings: settings, DefaultSession: defaultSession}
}

// ActiveSession returns the academic year every write resolves against.
func (s *SessionService) ActiveSession(ctx context.Context) string {
	setting, err := s.Settings.Get(ctx, models.SettingActiveSession)
	if err != nil || strings.TrimSpace(setting.Value) == "" {
		return s.DefaultSession
	}
	return setting.Value
}

// SetActiveSession switches the dashboard to another academic year.
func (s *SessionService) SetActiveSession(ctx context.Context, session string) error {
	session = strings.TrimSpace(session)
	if session == "" {
		return fmt.Errorf("session cannot be empty")
	}
	return s.Settings.Set(ctx, models.SettingActiveSession, session)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"edupay-backend/internal/auth"
	"edupay-backend/internal/models"
	"edupay-backend/internal/repositories"
)

type UserService struct {
	Repo       *repositories.UserRepository
	JWTManager *auth.JWTManager
	Audit      *ActivityService
}

func NewUserService(repo *repositories.UserRepository, jwtManager *auth.JWTManager, audit *ActivityService) *UserService {
	return &UserService{
		Repo:       repo,
		JWTManager: jwtManager,
		Audit:      audit,
	}
}

// CreateUser adds a dashboard user with a hashed password.
func (s *UserService) CreateUser(ctx context.Context, req *models.CreateUserRequest, actorID int, actorName string) (*models.User, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, errors.New("name, email, and password are required")
	}
	if !models.ValidUserRole(req.Role) {
		return nil, fmt.Errorf("unknown role %q", req.Role)
	}

	existing, _ := s.Repo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, errors.New("user with this email already exists")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.Audit != nil {
		s.Audit.Log(ctx, actorID, actorName, models.ActionUserCreated,
			fmt.Sprintf("Created user %s (%s)", user.Email, user.Role))
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

// ListUsers returns all users
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}

// UpdateUser updates name, email, role and active flag. A new password is
// hashed; an empty one keeps the old hash.
func (s *UserService) UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest, actorID int, actorName string) (*models.User, error) {
	if !models.ValidUserRole(req.Role) {
		return nil, fmt.Errorf("unknown role %q", req.Role)
	}

	user, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Role = req.Role
	user.IsActive = req.IsActive
	if req.Password != "" {
		hashedPassword, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashedPassword
	}

	if err := s.Repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if s.Audit != nil {
		s.Audit.Log(ctx, actorID, actorName, models.ActionUserUpdated,
			fmt.Sprintf("Updated user %s", user.Email))
	}
	return user, nil
}

// DeleteUser deletes a user
func (s *UserService) DeleteUser(ctx context.Context, id int) error {
	return s.Repo.Delete(ctx, id)
}

// Login authenticates a user and returns a JWT token
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}

	user, err := s.Repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, errors.New("invalid email or password")
	}
	if !user.IsActive {
		return nil, errors.New("account is deactivated")
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.TouchLastLogin(ctx, user.ID); err != nil {
		log.Printf("[Auth] failed to record last login for %s: %v", user.Email, err)
	}
	if s.Audit != nil {
		s.Audit.Log(ctx, user.ID, user.Name, models.ActionLogin,
			fmt.Sprintf("%s logged in", user.Email))
	}

	return &models.AuthResponse{
		Token: token,
		User:  user,
	}, nil
}

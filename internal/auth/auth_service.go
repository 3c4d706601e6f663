package auth

import (
	"context"
	"errors"
	"time"

	"github.com/fixhub-io/fixhub-ce/internal/models"
	"github.com/fixhub-io/fixhub-ce/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrLoginTaken         = errors.New("login is already taken")
	ErrSessionExpired     = errors.New("session has expired")
)

// AuthService handles worker registration and session management.
type AuthService struct {
	workers    repository.WorkerRepository
	jwtManager *JWTManager
	hasher     *PasswordHasher
}

func NewAuthService(workers repository.WorkerRepository, jwtManager *JWTManager, hasher *PasswordHasher) *AuthService {
	return &AuthService{
		workers:    workers,
		jwtManager: jwtManager,
		hasher:     hasher,
	}
}

// Register creates a new worker account with the default hourly rate.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.Worker, error) {
	if _, err := s.workers.GetByLogin(ctx, req.Login); err == nil {
		return nil, ErrLoginTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	worker := &models.Worker{
		Login:        req.Login,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         models.RoleWorker,
		HourlyRate:   models.DefaultHourlyRate,
	}
	if err := s.workers.Create(ctx, worker); err != nil {
		if errors.Is(err, repository.ErrDuplicateLogin) {
			return nil, ErrLoginTaken
		}
		return nil, err
	}
	return worker, nil
}

// Login verifies credentials and issues a token pair. The refresh token is
// persisted on the worker so it can be rotated and revoked.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	worker, err := s.workers.GetByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.VerifyPassword(req.Password, worker.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(ctx, worker)
}

// Refresh validates a refresh token against the stored copy and rotates it.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.LoginResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrSessionExpired
	}

	workerID, err := WorkerIDFromRefreshClaims(claims)
	if err != nil {
		return nil, ErrSessionExpired
	}

	worker, err := s.workers.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}

	// A token that no longer matches the stored one has been rotated or
	// revoked; reusing it ends the session.
	if worker.RefreshToken != refreshToken {
		return nil, ErrSessionExpired
	}
	if worker.RefreshTokenExpiry != nil && time.Now().After(*worker.RefreshTokenExpiry) {
		return nil, ErrSessionExpired
	}

	return s.issueSession(ctx, worker)
}

// Logout revokes the worker's stored refresh token.
func (s *AuthService) Logout(ctx context.Context, workerID int64) error {
	return s.workers.UpdateRefreshToken(ctx, workerID, "", nil)
}

func (s *AuthService) issueSession(ctx context.Context, worker *models.Worker) (*models.LoginResponse, error) {
	token, err := s.jwtManager.GenerateToken(worker.ID, worker.Login, worker.Role)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(worker.ID, worker.Login)
	if err != nil {
		return nil, err
	}

	expiry := time.Now().Add(s.jwtManager.refreshDuration)
	if err := s.workers.UpdateRefreshToken(ctx, worker.ID, refreshToken, &expiry); err != nil {
		return nil, err
	}

	return &models.LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.jwtManager.tokenDuration),
		Worker:       worker,
	}, nil
}

package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"noise-sentinel/internal/auth"
	"noise-sentinel/internal/model"
	"noise-sentinel/internal/repository"
)

const minPasswordLength = 8

type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      model.User `json:"user"`
}

type CreateUserInput struct {
	Username  string
	Password  string
	FullName  string
	Email     string
	Role      model.Role
	StationID *uuid.UUID
	CourtID   *uuid.UUID
}

type AuthService struct {
	users    UserStore
	stations StationStore
	courts   CourtStore
	issuer   TokenIssuer
	log      zerolog.Logger
}

func NewAuthService(users UserStore, stations StationStore, courts CourtStore, issuer TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, stations: stations, courts: courts, issuer: issuer, log: log}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	invalid := newError(ErrUnauthorized, "invalid username or password")

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, invalid
	}

	role, err := model.ParseRole(string(user.RoleName()))
	if err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID.String()).Msg("user has no valid role")
		return nil, invalid
	}
	token, expiresAt, err := s.issuer.Issue(model.Principal{
		UserID:    user.ID,
		Role:      role,
		StationID: user.StationID,
		CourtID:   user.CourtID,
	})
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}

func (s *AuthService) CreateUser(ctx context.Context, principal model.Principal, input CreateUserInput) (*model.User, error) {
	if !principal.Can(model.CapManageUsers) {
		return nil, ErrPermissionDenied
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, newError(ErrInvalidInput, "username is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, newError(ErrInvalidInput, "password must be at least %d characters", minPasswordLength)
	}
	role, err := model.ParseRole(string(input.Role))
	if err != nil {
		return nil, newError(ErrInvalidInput, "%s", err.Error())
	}
	if input.StationID != nil {
		if _, err := s.stations.GetByID(ctx, *input.StationID); err != nil {
			return nil, notFound(err, "police station", *input.StationID)
		}
	}
	if input.CourtID != nil {
		if _, err := s.courts.GetByID(ctx, *input.CourtID); err != nil {
			return nil, notFound(err, "court", *input.CourtID)
		}
	}

	roleRecord, err := s.users.GetRole(ctx, role)
	if err != nil {
		return nil, notFound(err, "role", role)
	}
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Email:        strings.TrimSpace(input.Email),
		RoleID:       roleRecord.ID,
		StationID:    input.StationID,
		CourtID:      input.CourtID,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(ErrConflict, "username %s is taken", username)
		}
		return nil, err
	}
	user.Role = roleRecord
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account unless the username already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	system := model.Principal{Role: model.RoleAdmin}
	user, err := s.CreateUser(ctx, system, CreateUserInput{
		Username: username,
		Password: password,
		FullName: "Administrator",
		Role:     model.RoleAdmin,
	})
	if err != nil {
		return err
	}
	s.log.Info().Str("user_id", user.ID.String()).Str("username", username).Msg("bootstrap admin created")
	return nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/gearbase/cmms-server-go/internal/errors"
	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/repository"
	"github.com/gearbase/cmms-server-go/internal/util"
)

type SignInResult struct {
	SessionToken string             `json:"sessionToken"`
	ExpiresAt    time.Time          `json:"expiresAt"`
	Session      *model.AuthSession `json:"-"`
}

// AuthConfig carries the knobs the auth service reads from the environment.
type AuthConfig struct {
	// TokenSecret keys the session token digests at rest.
	TokenSecret string
	// ResetBaseURL is the frontend origin recovery links point at.
	ResetBaseURL string

	SessionTTL  time.Duration
	RecoveryTTL time.Duration

	// Profile rows are provisioned out of band after signup, mirroring the
	// async trigger the resolution chain is built to tolerate.
	ProvisionDelay time.Duration
}

type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.AuthSessionRepository
	profiles    *ProfileService

	cfg AuthConfig
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.AuthSessionRepository,
	profiles *ProfileService,
	cfg AuthConfig,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		profiles:    profiles,
		cfg:         cfg,
	}
}

func (s *AuthService) SignUp(ctx context.Context, email, password, fullName string, role model.Role) (*model.User, error) {
	if !util.IsValidEmail(email) {
		return nil, apperrors.InvalidInput("email", "not a valid address")
	}
	if len(password) < 8 {
		return nil, apperrors.InvalidInput("password", "must be at least 8 characters")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		return nil, apperrors.AlreadyExists("User")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, model.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	go s.provisionProfile(user.ID, fullName, role)

	log.Info().
		Str("userId", user.ID).
		Msg("user signed up")

	return user, nil
}

func (s *AuthService) provisionProfile(userID, fullName string, role model.Role) {
	if s.cfg.ProvisionDelay > 0 {
		time.Sleep(s.cfg.ProvisionDelay)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.profiles.Provision(ctx, userID, fullName, role); err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("profile provisioning failed")
	}
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil || !util.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.InvalidCredentials()
	}

	token, err := util.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	session, err := s.sessionRepo.Create(ctx, model.CreateAuthSessionParams{
		UserID:    user.ID,
		TokenHash: util.HashToken(s.cfg.TokenSecret, token),
		ExpiresAt: time.Now().Add(s.cfg.SessionTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	log.Info().
		Str("userId", user.ID).
		Str("sessionId", session.ID).
		Msg("user signed in")

	return &SignInResult{
		SessionToken: token,
		ExpiresAt:    session.ExpiresAt,
		Session:      session,
	}, nil
}

func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Revoke(ctx, sessionID); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// ForceSignOut revokes every session for the user. Used when an
// authenticated session turns out to have no profile behind it.
func (s *AuthService) ForceSignOut(ctx context.Context, userID string) error {
	if err := s.sessionRepo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	log.Warn().
		Str("userId", userID).
		Msg("all sessions revoked")

	return nil
}

// Authenticate resolves a bearer token to its session. Returns nil for
// unknown, revoked, or expired tokens.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.AuthSession, error) {
	return s.sessionRepo.FindByTokenHash(ctx, util.HashToken(s.cfg.TokenSecret, token))
}

func (s *AuthService) UpdatePassword(ctx context.Context, userID, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.InvalidInput("password", "must be at least 8 characters")
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	// Changing the password invalidates recovery and stale sessions.
	if err := s.sessionRepo.RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	log.Info().
		Str("userId", userID).
		Msg("password updated")

	return nil
}

// PasswordResetResult is handed to the delivery layer. The token never
// reaches the HTTP response.
type PasswordResetResult struct {
	Token    string
	ResetURL string
}

// RequestPasswordReset mints a short-lived recovery session for the user
// and builds the recovery link the delivery layer sends. A missing account
// yields no error and a nil result, so the endpoint does not leak which
// emails exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*PasswordResetResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		log.Debug().Msg("password reset requested for unknown email")
		return nil, nil
	}

	token, err := util.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	_, err = s.sessionRepo.Create(ctx, model.CreateAuthSessionParams{
		UserID:    user.ID,
		TokenHash: util.HashToken(s.cfg.TokenSecret, token),
		Recovery:  true,
		ExpiresAt: time.Now().Add(s.cfg.RecoveryTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("create recovery session: %w", err)
	}

	result := &PasswordResetResult{Token: token}
	if s.cfg.ResetBaseURL != "" {
		// The token rides in the fragment so it never lands in access logs.
		result.ResetURL = strings.TrimRight(s.cfg.ResetBaseURL, "/") + "/reset-password#token=" + token
	}

	log.Info().
		Str("userId", user.ID).
		Msg("password recovery session created")
	if result.ResetURL != "" {
		// No mailer is wired up yet; local setups pick the link off debug logs.
		log.Debug().
			Str("userId", user.ID).
			Str("resetUrl", result.ResetURL).
			Msg("password recovery link minted")
	}

	return result, nil
}

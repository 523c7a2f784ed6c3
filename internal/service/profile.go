package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/repository"
)

type ProfileService struct {
	profileRepo   repository.ProfileRepository
	retryAttempts int
	retryBase     time.Duration
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	retryAttempts int,
	retryBase time.Duration,
) *ProfileService {
	return &ProfileService{
		profileRepo:   profileRepo,
		retryAttempts: retryAttempts,
		retryBase:     retryBase,
	}
}

// Resolve fetches the profile for a user. Profiles are provisioned
// asynchronously after signup, so right after a sign-in the row may not
// exist yet. For sign-in-adjacent events a missing row is retried with
// exponential backoff; for everything else absence is returned immediately.
// A nil profile with a nil error means the row does not exist.
func (s *ProfileService) Resolve(ctx context.Context, userID string, event model.SessionEventType) (*model.Profile, error) {
	if userID == "" {
		return nil, fmt.Errorf("resolve profile: empty user id")
	}

	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if profile != nil || !event.SignInAdjacent() {
		return profile, nil
	}

	delay := s.retryBase
	for attempt := 1; attempt <= s.retryAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}

		profile, err = s.profileRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("find profile (attempt %d): %w", attempt, err)
		}
		if profile != nil {
			log.Info().
				Str("userId", userID).
				Int("attempt", attempt).
				Msg("profile resolved after retry")
			return profile, nil
		}

		delay *= 2
	}

	log.Warn().
		Str("userId", userID).
		Int("attempts", s.retryAttempts).
		Msg("profile still missing after retries")
	return nil, nil
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	return s.profileRepo.FindByID(ctx, userID)
}

// Provision creates the profile row for a new user. Called by the signup
// flow, deliberately decoupled from user creation.
func (s *ProfileService) Provision(ctx context.Context, userID, fullName string, role model.Role) (*model.Profile, error) {
	profile, err := s.profileRepo.Create(ctx, model.CreateProfileParams{
		ID:       userID,
		FullName: fullName,
		Role:     role,
	})
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	log.Info().
		Str("userId", userID).
		Str("role", string(role)).
		Msg("profile provisioned")

	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, userID string, params model.UpdateProfileParams) (*model.Profile, error) {
	profile, err := s.profileRepo.Update(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	apperrors "github.com/gearbase/cmms-server-go/internal/errors"
	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/repository"
)

type CompanyService struct {
	companyRepo repository.CompanyRepository
	profileRepo repository.ProfileRepository
}

func NewCompanyService(
	companyRepo repository.CompanyRepository,
	profileRepo repository.ProfileRepository,
) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		profileRepo: profileRepo,
	}
}

// ListMemberships returns every company the user belongs to. A backend
// error degrades to an empty list so one failed read cannot take down the
// whole resolution chain; the error is logged and also returned for the
// caller to report.
func (s *CompanyService) ListMemberships(ctx context.Context, userID string) ([]model.CompanyMembership, error) {
	memberships, err := s.companyRepo.ListMemberships(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("list memberships failed")
		return []model.CompanyMembership{}, err
	}
	return memberships, nil
}

// EnsureCurrentCompany repairs the profile's current company pointer. The
// profile row is the single source of truth for "current company": if it is
// unset and the user belongs to at least one company, the first membership
// is persisted. Returns the effective current company id (nil when the user
// has no memberships) and whether a write happened.
func (s *CompanyService) EnsureCurrentCompany(ctx context.Context, profile *model.Profile, memberships []model.CompanyMembership) (*string, bool, error) {
	if profile.CurrentCompanyID != nil {
		for _, m := range memberships {
			if m.CompanyID == *profile.CurrentCompanyID {
				return profile.CurrentCompanyID, false, nil
			}
		}
		// Pointer references a company the user no longer belongs to;
		// fall through and repair it like the unset case.
	}

	if len(memberships) == 0 {
		return nil, false, nil
	}

	first := memberships[0].CompanyID
	if err := s.profileRepo.SetCurrentCompany(ctx, profile.ID, first); err != nil {
		return nil, false, fmt.Errorf("set current company: %w", err)
	}

	log.Info().
		Str("userId", profile.ID).
		Str("companyId", first).
		Msg("current company auto-selected")

	return &first, true, nil
}

// SelectCompany switches the user's current company. The target must be in
// the user's membership list.
func (s *CompanyService) SelectCompany(ctx context.Context, userID, companyID string) (*model.Profile, error) {
	memberships, err := s.companyRepo.ListMemberships(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}

	member := false
	for _, m := range memberships {
		if m.CompanyID == companyID {
			member = true
			break
		}
	}
	if !member {
		return nil, apperrors.NotAMember(companyID)
	}

	if err := s.profileRepo.SetCurrentCompany(ctx, userID, companyID); err != nil {
		return nil, fmt.Errorf("set current company: %w", err)
	}

	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("refetch profile: %w", err)
	}

	log.Info().
		Str("userId", userID).
		Str("companyId", companyID).
		Msg("company selected")

	return profile, nil
}

// CreateCompany creates a company owned by the user, adds the owner as a
// company_admin member, and makes it the current company when the user has
// none.
func (s *CompanyService) CreateCompany(ctx context.Context, userID, name string) (*model.Company, error) {
	if name == "" {
		return nil, apperrors.MissingRequired("name")
	}

	company, err := s.companyRepo.Create(ctx, model.CreateCompanyParams{
		Name:    name,
		OwnerID: userID,
	})
	if err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}

	if err := s.companyRepo.AddMember(ctx, company.ID, userID, model.RoleCompanyAdmin); err != nil {
		return nil, fmt.Errorf("add owner membership: %w", err)
	}

	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if profile != nil && profile.CurrentCompanyID == nil {
		if err := s.profileRepo.SetCurrentCompany(ctx, userID, company.ID); err != nil {
			return nil, fmt.Errorf("set current company: %w", err)
		}
	}

	log.Info().
		Str("userId", userID).
		Str("companyId", company.ID).
		Msg("company created")

	return company, nil
}

func (s *CompanyService) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	return s.companyRepo.FindByID(ctx, id)
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/repository"
)

const adminPlanName = "Platform Administrator"

type LicenseService struct {
	licenseRepo     repository.LicenseRepository
	licenseTypeRepo repository.LicenseTypeRepository
	now             func() time.Time
}

func NewLicenseService(
	licenseRepo repository.LicenseRepository,
	licenseTypeRepo repository.LicenseTypeRepository,
) *LicenseService {
	return &LicenseService{
		licenseRepo:     licenseRepo,
		licenseTypeRepo: licenseTypeRepo,
		now:             time.Now,
	}
}

// ResolveActive returns the user's active entitlement, or nil when there is
// none. Platform administrators bypass licensing entirely: they get a
// synthetic always-valid license and no license query is issued.
func (s *LicenseService) ResolveActive(ctx context.Context, userID string, companyID *string, role model.Role) (*model.ResolvedLicense, error) {
	if role == model.RoleAdmin {
		return &model.ResolvedLicense{
			License:  model.License{UserID: userID, Status: model.LicenseStatusActive},
			PlanName: adminPlanName,
			Features: []string{model.AdminFeature},
			IsActive: true,
		}, nil
	}

	license, err := s.licenseRepo.FindCurrentForUser(ctx, userID, companyID)
	if err != nil {
		return nil, fmt.Errorf("find license: %w", err)
	}
	if license == nil {
		return nil, nil
	}

	if !license.ValidAt(s.now()) {
		log.Debug().
			Str("userId", userID).
			Str("licenseId", license.ID).
			Str("status", string(license.Status)).
			Msg("license past its expiry date, treating as absent")
		return nil, nil
	}

	licenseType, err := s.licenseTypeRepo.FindByID(ctx, license.LicenseTypeID)
	if err != nil {
		return nil, fmt.Errorf("find license type: %w", err)
	}
	if licenseType == nil {
		log.Warn().
			Str("licenseId", license.ID).
			Str("licenseTypeId", license.LicenseTypeID).
			Msg("license references missing plan")
		return nil, nil
	}

	features, err := model.NormalizeFeatures(licenseType.Features)
	if err != nil {
		log.Warn().Err(err).
			Str("licenseTypeId", licenseType.ID).
			Msg("malformed plan feature list, treating as empty")
		features = []string{}
	}

	return &model.ResolvedLicense{
		License:  *license,
		PlanName: licenseType.Name,
		Features: features,
		IsActive: true,
	}, nil
}

// HasAccess is the feature-gate predicate: true iff the resolved license
// includes the feature key (the admin sentinel grants everything).
func (s *LicenseService) HasAccess(resolved *model.ResolvedLicense, featureKey string) bool {
	return resolved.HasFeature(featureKey)
}

func (s *LicenseService) ListPlans(ctx context.Context) ([]model.LicenseType, error) {
	return s.licenseTypeRepo.List(ctx)
}

// StartTrial creates a trialing license for the user on the given plan.
func (s *LicenseService) StartTrial(ctx context.Context, userID string, companyID *string, licenseTypeID string, trialDays int) (*model.License, error) {
	trialEnd := s.now().Add(time.Duration(trialDays) * 24 * time.Hour)
	license, err := s.licenseRepo.Create(ctx, model.CreateLicenseParams{
		UserID:        userID,
		CompanyID:     companyID,
		LicenseTypeID: licenseTypeID,
		Status:        model.LicenseStatusTrialing,
		StartsAt:      s.now(),
		TrialEndsAt:   &trialEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("create trial license: %w", err)
	}

	log.Info().
		Str("userId", userID).
		Str("licenseId", license.ID).
		Time("trialEndsAt", trialEnd).
		Msg("trial started")

	return license, nil
}

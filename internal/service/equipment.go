package service

import (
	"context"
	"fmt"

	apperrors "github.com/gearbase/cmms-server-go/internal/errors"
	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/repository"
)

type EquipmentService struct {
	equipmentRepo repository.EquipmentRepository
}

func NewEquipmentService(equipmentRepo repository.EquipmentRepository) *EquipmentService {
	return &EquipmentService{equipmentRepo: equipmentRepo}
}

func (s *EquipmentService) Create(ctx context.Context, params model.CreateEquipmentParams) (*model.Equipment, error) {
	if params.Name == "" {
		return nil, apperrors.MissingRequired("name")
	}

	equipment, err := s.equipmentRepo.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create equipment: %w", err)
	}
	return equipment, nil
}

// Get returns the equipment only when it belongs to the given company.
func (s *EquipmentService) Get(ctx context.Context, id, companyID string) (*model.Equipment, error) {
	equipment, err := s.equipmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find equipment: %w", err)
	}
	if equipment == nil || equipment.CompanyID != companyID {
		return nil, apperrors.NotFound("Equipment")
	}
	return equipment, nil
}

func (s *EquipmentService) List(ctx context.Context, companyID string, limit, offset int) ([]model.Equipment, error) {
	items, err := s.equipmentRepo.FindByCompanyID(ctx, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	return items, nil
}

func (s *EquipmentService) Update(ctx context.Context, id, companyID string, params model.UpdateEquipmentParams) (*model.Equipment, error) {
	if _, err := s.Get(ctx, id, companyID); err != nil {
		return nil, err
	}

	if params.Status != nil && !params.Status.IsValid() {
		return nil, apperrors.InvalidInput("status", "unknown equipment status")
	}

	equipment, err := s.equipmentRepo.Update(ctx, id, params)
	if err != nil {
		return nil, fmt.Errorf("update equipment: %w", err)
	}
	return equipment, nil
}

func (s *EquipmentService) Delete(ctx context.Context, id, companyID string) error {
	if _, err := s.Get(ctx, id, companyID); err != nil {
		return err
	}

	if err := s.equipmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete equipment: %w", err)
	}
	return nil
}

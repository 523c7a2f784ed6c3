package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	apperrors "github.com/gearbase/cmms-server-go/internal/errors"
	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/repository"
)

type WorkOrderService struct {
	workOrderRepo repository.WorkOrderRepository
	equipmentRepo repository.EquipmentRepository
	notifications *NotificationService
}

func NewWorkOrderService(
	workOrderRepo repository.WorkOrderRepository,
	equipmentRepo repository.EquipmentRepository,
	notifications *NotificationService,
) *WorkOrderService {
	return &WorkOrderService{
		workOrderRepo: workOrderRepo,
		equipmentRepo: equipmentRepo,
		notifications: notifications,
	}
}

func (s *WorkOrderService) Create(ctx context.Context, params model.CreateWorkOrderParams) (*model.WorkOrder, error) {
	if params.Title == "" {
		return nil, apperrors.MissingRequired("title")
	}
	if params.Priority == "" {
		params.Priority = model.WorkOrderPriorityMedium
	}
	if !params.Priority.IsValid() {
		return nil, apperrors.InvalidInput("priority", "unknown work order priority")
	}

	if params.EquipmentID != nil {
		equipment, err := s.equipmentRepo.FindByID(ctx, *params.EquipmentID)
		if err != nil {
			return nil, fmt.Errorf("find equipment: %w", err)
		}
		if equipment == nil || equipment.CompanyID != params.CompanyID {
			return nil, apperrors.NotFound("Equipment")
		}
	}

	workOrder, err := s.workOrderRepo.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create work order: %w", err)
	}

	if params.AssignedTo != nil && *params.AssignedTo != params.CreatedBy {
		s.notifyAssignee(ctx, *params.AssignedTo, workOrder)
	}

	return workOrder, nil
}

func (s *WorkOrderService) Get(ctx context.Context, id, companyID string) (*model.WorkOrder, error) {
	workOrder, err := s.workOrderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find work order: %w", err)
	}
	if workOrder == nil || workOrder.CompanyID != companyID {
		return nil, apperrors.NotFound("WorkOrder")
	}
	return workOrder, nil
}

func (s *WorkOrderService) List(ctx context.Context, companyID string, limit, offset int) ([]model.WorkOrder, error) {
	items, err := s.workOrderRepo.FindByCompanyID(ctx, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	return items, nil
}

func (s *WorkOrderService) Update(ctx context.Context, id, companyID string, params model.UpdateWorkOrderParams) (*model.WorkOrder, error) {
	existing, err := s.Get(ctx, id, companyID)
	if err != nil {
		return nil, err
	}

	if params.Status != nil && !params.Status.IsValid() {
		return nil, apperrors.InvalidInput("status", "unknown work order status")
	}
	if params.Priority != nil && !params.Priority.IsValid() {
		return nil, apperrors.InvalidInput("priority", "unknown work order priority")
	}

	workOrder, err := s.workOrderRepo.Update(ctx, id, params)
	if err != nil {
		return nil, fmt.Errorf("update work order: %w", err)
	}

	reassigned := params.AssignedTo != nil &&
		(existing.AssignedTo == nil || *existing.AssignedTo != *params.AssignedTo)
	if reassigned {
		s.notifyAssignee(ctx, *params.AssignedTo, workOrder)
	}

	return workOrder, nil
}

func (s *WorkOrderService) Delete(ctx context.Context, id, companyID string) error {
	if _, err := s.Get(ctx, id, companyID); err != nil {
		return err
	}

	if err := s.workOrderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete work order: %w", err)
	}
	return nil
}

func (s *WorkOrderService) notifyAssignee(ctx context.Context, assigneeID string, workOrder *model.WorkOrder) {
	_, err := s.notifications.Notify(ctx, model.CreateNotificationParams{
		UserID: assigneeID,
		Title:  "Work order assigned",
		Body:   fmt.Sprintf("You have been assigned to %q", workOrder.Title),
	})
	if err != nil {
		log.Warn().Err(err).
			Str("workOrderId", workOrder.ID).
			Str("assigneeId", assigneeID).
			Msg("failed to notify assignee")
	}
}

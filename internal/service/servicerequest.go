package service

import (
	"context"
	"fmt"

	apperrors "github.com/gearbase/cmms-server-go/internal/errors"
	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/repository"
)

type ServiceRequestService struct {
	requestRepo repository.ServiceRequestRepository
	workOrders  *WorkOrderService
}

func NewServiceRequestService(requestRepo repository.ServiceRequestRepository, workOrders *WorkOrderService) *ServiceRequestService {
	return &ServiceRequestService{
		requestRepo: requestRepo,
		workOrders:  workOrders,
	}
}

func (s *ServiceRequestService) Create(ctx context.Context, params model.CreateServiceRequestParams) (*model.ServiceRequest, error) {
	if params.Title == "" {
		return nil, apperrors.MissingRequired("title")
	}

	request, err := s.requestRepo.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create service request: %w", err)
	}
	return request, nil
}

func (s *ServiceRequestService) Get(ctx context.Context, id, companyID string) (*model.ServiceRequest, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find service request: %w", err)
	}
	if request == nil || request.CompanyID != companyID {
		return nil, apperrors.NotFound("ServiceRequest")
	}
	return request, nil
}

func (s *ServiceRequestService) List(ctx context.Context, companyID string, limit, offset int) ([]model.ServiceRequest, error) {
	items, err := s.requestRepo.FindByCompanyID(ctx, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list service requests: %w", err)
	}
	return items, nil
}

func (s *ServiceRequestService) UpdateStatus(ctx context.Context, id, companyID string, status model.ServiceRequestStatus) (*model.ServiceRequest, error) {
	request, err := s.Get(ctx, id, companyID)
	if err != nil {
		return nil, err
	}

	switch status {
	case model.ServiceRequestStatusApproved, model.ServiceRequestStatusRejected:
	default:
		return nil, apperrors.InvalidInput("status", "only approved or rejected can be set directly")
	}
	if request.Status != model.ServiceRequestStatusPending {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "service request is no longer pending")
	}

	if err := s.requestRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update service request: %w", err)
	}
	return s.Get(ctx, id, companyID)
}

// Convert approves the request and opens a work order for it in one step.
func (s *ServiceRequestService) Convert(ctx context.Context, id, companyID, convertedBy string) (*model.WorkOrder, error) {
	request, err := s.Get(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	if request.Status == model.ServiceRequestStatusConverted {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "service request already converted")
	}
	if request.Status == model.ServiceRequestStatusRejected {
		return nil, apperrors.New(apperrors.ErrCodeConflict, "service request was rejected")
	}

	workOrder, err := s.workOrders.Create(ctx, model.CreateWorkOrderParams{
		CompanyID:   request.CompanyID,
		EquipmentID: request.EquipmentID,
		Title:       request.Title,
		Description: request.Description,
		Priority:    model.WorkOrderPriorityMedium,
		CreatedBy:   convertedBy,
	})
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.LinkWorkOrder(ctx, id, workOrder.ID); err != nil {
		return nil, fmt.Errorf("link work order: %w", err)
	}

	return workOrder, nil
}

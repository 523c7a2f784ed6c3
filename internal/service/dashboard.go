package service

import (
	"context"
	"fmt"

	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/repository"
)

// DashboardSummary holds the per-company counts shown on the landing view.
type DashboardSummary struct {
	EquipmentCount         int `json:"equipmentCount"`
	OpenWorkOrders         int `json:"openWorkOrders"`
	InProgressWorkOrders   int `json:"inProgressWorkOrders"`
	CompletedWorkOrders    int `json:"completedWorkOrders"`
	PendingServiceRequests int `json:"pendingServiceRequests"`
}

type DashboardService struct {
	equipmentRepo      repository.EquipmentRepository
	workOrderRepo      repository.WorkOrderRepository
	serviceRequestRepo repository.ServiceRequestRepository
}

func NewDashboardService(
	equipmentRepo repository.EquipmentRepository,
	workOrderRepo repository.WorkOrderRepository,
	serviceRequestRepo repository.ServiceRequestRepository,
) *DashboardService {
	return &DashboardService{
		equipmentRepo:      equipmentRepo,
		workOrderRepo:      workOrderRepo,
		serviceRequestRepo: serviceRequestRepo,
	}
}

func (s *DashboardService) Summary(ctx context.Context, companyID string) (*DashboardSummary, error) {
	summary := &DashboardSummary{}
	var err error

	summary.EquipmentCount, err = s.equipmentRepo.CountByCompanyID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("count equipment: %w", err)
	}

	workOrderCounts := []struct {
		status model.WorkOrderStatus
		dest   *int
	}{
		{model.WorkOrderStatusOpen, &summary.OpenWorkOrders},
		{model.WorkOrderStatusInProgress, &summary.InProgressWorkOrders},
		{model.WorkOrderStatusCompleted, &summary.CompletedWorkOrders},
	}
	for _, c := range workOrderCounts {
		*c.dest, err = s.workOrderRepo.CountByCompanyIDAndStatus(ctx, companyID, c.status)
		if err != nil {
			return nil, fmt.Errorf("count work orders (%s): %w", c.status, err)
		}
	}

	summary.PendingServiceRequests, err = s.serviceRequestRepo.CountByCompanyIDAndStatus(ctx, companyID, model.ServiceRequestStatusPending)
	if err != nil {
		return nil, fmt.Errorf("count service requests: %w", err)
	}

	return summary, nil
}

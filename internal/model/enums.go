package model

// Role is the user's global role on the profile row.
type Role string

const (
	RoleAdmin             Role = "admin"
	RoleCompanyAdmin      Role = "company_admin"
	RoleCompanyTechnician Role = "company_technician"
	RoleCompanyViewer     Role = "company_viewer"
	RoleClient            Role = "client"
)

// RequiresCompany reports whether a role only makes sense inside a company
// context. Users with these roles cannot reach an authenticated state
// without a current company.
func (r Role) RequiresCompany() bool {
	switch r {
	case RoleCompanyAdmin, RoleCompanyTechnician, RoleCompanyViewer:
		return true
	}
	return false
}

type LicenseStatus string

const (
	LicenseStatusTrialing       LicenseStatus = "trialing"
	LicenseStatusActive         LicenseStatus = "active"
	LicenseStatusPastDue        LicenseStatus = "past_due"
	LicenseStatusCanceled       LicenseStatus = "canceled"
	LicenseStatusExpired        LicenseStatus = "expired"
	LicenseStatusPendingRenewal LicenseStatus = "pending_renewal"
	LicenseStatusUnpaid         LicenseStatus = "unpaid"
	LicenseStatusInactive       LicenseStatus = "inactive"
)

type EquipmentStatus string

const (
	EquipmentStatusOperational EquipmentStatus = "operational"
	EquipmentStatusMaintenance EquipmentStatus = "maintenance"
	EquipmentStatusBroken      EquipmentStatus = "broken"
	EquipmentStatusRetired     EquipmentStatus = "retired"
)

func (s EquipmentStatus) IsValid() bool {
	switch s {
	case EquipmentStatusOperational, EquipmentStatusMaintenance, EquipmentStatusBroken, EquipmentStatusRetired:
		return true
	}
	return false
}

type WorkOrderStatus string

const (
	WorkOrderStatusOpen       WorkOrderStatus = "open"
	WorkOrderStatusInProgress WorkOrderStatus = "in_progress"
	WorkOrderStatusOnHold     WorkOrderStatus = "on_hold"
	WorkOrderStatusCompleted  WorkOrderStatus = "completed"
	WorkOrderStatusCanceled   WorkOrderStatus = "canceled"
)

func (s WorkOrderStatus) IsValid() bool {
	switch s {
	case WorkOrderStatusOpen, WorkOrderStatusInProgress, WorkOrderStatusOnHold, WorkOrderStatusCompleted, WorkOrderStatusCanceled:
		return true
	}
	return false
}

type WorkOrderPriority string

const (
	WorkOrderPriorityLow    WorkOrderPriority = "low"
	WorkOrderPriorityMedium WorkOrderPriority = "medium"
	WorkOrderPriorityHigh   WorkOrderPriority = "high"
	WorkOrderPriorityUrgent WorkOrderPriority = "urgent"
)

func (p WorkOrderPriority) IsValid() bool {
	switch p {
	case WorkOrderPriorityLow, WorkOrderPriorityMedium, WorkOrderPriorityHigh, WorkOrderPriorityUrgent:
		return true
	}
	return false
}

type ServiceRequestStatus string

const (
	ServiceRequestStatusPending   ServiceRequestStatus = "pending"
	ServiceRequestStatusApproved  ServiceRequestStatus = "approved"
	ServiceRequestStatusRejected  ServiceRequestStatus = "rejected"
	ServiceRequestStatusConverted ServiceRequestStatus = "converted"
)

package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	var user *model.User
	if args.Get(0) != nil {
		user = args.Get(0).(*model.User)
	}
	return user, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	var user *model.User
	if args.Get(0) != nil {
		user = args.Get(0).(*model.User)
	}
	return user, args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, params model.CreateUserParams) (*model.User, error) {
	args := m.Called(ctx, params)
	var user *model.User
	if args.Get(0) != nil {
		user = args.Get(0).(*model.User)
	}
	return user, args.Error(1)
}

func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *mockUserRepo) WithTx(tx *sqlx.Tx) repository.UserRepository {
	return m
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.AuthSession, error) {
	args := m.Called(ctx, id)
	var session *model.AuthSession
	if args.Get(0) != nil {
		session = args.Get(0).(*model.AuthSession)
	}
	return session, args.Error(1)
}

func (m *mockSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.AuthSession, error) {
	args := m.Called(ctx, tokenHash)
	var session *model.AuthSession
	if args.Get(0) != nil {
		session = args.Get(0).(*model.AuthSession)
	}
	return session, args.Error(1)
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreateAuthSessionParams) (*model.AuthSession, error) {
	args := m.Called(ctx, params)
	var session *model.AuthSession
	if args.Get(0) != nil {
		session = args.Get(0).(*model.AuthSession)
	}
	return session, args.Error(1)
}

func (m *mockSessionRepo) Revoke(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSessionRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepo) WithTx(tx *sqlx.Tx) repository.AuthSessionRepository {
	return m
}

type mockProfileRepo struct {
	mock.Mock
}

func (m *mockProfileRepo) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	args := m.Called(ctx, id)
	var profile *model.Profile
	if args.Get(0) != nil {
		profile = args.Get(0).(*model.Profile)
	}
	return profile, args.Error(1)
}

func (m *mockProfileRepo) Create(ctx context.Context, params model.CreateProfileParams) (*model.Profile, error) {
	args := m.Called(ctx, params)
	var profile *model.Profile
	if args.Get(0) != nil {
		profile = args.Get(0).(*model.Profile)
	}
	return profile, args.Error(1)
}

func (m *mockProfileRepo) Update(ctx context.Context, id string, params model.UpdateProfileParams) (*model.Profile, error) {
	args := m.Called(ctx, id, params)
	var profile *model.Profile
	if args.Get(0) != nil {
		profile = args.Get(0).(*model.Profile)
	}
	return profile, args.Error(1)
}

func (m *mockProfileRepo) SetCurrentCompany(ctx context.Context, id string, companyID string) error {
	args := m.Called(ctx, id, companyID)
	return args.Error(0)
}

func (m *mockProfileRepo) WithTx(tx *sqlx.Tx) repository.ProfileRepository {
	return m
}

type mockCompanyRepo struct {
	mock.Mock
}

func (m *mockCompanyRepo) FindByID(ctx context.Context, id string) (*model.Company, error) {
	args := m.Called(ctx, id)
	var company *model.Company
	if args.Get(0) != nil {
		company = args.Get(0).(*model.Company)
	}
	return company, args.Error(1)
}

func (m *mockCompanyRepo) Create(ctx context.Context, params model.CreateCompanyParams) (*model.Company, error) {
	args := m.Called(ctx, params)
	var company *model.Company
	if args.Get(0) != nil {
		company = args.Get(0).(*model.Company)
	}
	return company, args.Error(1)
}

func (m *mockCompanyRepo) ListMemberships(ctx context.Context, userID string) ([]model.CompanyMembership, error) {
	args := m.Called(ctx, userID)
	var memberships []model.CompanyMembership
	if args.Get(0) != nil {
		memberships = args.Get(0).([]model.CompanyMembership)
	}
	return memberships, args.Error(1)
}

func (m *mockCompanyRepo) AddMember(ctx context.Context, companyID, userID string, role model.Role) error {
	args := m.Called(ctx, companyID, userID, role)
	return args.Error(0)
}

func (m *mockCompanyRepo) RemoveMember(ctx context.Context, companyID, userID string) error {
	args := m.Called(ctx, companyID, userID)
	return args.Error(0)
}

func (m *mockCompanyRepo) WithTx(tx *sqlx.Tx) repository.CompanyRepository {
	return m
}

type mockLicenseRepo struct {
	mock.Mock
}

func (m *mockLicenseRepo) FindByID(ctx context.Context, id string) (*model.License, error) {
	args := m.Called(ctx, id)
	var license *model.License
	if args.Get(0) != nil {
		license = args.Get(0).(*model.License)
	}
	return license, args.Error(1)
}

func (m *mockLicenseRepo) FindCurrentForUser(ctx context.Context, userID string, companyID *string) (*model.License, error) {
	args := m.Called(ctx, userID, companyID)
	var license *model.License
	if args.Get(0) != nil {
		license = args.Get(0).(*model.License)
	}
	return license, args.Error(1)
}

func (m *mockLicenseRepo) Create(ctx context.Context, params model.CreateLicenseParams) (*model.License, error) {
	args := m.Called(ctx, params)
	var license *model.License
	if args.Get(0) != nil {
		license = args.Get(0).(*model.License)
	}
	return license, args.Error(1)
}

func (m *mockLicenseRepo) UpdateStatus(ctx context.Context, id string, status model.LicenseStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockLicenseRepo) MarkExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLicenseRepo) WithTx(tx *sqlx.Tx) repository.LicenseRepository {
	return m
}

type mockLicenseTypeRepo struct {
	mock.Mock
}

func (m *mockLicenseTypeRepo) FindByID(ctx context.Context, id string) (*model.LicenseType, error) {
	args := m.Called(ctx, id)
	var licenseType *model.LicenseType
	if args.Get(0) != nil {
		licenseType = args.Get(0).(*model.LicenseType)
	}
	return licenseType, args.Error(1)
}

func (m *mockLicenseTypeRepo) List(ctx context.Context) ([]model.LicenseType, error) {
	args := m.Called(ctx)
	var licenseTypes []model.LicenseType
	if args.Get(0) != nil {
		licenseTypes = args.Get(0).([]model.LicenseType)
	}
	return licenseTypes, args.Error(1)
}

func (m *mockLicenseTypeRepo) WithTx(tx *sqlx.Tx) repository.LicenseTypeRepository {
	return m
}

type mockEquipmentRepo struct {
	mock.Mock
}

func (m *mockEquipmentRepo) FindByID(ctx context.Context, id string) (*model.Equipment, error) {
	args := m.Called(ctx, id)
	var equipment *model.Equipment
	if args.Get(0) != nil {
		equipment = args.Get(0).(*model.Equipment)
	}
	return equipment, args.Error(1)
}

func (m *mockEquipmentRepo) FindByCompanyID(ctx context.Context, companyID string, limit, offset int) ([]model.Equipment, error) {
	args := m.Called(ctx, companyID, limit, offset)
	var items []model.Equipment
	if args.Get(0) != nil {
		items = args.Get(0).([]model.Equipment)
	}
	return items, args.Error(1)
}

func (m *mockEquipmentRepo) CountByCompanyID(ctx context.Context, companyID string) (int, error) {
	args := m.Called(ctx, companyID)
	return args.Int(0), args.Error(1)
}

func (m *mockEquipmentRepo) Create(ctx context.Context, params model.CreateEquipmentParams) (*model.Equipment, error) {
	args := m.Called(ctx, params)
	var equipment *model.Equipment
	if args.Get(0) != nil {
		equipment = args.Get(0).(*model.Equipment)
	}
	return equipment, args.Error(1)
}

func (m *mockEquipmentRepo) Update(ctx context.Context, id string, params model.UpdateEquipmentParams) (*model.Equipment, error) {
	args := m.Called(ctx, id, params)
	var equipment *model.Equipment
	if args.Get(0) != nil {
		equipment = args.Get(0).(*model.Equipment)
	}
	return equipment, args.Error(1)
}

func (m *mockEquipmentRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockEquipmentRepo) WithTx(tx *sqlx.Tx) repository.EquipmentRepository {
	return m
}

type mockWorkOrderRepo struct {
	mock.Mock
}

func (m *mockWorkOrderRepo) FindByID(ctx context.Context, id string) (*model.WorkOrder, error) {
	args := m.Called(ctx, id)
	var workOrder *model.WorkOrder
	if args.Get(0) != nil {
		workOrder = args.Get(0).(*model.WorkOrder)
	}
	return workOrder, args.Error(1)
}

func (m *mockWorkOrderRepo) FindByCompanyID(ctx context.Context, companyID string, limit, offset int) ([]model.WorkOrder, error) {
	args := m.Called(ctx, companyID, limit, offset)
	var items []model.WorkOrder
	if args.Get(0) != nil {
		items = args.Get(0).([]model.WorkOrder)
	}
	return items, args.Error(1)
}

func (m *mockWorkOrderRepo) CountByCompanyIDAndStatus(ctx context.Context, companyID string, status model.WorkOrderStatus) (int, error) {
	args := m.Called(ctx, companyID, status)
	return args.Int(0), args.Error(1)
}

func (m *mockWorkOrderRepo) Create(ctx context.Context, params model.CreateWorkOrderParams) (*model.WorkOrder, error) {
	args := m.Called(ctx, params)
	var workOrder *model.WorkOrder
	if args.Get(0) != nil {
		workOrder = args.Get(0).(*model.WorkOrder)
	}
	return workOrder, args.Error(1)
}

func (m *mockWorkOrderRepo) Update(ctx context.Context, id string, params model.UpdateWorkOrderParams) (*model.WorkOrder, error) {
	args := m.Called(ctx, id, params)
	var workOrder *model.WorkOrder
	if args.Get(0) != nil {
		workOrder = args.Get(0).(*model.WorkOrder)
	}
	return workOrder, args.Error(1)
}

func (m *mockWorkOrderRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockWorkOrderRepo) WithTx(tx *sqlx.Tx) repository.WorkOrderRepository {
	return m
}

type mockNotificationRepo struct {
	mock.Mock
}

func (m *mockNotificationRepo) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	args := m.Called(ctx, id)
	var notification *model.Notification
	if args.Get(0) != nil {
		notification = args.Get(0).(*model.Notification)
	}
	return notification, args.Error(1)
}

func (m *mockNotificationRepo) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	args := m.Called(ctx, userID, limit, offset)
	var items []model.Notification
	if args.Get(0) != nil {
		items = args.Get(0).([]model.Notification)
	}
	return items, args.Error(1)
}

func (m *mockNotificationRepo) CountUnreadByUserID(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockNotificationRepo) Create(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error) {
	args := m.Called(ctx, params)
	var notification *model.Notification
	if args.Get(0) != nil {
		notification = args.Get(0).(*model.Notification)
	}
	return notification, args.Error(1)
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id string, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockNotificationRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepo) WithTx(tx *sqlx.Tx) repository.NotificationRepository {
	return m
}

type mockServiceRequestRepo struct {
	mock.Mock
}

func (m *mockServiceRequestRepo) FindByID(ctx context.Context, id string) (*model.ServiceRequest, error) {
	args := m.Called(ctx, id)
	var request *model.ServiceRequest
	if args.Get(0) != nil {
		request = args.Get(0).(*model.ServiceRequest)
	}
	return request, args.Error(1)
}

func (m *mockServiceRequestRepo) FindByCompanyID(ctx context.Context, companyID string, limit, offset int) ([]model.ServiceRequest, error) {
	args := m.Called(ctx, companyID, limit, offset)
	var items []model.ServiceRequest
	if args.Get(0) != nil {
		items = args.Get(0).([]model.ServiceRequest)
	}
	return items, args.Error(1)
}

func (m *mockServiceRequestRepo) CountByCompanyIDAndStatus(ctx context.Context, companyID string, status model.ServiceRequestStatus) (int, error) {
	args := m.Called(ctx, companyID, status)
	return args.Int(0), args.Error(1)
}

func (m *mockServiceRequestRepo) Create(ctx context.Context, params model.CreateServiceRequestParams) (*model.ServiceRequest, error) {
	args := m.Called(ctx, params)
	var request *model.ServiceRequest
	if args.Get(0) != nil {
		request = args.Get(0).(*model.ServiceRequest)
	}
	return request, args.Error(1)
}

func (m *mockServiceRequestRepo) UpdateStatus(ctx context.Context, id string, status model.ServiceRequestStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockServiceRequestRepo) LinkWorkOrder(ctx context.Context, id string, workOrderID string) error {
	args := m.Called(ctx, id, workOrderID)
	return args.Error(0)
}

func (m *mockServiceRequestRepo) WithTx(tx *sqlx.Tx) repository.ServiceRequestRepository {
	return m
}

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

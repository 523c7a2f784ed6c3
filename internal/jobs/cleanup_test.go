package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/gearbase/cmms-server-go/internal/model"
	"github.com/gearbase/cmms-server-go/internal/repository"
)

type stubSessionRepo struct {
	deleteExpiredCount int64
	calls              atomic.Int32
}

func (m *stubSessionRepo) FindByID(ctx context.Context, id string) (*model.AuthSession, error) {
	return nil, nil
}

func (m *stubSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.AuthSession, error) {
	return nil, nil
}

func (m *stubSessionRepo) Create(ctx context.Context, params model.CreateAuthSessionParams) (*model.AuthSession, error) {
	return nil, nil
}

func (m *stubSessionRepo) Revoke(ctx context.Context, id string) error {
	return nil
}

func (m *stubSessionRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	return nil
}

func (m *stubSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	m.calls.Add(1)
	return m.deleteExpiredCount, nil
}

func (m *stubSessionRepo) WithTx(tx *sqlx.Tx) repository.AuthSessionRepository {
	return m
}

type stubLicenseRepo struct {
	markExpiredCount int64
	calls            atomic.Int32
}

func (m *stubLicenseRepo) FindByID(ctx context.Context, id string) (*model.License, error) {
	return nil, nil
}

func (m *stubLicenseRepo) FindCurrentForUser(ctx context.Context, userID string, companyID *string) (*model.License, error) {
	return nil, nil
}

func (m *stubLicenseRepo) Create(ctx context.Context, params model.CreateLicenseParams) (*model.License, error) {
	return nil, nil
}

func (m *stubLicenseRepo) UpdateStatus(ctx context.Context, id string, status model.LicenseStatus) error {
	return nil
}

func (m *stubLicenseRepo) MarkExpired(ctx context.Context) (int64, error) {
	m.calls.Add(1)
	return m.markExpiredCount, nil
}

func (m *stubLicenseRepo) WithTx(tx *sqlx.Tx) repository.LicenseRepository {
	return m
}

type stubNotificationRepo struct {
	deletedCount int64
	calls        atomic.Int32
}

func (m *stubNotificationRepo) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	return nil, nil
}

func (m *stubNotificationRepo) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	return nil, nil
}

func (m *stubNotificationRepo) CountUnreadByUserID(ctx context.Context, userID string) (int, error) {
	return 0, nil
}

func (m *stubNotificationRepo) Create(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error) {
	return nil, nil
}

func (m *stubNotificationRepo) MarkRead(ctx context.Context, id string, userID string) error {
	return nil
}

func (m *stubNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	return nil
}

func (m *stubNotificationRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	m.calls.Add(1)
	return m.deletedCount, nil
}

func (m *stubNotificationRepo) WithTx(tx *sqlx.Tx) repository.NotificationRepository {
	return m
}

func TestCleanupJob(t *testing.T) {
	t.Run("creates job with correct interval", func(t *testing.T) {
		job := NewCleanupJob(nil, nil, nil, 5*time.Minute)

		assert.NotNil(t, job)
		assert.Equal(t, 5*time.Minute, job.interval)
	})

	t.Run("runs all cleanups on start", func(t *testing.T) {
		sessionRepo := &stubSessionRepo{deleteExpiredCount: 2}
		licenseRepo := &stubLicenseRepo{markExpiredCount: 1}
		notificationRepo := &stubNotificationRepo{deletedCount: 7}

		job := NewCleanupJob(sessionRepo, licenseRepo, notificationRepo, time.Hour)

		job.Start()
		time.Sleep(50 * time.Millisecond)
		job.Stop()

		assert.GreaterOrEqual(t, sessionRepo.calls.Load(), int32(1))
		assert.GreaterOrEqual(t, licenseRepo.calls.Load(), int32(1))
		assert.GreaterOrEqual(t, notificationRepo.calls.Load(), int32(1))
	})

	t.Run("stops without panic", func(t *testing.T) {
		job := NewCleanupJob(&stubSessionRepo{}, &stubLicenseRepo{}, &stubNotificationRepo{}, 10*time.Millisecond)

		job.Start()
		time.Sleep(30 * time.Millisecond)
		job.Stop()
	})
}

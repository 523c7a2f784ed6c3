package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gearbase/cmms-server-go/internal/database"
	"github.com/gearbase/cmms-server-go/internal/model"
)

type NotificationRepository interface {
	FindByID(ctx context.Context, id string) (*model.Notification, error)
	FindByUserID(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error)
	CountUnreadByUserID(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error)
	MarkRead(ctx context.Context, id string, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) NotificationRepository
}

type notificationRepo struct {
	db database.DBTX
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) WithTx(tx *sqlx.Tx) NotificationRepository {
	return &notificationRepo{db: tx}
}

func (r *notificationRepo) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.GetContext(ctx, &notification, `
		SELECT * FROM notifications WHERE id = $1
	`, id)
	return HandleNotFound(&notification, err)
}

func (r *notificationRepo) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]model.Notification, error) {
	notifications := []model.Notification{}
	err := r.db.SelectContext(ctx, &notifications, `
		SELECT * FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepo) CountUnreadByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND read = FALSE
	`, userID)
	return count, err
}

func (r *notificationRepo) Create(ctx context.Context, params model.CreateNotificationParams) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.GetContext(ctx, &notification, `
		INSERT INTO notifications (user_id, title, body)
		VALUES ($1, $2, $3)
		RETURNING *
	`, params.UserID, params.Title, params.Body)
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	return err
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE user_id = $1 AND read = FALSE
	`, userID)
	return err
}

func (r *notificationRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM notifications
		WHERE read = TRUE AND created_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

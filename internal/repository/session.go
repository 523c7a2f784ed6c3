package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/gearbase/cmms-server-go/internal/database"
	"github.com/gearbase/cmms-server-go/internal/model"
)

type AuthSessionRepository interface {
	FindByID(ctx context.Context, id string) (*model.AuthSession, error)
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.AuthSession, error)
	Create(ctx context.Context, params model.CreateAuthSessionParams) (*model.AuthSession, error)
	Revoke(ctx context.Context, id string) error
	RevokeAllForUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) (int64, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) AuthSessionRepository
}

type authSessionRepo struct {
	db database.DBTX
}

func NewAuthSessionRepository(db *sqlx.DB) AuthSessionRepository {
	return &authSessionRepo{db: db}
}

func (r *authSessionRepo) WithTx(tx *sqlx.Tx) AuthSessionRepository {
	return &authSessionRepo{db: tx}
}

func (r *authSessionRepo) FindByID(ctx context.Context, id string) (*model.AuthSession, error) {
	var session model.AuthSession
	err := r.db.GetContext(ctx, &session, `
		SELECT * FROM auth_sessions WHERE id = $1
	`, id)
	return HandleNotFound(&session, err)
}

func (r *authSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.AuthSession, error) {
	var session model.AuthSession
	err := r.db.GetContext(ctx, &session, `
		SELECT * FROM auth_sessions
		WHERE token_hash = $1
		AND revoked_at IS NULL
		AND expires_at > NOW()
	`, tokenHash)
	return HandleNotFound(&session, err)
}

func (r *authSessionRepo) Create(ctx context.Context, params model.CreateAuthSessionParams) (*model.AuthSession, error) {
	var session model.AuthSession
	err := r.db.GetContext(ctx, &session, `
		INSERT INTO auth_sessions (user_id, token_hash, recovery, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.UserID, params.TokenHash, params.Recovery, params.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *authSessionRepo) Revoke(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE auth_sessions SET revoked_at = NOW()
		WHERE id = $1 AND revoked_at IS NULL
	`, id)
	return err
}

func (r *authSessionRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE auth_sessions SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL
	`, userID)
	return err
}

func (r *authSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM auth_sessions
		WHERE expires_at < NOW() OR revoked_at IS NOT NULL
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

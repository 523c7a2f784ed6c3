package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/gearbase/cmms-server-go/internal/database"
	"github.com/gearbase/cmms-server-go/internal/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, params model.CreateUserParams) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) UserRepository
}

type userRepo struct {
	db database.DBTX
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) WithTx(tx *sqlx.Tx) UserRepository {
	return &userRepo{db: tx}
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM users WHERE id = $1
	`, id)
	return HandleNotFound(&user, err)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM users WHERE email = $1
	`, email)
	return HandleNotFound(&user, err)
}

func (r *userRepo) Create(ctx context.Context, params model.CreateUserParams) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING *
	`, params.Email, params.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET
			password_hash = $2,
			updated_at = NOW()
		WHERE id = $1
	`, id, passwordHash)
	return err
}

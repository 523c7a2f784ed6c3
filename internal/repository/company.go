package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/gearbase/cmms-server-go/internal/database"
	"github.com/gearbase/cmms-server-go/internal/model"
)

type CompanyRepository interface {
	FindByID(ctx context.Context, id string) (*model.Company, error)
	Create(ctx context.Context, params model.CreateCompanyParams) (*model.Company, error)
	ListMemberships(ctx context.Context, userID string) ([]model.CompanyMembership, error)
	AddMember(ctx context.Context, companyID, userID string, role model.Role) error
	RemoveMember(ctx context.Context, companyID, userID string) error
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) CompanyRepository
}

type companyRepo struct {
	db database.DBTX
}

func NewCompanyRepository(db *sqlx.DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) WithTx(tx *sqlx.Tx) CompanyRepository {
	return &companyRepo{db: tx}
}

func (r *companyRepo) FindByID(ctx context.Context, id string) (*model.Company, error) {
	var company model.Company
	err := r.db.GetContext(ctx, &company, `
		SELECT * FROM companies WHERE id = $1
	`, id)
	return HandleNotFound(&company, err)
}

func (r *companyRepo) Create(ctx context.Context, params model.CreateCompanyParams) (*model.Company, error) {
	var company model.Company
	err := r.db.GetContext(ctx, &company, `
		INSERT INTO companies (name, owner_id)
		VALUES ($1, $2)
		RETURNING *
	`, params.Name, params.OwnerID)
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// ListMemberships returns every company the user belongs to, joined with the
// user's role inside each, newest membership last.
func (r *companyRepo) ListMemberships(ctx context.Context, userID string) ([]model.CompanyMembership, error) {
	memberships := []model.CompanyMembership{}
	err := r.db.SelectContext(ctx, &memberships, `
		SELECT
			c.id AS company_id,
			c.name AS company_name,
			c.owner_id AS owner_id,
			up.role AS role,
			up.created_at AS joined_at
		FROM user_permissions up
		JOIN companies c ON c.id = up.company_id
		WHERE up.user_id = $1
		ORDER BY up.created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *companyRepo) AddMember(ctx context.Context, companyID, userID string, role model.Role) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_permissions (user_id, company_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, company_id) DO UPDATE SET role = $3
	`, userID, companyID, role)
	return err
}

func (r *companyRepo) RemoveMember(ctx context.Context, companyID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM user_permissions
		WHERE user_id = $1 AND company_id = $2
	`, userID, companyID)
	return err
}

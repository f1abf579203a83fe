package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
	EmailExists(ctx context.Context, companyID, email string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// Create runs on the transaction when one is attached, so the employee row
// and its outbox event commit together.
func (r *repository) Create(ctx context.Context, e *Employee) error {
	if r.tx == nil {
		return r.db.WithContext(ctx).Create(e).Error
	}

	query := `
        INSERT INTO employees (
            id, company_id, employee_number, full_name, email, manager_id, hire_date, is_active, created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
    `
	_, err := r.tx.ExecContext(
		ctx, query,
		e.ID, e.CompanyID, e.EmployeeNumber, e.FullName, e.Email, e.ManagerID, e.HireDate, e.IsActive,
	)
	return err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("full_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) EmailExists(ctx context.Context, companyID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("company_id = ?", companyID).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

package leavepolicy

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leavepolicy_repo.go -destination=mock/leavepolicy_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, p *LeavePolicy) error
	FindAllByCompany(ctx context.Context, companyID string) ([]LeavePolicy, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeavePolicy, error)
	FindByEmployeeAndType(ctx context.Context, companyID, employeeID, leaveTypeID string) (*LeavePolicy, error)
	Update(ctx context.Context, p *LeavePolicy) error
	Delete(ctx context.Context, companyID, id string) error
	ActiveLeaveTypeIDs(ctx context.Context, companyID string) ([]string, error)

	// DefaultDays returns the annual accrual for (employee, type); the second
	// return reports whether a policy assignment exists at all.
	DefaultDays(ctx context.Context, companyID, employeeID, leaveTypeID string) (decimal.Decimal, bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *LeavePolicy) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]LeavePolicy, error) {
	var policies []LeavePolicy
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&policies).Error
	return policies, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeavePolicy, error) {
	var p LeavePolicy
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindByEmployeeAndType(ctx context.Context, companyID, employeeID, leaveTypeID string) (*LeavePolicy, error) {
	var p LeavePolicy
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		First(&p).Error
	return &p, err
}

func (r *repository) Update(ctx context.Context, p *LeavePolicy) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&LeavePolicy{}, "id = ?", id).Error
}

// ActiveLeaveTypeIDs reads the leave type catalog directly; provisioning needs
// the full active set, not the policy rows.
func (r *repository) ActiveLeaveTypeIDs(ctx context.Context, companyID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("leave_types").
		Where("company_id = ?", companyID).
		Where("is_active = ?", true).
		Where("deleted_at IS NULL").
		Pluck("id::text", &ids).Error
	return ids, err
}

func (r *repository) DefaultDays(ctx context.Context, companyID, employeeID, leaveTypeID string) (decimal.Decimal, bool, error) {
	p, err := r.FindByEmployeeAndType(ctx, companyID, employeeID, leaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return p.AnnualAccrualAmount, true, nil
}

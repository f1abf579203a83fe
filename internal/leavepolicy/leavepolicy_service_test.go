package leavepolicy_test

import (
	"context"
	"errors"
	"testing"

	"go-pto/internal/leavepolicy"
	leavepolicyerrors "go-pto/internal/leavepolicy/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakePolicyRepository struct {
	createFn                func(ctx context.Context, p *leavepolicy.LeavePolicy) error
	findAllByCompanyFn      func(ctx context.Context, companyID string) ([]leavepolicy.LeavePolicy, error)
	findByIDAndCompanyFn    func(ctx context.Context, companyID, id string) (*leavepolicy.LeavePolicy, error)
	findByEmployeeAndTypeFn func(ctx context.Context, companyID, employeeID, leaveTypeID string) (*leavepolicy.LeavePolicy, error)
	updateFn                func(ctx context.Context, p *leavepolicy.LeavePolicy) error
	deleteFn                func(ctx context.Context, companyID, id string) error
	activeLeaveTypeIDsFn    func(ctx context.Context, companyID string) ([]string, error)
	defaultDaysFn           func(ctx context.Context, companyID, employeeID, leaveTypeID string) (decimal.Decimal, bool, error)
}

func (f *fakePolicyRepository) Create(ctx context.Context, p *leavepolicy.LeavePolicy) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePolicyRepository) FindAllByCompany(ctx context.Context, companyID string) ([]leavepolicy.LeavePolicy, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakePolicyRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leavepolicy.LeavePolicy, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePolicyRepository) FindByEmployeeAndType(ctx context.Context, companyID, employeeID, leaveTypeID string) (*leavepolicy.LeavePolicy, error) {
	if f.findByEmployeeAndTypeFn != nil {
		return f.findByEmployeeAndTypeFn(ctx, companyID, employeeID, leaveTypeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePolicyRepository) Update(ctx context.Context, p *leavepolicy.LeavePolicy) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}

func (f *fakePolicyRepository) Delete(ctx context.Context, companyID, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, companyID, id)
	}
	return nil
}

func (f *fakePolicyRepository) ActiveLeaveTypeIDs(ctx context.Context, companyID string) ([]string, error) {
	if f.activeLeaveTypeIDsFn != nil {
		return f.activeLeaveTypeIDsFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakePolicyRepository) DefaultDays(ctx context.Context, companyID, employeeID, leaveTypeID string) (decimal.Decimal, bool, error) {
	if f.defaultDaysFn != nil {
		return f.defaultDaysFn(ctx, companyID, employeeID, leaveTypeID)
	}
	return decimal.Zero, false, nil
}

func TestLeavePolicyService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		repo := &fakePolicyRepository{}
		svc := leavepolicy.NewService(repo, zap.NewNop())

		resp, err := svc.Create(ctx, companyID, leavepolicy.CreateLeavePolicyRequest{
			EmployeeID:          uuid.New().String(),
			LeaveTypeID:         uuid.New().String(),
			InitialDays:         decimal.NewFromInt(20),
			AnnualAccrualAmount: decimal.NewFromInt(20),
		})

		assert.NoError(t, err)
		assert.True(t, resp.InitialDays.Equal(decimal.NewFromInt(20)))
	})

	t.Run("negative - duplicate assignment", func(t *testing.T) {
		repo := &fakePolicyRepository{
			createFn: func(ctx context.Context, p *leavepolicy.LeavePolicy) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_leave_policy_employee_type"}
			},
		}
		svc := leavepolicy.NewService(repo, zap.NewNop())

		_, err := svc.Create(ctx, companyID, leavepolicy.CreateLeavePolicyRequest{
			EmployeeID:  uuid.New().String(),
			LeaveTypeID: uuid.New().String(),
		})

		assert.ErrorIs(t, err, leavepolicyerrors.ErrPolicyAlreadyAssigned)
	})

	t.Run("negative - negative days", func(t *testing.T) {
		svc := leavepolicy.NewService(&fakePolicyRepository{}, zap.NewNop())

		_, err := svc.Create(ctx, companyID, leavepolicy.CreateLeavePolicyRequest{
			EmployeeID:  uuid.New().String(),
			LeaveTypeID: uuid.New().String(),
			InitialDays: decimal.NewFromInt(-1),
		})

		assert.ErrorIs(t, err, leavepolicyerrors.ErrNegativeDays)
	})
}

func TestLeavePolicyService_ProvisionDefaults(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("creates a policy per missing active type", func(t *testing.T) {
		typeA := uuid.New().String()
		typeB := uuid.New().String()

		var created []string
		repo := &fakePolicyRepository{
			activeLeaveTypeIDsFn: func(ctx context.Context, cid string) ([]string, error) {
				return []string{typeA, typeB}, nil
			},
			findAllByCompanyFn: func(ctx context.Context, cid string) ([]leavepolicy.LeavePolicy, error) {
				return []leavepolicy.LeavePolicy{
					{
						EmployeeID:  uuid.MustParse(employeeID),
						LeaveTypeID: uuid.MustParse(typeA),
					},
				}, nil
			},
			createFn: func(ctx context.Context, p *leavepolicy.LeavePolicy) error {
				created = append(created, p.LeaveTypeID.String())
				assert.True(t, p.AnnualAccrualAmount.IsZero())
				return nil
			},
		}
		svc := leavepolicy.NewService(repo, zap.NewNop())

		err := svc.ProvisionDefaults(ctx, companyID, employeeID)

		assert.NoError(t, err)
		assert.Equal(t, []string{typeB}, created)
	})

	t.Run("replay tolerates unique violations", func(t *testing.T) {
		typeA := uuid.New().String()
		repo := &fakePolicyRepository{
			activeLeaveTypeIDsFn: func(ctx context.Context, cid string) ([]string, error) {
				return []string{typeA}, nil
			},
			createFn: func(ctx context.Context, p *leavepolicy.LeavePolicy) error {
				return &pgconn.PgError{Code: "23505", ConstraintName: "uq_leave_policy_employee_type"}
			},
		}
		svc := leavepolicy.NewService(repo, zap.NewNop())

		err := svc.ProvisionDefaults(ctx, companyID, employeeID)

		assert.NoError(t, err)
	})

	t.Run("other db error surfaces", func(t *testing.T) {
		repo := &fakePolicyRepository{
			activeLeaveTypeIDsFn: func(ctx context.Context, cid string) ([]string, error) {
				return nil, errors.New("db error")
			},
		}
		svc := leavepolicy.NewService(repo, zap.NewNop())

		err := svc.ProvisionDefaults(ctx, companyID, employeeID)

		assert.Error(t, err)
	})
}

func TestLeavePolicyService_Update(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	policyID := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo := &fakePolicyRepository{
			findByIDAndCompanyFn: func(ctx context.Context, cid, id string) (*leavepolicy.LeavePolicy, error) {
				return &leavepolicy.LeavePolicy{
					ID:          policyID,
					CompanyID:   uuid.MustParse(cid),
					EmployeeID:  uuid.New(),
					LeaveTypeID: uuid.New(),
				}, nil
			},
		}
		svc := leavepolicy.NewService(repo, zap.NewNop())

		resp, err := svc.Update(ctx, companyID, policyID.String(), leavepolicy.UpdateLeavePolicyRequest{
			AnnualAccrualAmount: decimal.NewFromInt(25),
			RolloverEnabled:     true,
			MaxRolloverDays:     decimal.NewFromInt(5),
		})

		assert.NoError(t, err)
		assert.True(t, resp.AnnualAccrualAmount.Equal(decimal.NewFromInt(25)))
		assert.True(t, resp.RolloverEnabled)
	})

	t.Run("negative - not found", func(t *testing.T) {
		svc := leavepolicy.NewService(&fakePolicyRepository{}, zap.NewNop())

		_, err := svc.Update(ctx, companyID, policyID.String(), leavepolicy.UpdateLeavePolicyRequest{})

		assert.ErrorIs(t, err, leavepolicyerrors.ErrPolicyNotFound)
	})
}

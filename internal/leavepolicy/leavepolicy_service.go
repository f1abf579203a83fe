package leavepolicy

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	leavepolicyerrors "go-pto/internal/leavepolicy/errors"
	"go-pto/internal/shared/apperror"
)

type Service interface {
	Create(ctx context.Context, companyID string, req CreateLeavePolicyRequest) (*LeavePolicyResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeavePolicyResponse, error)
	GetByID(ctx context.Context, companyID, id string) (*LeavePolicyResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateLeavePolicyRequest) (*LeavePolicyResponse, error)
	Delete(ctx context.Context, companyID, id string) error

	// ProvisionDefaults creates a zero-valued policy for every active leave
	// type the employee does not have one for yet. Driven by the employee
	// lifecycle consumer; safe to replay.
	ProvisionDefaults(ctx context.Context, companyID, employeeID string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.Named("leavepolicy_service"),
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateLeavePolicyRequest) (*LeavePolicyResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, apperror.InvalidField("company_id")
	}
	if req.InitialDays.IsNegative() || req.AnnualAccrualAmount.IsNegative() || req.MaxRolloverDays.IsNegative() {
		return nil, leavepolicyerrors.ErrNegativeDays
	}

	p := &LeavePolicy{
		ID:                  uuid.New(),
		CompanyID:           companyUUID,
		EmployeeID:          uuid.MustParse(req.EmployeeID),
		LeaveTypeID:         uuid.MustParse(req.LeaveTypeID),
		InitialDays:         req.InitialDays,
		AnnualAccrualAmount: req.AnnualAccrualAmount,
		RolloverEnabled:     req.RolloverEnabled,
		MaxRolloverDays:     req.MaxRolloverDays,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if isUniqueViolation(err) {
			return nil, leavepolicyerrors.ErrPolicyAlreadyAssigned
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to create leave policy", 500)
	}

	s.logger.Info("leave policy created",
		zap.String("policy_id", p.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type_id", req.LeaveTypeID),
	)

	resp := toResponse(p)
	return &resp, nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeavePolicyResponse, error) {
	policies, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to list leave policies", 500)
	}

	responses := make([]LeavePolicyResponse, 0, len(policies))
	for i := range policies {
		responses = append(responses, toResponse(&policies[i]))
	}
	return responses, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (*LeavePolicyResponse, error) {
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leavepolicyerrors.ErrPolicyNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load leave policy", 500)
	}

	resp := toResponse(p)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateLeavePolicyRequest) (*LeavePolicyResponse, error) {
	p, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leavepolicyerrors.ErrPolicyNotFound
		}
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to load leave policy", 500)
	}
	if req.InitialDays.IsNegative() || req.AnnualAccrualAmount.IsNegative() || req.MaxRolloverDays.IsNegative() {
		return nil, leavepolicyerrors.ErrNegativeDays
	}

	p.InitialDays = req.InitialDays
	p.AnnualAccrualAmount = req.AnnualAccrualAmount
	p.RolloverEnabled = req.RolloverEnabled
	p.MaxRolloverDays = req.MaxRolloverDays

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to update leave policy", 500)
	}

	resp := toResponse(p)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		return apperror.Wrap(err, apperror.CodeInternalError, "failed to delete leave policy", 500)
	}
	return nil
}

func (s *service) ProvisionDefaults(ctx context.Context, companyID, employeeID string) error {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return apperror.InvalidField("company_id")
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return apperror.InvalidField("employee_id")
	}

	typeIDs, err := s.repo.ActiveLeaveTypeIDs(ctx, companyID)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	assigned := make(map[string]bool, len(existing))
	for i := range existing {
		if existing[i].EmployeeID.String() == employeeID {
			assigned[existing[i].LeaveTypeID.String()] = true
		}
	}

	for _, typeID := range typeIDs {
		if assigned[typeID] {
			continue
		}
		p := &LeavePolicy{
			ID:                  uuid.New(),
			CompanyID:           companyUUID,
			EmployeeID:          employeeUUID,
			LeaveTypeID:         uuid.MustParse(typeID),
			InitialDays:         decimal.Zero,
			AnnualAccrualAmount: decimal.Zero,
			MaxRolloverDays:     decimal.Zero,
		}
		if err := s.repo.Create(ctx, p); err != nil {
			// Replays race against earlier deliveries; the unique index
			// already holds the row we wanted.
			if isUniqueViolation(err) {
				continue
			}
			return err
		}
	}

	s.logger.Info("default leave policies provisioned",
		zap.String("employee_id", employeeID),
		zap.String("company_id", companyID),
		zap.Int("leave_types", len(typeIDs)),
	)
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func toResponse(p *LeavePolicy) LeavePolicyResponse {
	return LeavePolicyResponse{
		ID:                  p.ID.String(),
		CompanyID:           p.CompanyID.String(),
		EmployeeID:          p.EmployeeID.String(),
		LeaveTypeID:         p.LeaveTypeID.String(),
		InitialDays:         p.InitialDays,
		AnnualAccrualAmount: p.AnnualAccrualAmount,
		RolloverEnabled:     p.RolloverEnabled,
		MaxRolloverDays:     p.MaxRolloverDays,
	}
}

package leavebalance

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-pto/internal/leavetype"
	"go-pto/internal/shared/apperror"
)

type Service interface {
	ListMine(ctx context.Context, companyID, employeeID string) ([]LeaveBalanceResponse, error)
	Summary(ctx context.Context, companyID, employeeID string) ([]BalanceSummaryItem, error)
}

type service struct {
	repo     Repository
	resolver *Resolver
	types    leavetype.Repository
	logger   *zap.Logger
}

func NewService(repo Repository, resolver *Resolver, types leavetype.Repository, logger *zap.Logger) Service {
	return &service{
		repo:     repo,
		resolver: resolver,
		types:    types,
		logger:   logger.Named("leavebalance_service"),
	}
}

func (s *service) ListMine(ctx context.Context, companyID, employeeID string) ([]LeaveBalanceResponse, error) {
	balances, err := s.repo.ListByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to list balances", 500)
	}

	responses := make([]LeaveBalanceResponse, 0, len(balances))
	for i := range balances {
		b := &balances[i]
		responses = append(responses, LeaveBalanceResponse{
			ID:             b.ID.String(),
			LeaveTypeID:    b.LeaveTypeID.String(),
			Year:           b.Year,
			Balance:        b.Balance,
			PendingBalance: b.PendingBalance,
			UsedBalance:    b.UsedBalance,
			Available:      b.Available(),
		})
	}
	return responses, nil
}

func (s *service) Summary(ctx context.Context, companyID, employeeID string) ([]BalanceSummaryItem, error) {
	types, err := s.types.FindActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to list leave types", 500)
	}

	year := CurrentYear(time.Now())
	items := make([]BalanceSummaryItem, 0, len(types))
	for i := range types {
		lt := &types[i]
		available, err := s.resolver.Resolve(ctx, companyID, employeeID, lt.ID.String(), year)
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeInternalError, "failed to resolve balance", 500)
		}
		items = append(items, BalanceSummaryItem{
			LeaveTypeID:   lt.ID.String(),
			LeaveTypeName: lt.Name,
			LeaveTypeCode: lt.Code,
			Year:          year,
			Available:     available,
		})
	}
	return items, nil
}

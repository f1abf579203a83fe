package leavebalance

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"
)

// Resolver answers "how many days can this employee still take" without side
// effects. The balance row wins when it exists; otherwise the policy default
// applies, falling back to zero.
type Resolver struct {
	repo     Repository
	policies PolicySource
}

func NewResolver(repo Repository, policies PolicySource) *Resolver {
	return &Resolver{repo: repo, policies: policies}
}

func (r *Resolver) Resolve(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (decimal.Decimal, error) {
	b, err := r.repo.Get(ctx, companyID, employeeID, leaveTypeID, year)
	if err == nil {
		return b.Available(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, err
	}

	defaultDays, found, err := r.policies.DefaultDays(ctx, companyID, employeeID, leaveTypeID)
	if err != nil {
		return decimal.Zero, err
	}
	if !found {
		return decimal.Zero, nil
	}
	return defaultDays, nil
}

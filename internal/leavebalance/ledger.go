package leavebalance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	leavebalanceerrors "go-pto/internal/leavebalance/errors"
)

// PolicySource supplies the default annual day amount used when a balance row
// does not exist yet. Satisfied by the leave policy repository.
type PolicySource interface {
	DefaultDays(ctx context.Context, companyID, employeeID, leaveTypeID string) (decimal.Decimal, bool, error)
}

// Ledger owns every mutation of balance rows. All methods run on the caller's
// transaction and lock the row before touching it, so concurrent submit and
// cancel for the same (employee, type, year) serialize.
type Ledger struct {
	repo     Repository
	policies PolicySource
	logger   *zap.Logger
}

func NewLedger(repo Repository, policies PolicySource, logger *zap.Logger) *Ledger {
	return &Ledger{
		repo:     repo,
		policies: policies,
		logger:   logger.Named("leave_ledger"),
	}
}

// Reserve ties up days for a newly submitted request: pending_balance += days.
// A missing row is created first with balance seeded from the policy default;
// the reservation itself is always expressed through pending_balance so the
// result does not depend on whether the row pre-existed. Availability is
// re-checked on the locked row, so a submit that raced past an unlocked
// availability read still cannot overdraw.
func (l *Ledger) Reserve(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int, days decimal.Decimal) error {
	repo := l.repo.WithTx(tx)

	b, err := repo.GetForUpdate(ctx, companyID, employeeID, leaveTypeID, year)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		b, err = l.createFromPolicy(ctx, tx, companyID, employeeID, leaveTypeID, year)
		if err != nil {
			return err
		}
	}

	if days.GreaterThan(b.Available()) {
		return leavebalanceerrors.ErrInsufficientBalance.WithDetails(map[string]string{
			"available": b.Available().String(),
			"requested": days.String(),
		})
	}

	return repo.AddPending(ctx, b.ID, days)
}

// ReleasePending undoes a reservation when a still-pending request is
// cancelled: pending_balance -= days. A synthesized row has nothing pending
// to release, so creation alone suffices.
func (l *Ledger) ReleasePending(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int, days decimal.Decimal) error {
	repo := l.repo.WithTx(tx)

	b, err := repo.GetForUpdate(ctx, companyID, employeeID, leaveTypeID, year)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		_, err = l.createFromPolicy(ctx, tx, companyID, employeeID, leaveTypeID, year)
		return err
	}

	return repo.ReleasePending(ctx, b.ID, days)
}

// Consume refunds a previously approved request on cancellation:
// balance += days, used_balance -= days.
func (l *Ledger) Consume(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int, days decimal.Decimal) error {
	repo := l.repo.WithTx(tx)

	b, err := repo.GetForUpdate(ctx, companyID, employeeID, leaveTypeID, year)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		b, err = l.createFromPolicy(ctx, tx, companyID, employeeID, leaveTypeID, year)
		if err != nil {
			return err
		}
	}

	return repo.Refund(ctx, b.ID, days)
}

func (l *Ledger) createFromPolicy(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	defaultDays, _, err := l.policies.DefaultDays(ctx, companyID, employeeID, leaveTypeID)
	if err != nil {
		return nil, err
	}

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, fmt.Errorf("parse company id: %w", err)
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, fmt.Errorf("parse employee id: %w", err)
	}
	leaveTypeUUID, err := uuid.Parse(leaveTypeID)
	if err != nil {
		return nil, fmt.Errorf("parse leave type id: %w", err)
	}

	b := &LeaveBalance{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		EmployeeID:     employeeUUID,
		LeaveTypeID:    leaveTypeUUID,
		Year:           year,
		Balance:        defaultDays,
		PendingBalance: decimal.Zero,
		UsedBalance:    decimal.Zero,
	}
	if err := l.repo.WithTx(tx).Create(ctx, b); err != nil {
		return nil, err
	}

	l.logger.Debug("balance row synthesized from policy default",
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", leaveTypeID),
		zap.Int("year", year),
		zap.String("balance", defaultDays.String()),
	)
	return b, nil
}

// CurrentYear is the ledger year for a request starting at t.
func CurrentYear(t time.Time) int {
	return t.Year()
}

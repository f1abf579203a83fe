package leavebalance

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository is raw SQL on purpose: every mutation here sits inside a
// lifecycle transaction and must honor the row lock taken by GetForUpdate.
//
//go:generate mockgen -source=leavebalance_repo.go -destination=mock/leavebalance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetForUpdate(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	Get(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	Create(ctx context.Context, b *LeaveBalance) error
	AddPending(ctx context.Context, id uuid.UUID, days decimal.Decimal) error
	ReleasePending(ctx context.Context, id uuid.UUID, days decimal.Decimal) error
	Refund(ctx context.Context, id uuid.UUID, days decimal.Decimal) error
	ListByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveBalance, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

const balanceColumns = `
	id, company_id, employee_id, leave_type_id, year,
	balance, pending_balance, used_balance
`

func (r *repository) GetForUpdate(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	query := `
SELECT ` + balanceColumns + `
FROM leave_balances
WHERE company_id = $1 AND employee_id = $2 AND leave_type_id = $3 AND year = $4
FOR UPDATE
`
	return r.scanOne(r.querier().QueryRowContext(ctx, query, companyID, employeeID, leaveTypeID, year))
}

func (r *repository) Get(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*LeaveBalance, error) {
	query := `
SELECT ` + balanceColumns + `
FROM leave_balances
WHERE company_id = $1 AND employee_id = $2 AND leave_type_id = $3 AND year = $4
`
	return r.scanOne(r.querier().QueryRowContext(ctx, query, companyID, employeeID, leaveTypeID, year))
}

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	query := `
INSERT INTO leave_balances (
	id, company_id, employee_id, leave_type_id, year,
	balance, pending_balance, used_balance, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
`
	_, err := r.execer().ExecContext(
		ctx, query,
		b.ID, b.CompanyID, b.EmployeeID, b.LeaveTypeID, b.Year,
		b.Balance, b.PendingBalance, b.UsedBalance,
	)
	return err
}

func (r *repository) AddPending(ctx context.Context, id uuid.UUID, days decimal.Decimal) error {
	query := `
UPDATE leave_balances
SET pending_balance = pending_balance + $2, updated_at = NOW()
WHERE id = $1
`
	_, err := r.execer().ExecContext(ctx, query, id, days)
	return err
}

func (r *repository) ReleasePending(ctx context.Context, id uuid.UUID, days decimal.Decimal) error {
	query := `
UPDATE leave_balances
SET pending_balance = pending_balance - $2, updated_at = NOW()
WHERE id = $1
`
	_, err := r.execer().ExecContext(ctx, query, id, days)
	return err
}

func (r *repository) Refund(ctx context.Context, id uuid.UUID, days decimal.Decimal) error {
	query := `
UPDATE leave_balances
SET
	balance = balance + $2,
	used_balance = used_balance - $2,
	updated_at = NOW()
WHERE id = $1
`
	_, err := r.execer().ExecContext(ctx, query, id, days)
	return err
}

func (r *repository) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveBalance, error) {
	query := `
SELECT ` + balanceColumns + `
FROM leave_balances
WHERE company_id = $1 AND employee_id = $2
ORDER BY year DESC, leave_type_id ASC
`
	rows, err := r.querier().QueryContext(ctx, query, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []LeaveBalance
	for rows.Next() {
		var b LeaveBalance
		if err := rows.Scan(
			&b.ID, &b.CompanyID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
			&b.Balance, &b.PendingBalance, &b.UsedBalance,
		); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (r *repository) scanOne(row *sql.Row) (*LeaveBalance, error) {
	var b LeaveBalance
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&b.Balance, &b.PendingBalance, &b.UsedBalance,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) querier() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

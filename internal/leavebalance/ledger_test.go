package leavebalance_test

import (
	"context"
	"database/sql"
	"testing"

	"go-pto/internal/leavebalance"
	leavebalanceerrors "go-pto/internal/leavebalance/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeBalanceRepository struct {
	getForUpdateFn   func(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*leavebalance.LeaveBalance, error)
	getFn            func(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*leavebalance.LeaveBalance, error)
	createFn         func(ctx context.Context, b *leavebalance.LeaveBalance) error
	addPendingFn     func(ctx context.Context, id uuid.UUID, days decimal.Decimal) error
	releasePendingFn func(ctx context.Context, id uuid.UUID, days decimal.Decimal) error
	refundFn         func(ctx context.Context, id uuid.UUID, days decimal.Decimal) error
	listByEmployeeFn func(ctx context.Context, companyID, employeeID string) ([]leavebalance.LeaveBalance, error)
}

func (f *fakeBalanceRepository) WithTx(tx *sql.Tx) leavebalance.Repository { return f }

func (f *fakeBalanceRepository) GetForUpdate(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*leavebalance.LeaveBalance, error) {
	if f.getForUpdateFn != nil {
		return f.getForUpdateFn(ctx, companyID, employeeID, leaveTypeID, year)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeBalanceRepository) Get(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*leavebalance.LeaveBalance, error) {
	if f.getFn != nil {
		return f.getFn(ctx, companyID, employeeID, leaveTypeID, year)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeBalanceRepository) Create(ctx context.Context, b *leavebalance.LeaveBalance) error {
	if f.createFn != nil {
		return f.createFn(ctx, b)
	}
	return nil
}

func (f *fakeBalanceRepository) AddPending(ctx context.Context, id uuid.UUID, days decimal.Decimal) error {
	if f.addPendingFn != nil {
		return f.addPendingFn(ctx, id, days)
	}
	return nil
}

func (f *fakeBalanceRepository) ReleasePending(ctx context.Context, id uuid.UUID, days decimal.Decimal) error {
	if f.releasePendingFn != nil {
		return f.releasePendingFn(ctx, id, days)
	}
	return nil
}

func (f *fakeBalanceRepository) Refund(ctx context.Context, id uuid.UUID, days decimal.Decimal) error {
	if f.refundFn != nil {
		return f.refundFn(ctx, id, days)
	}
	return nil
}

func (f *fakeBalanceRepository) ListByEmployee(ctx context.Context, companyID, employeeID string) ([]leavebalance.LeaveBalance, error) {
	if f.listByEmployeeFn != nil {
		return f.listByEmployeeFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

type fakePolicySource struct {
	defaultDaysFn func(ctx context.Context, companyID, employeeID, leaveTypeID string) (decimal.Decimal, bool, error)
}

func (f *fakePolicySource) DefaultDays(ctx context.Context, companyID, employeeID, leaveTypeID string) (decimal.Decimal, bool, error) {
	if f.defaultDaysFn != nil {
		return f.defaultDaysFn(ctx, companyID, employeeID, leaveTypeID)
	}
	return decimal.Zero, false, nil
}

func beginTestTx(t *testing.T) (*sql.DB, *sql.Tx) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	mock.ExpectBegin()
	tx, err := db.BeginTx(context.Background(), nil)
	assert.NoError(t, err)
	return db, tx
}

func TestLedger_Reserve(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	t.Run("existing row only moves pending", func(t *testing.T) {
		db, tx := beginTestTx(t)
		defer db.Close()

		rowID := uuid.New()
		repo := &fakeBalanceRepository{
			getForUpdateFn: func(ctx context.Context, cid, eid, tid string, year int) (*leavebalance.LeaveBalance, error) {
				return &leavebalance.LeaveBalance{
					ID:             rowID,
					Balance:        decimal.NewFromInt(10),
					PendingBalance: decimal.NewFromInt(1),
				}, nil
			},
			createFn: func(ctx context.Context, b *leavebalance.LeaveBalance) error {
				t.Fatal("must not create a row when one exists")
				return nil
			},
		}

		var pendingDelta decimal.Decimal
		repo.addPendingFn = func(ctx context.Context, id uuid.UUID, days decimal.Decimal) error {
			assert.Equal(t, rowID, id)
			pendingDelta = days
			return nil
		}

		ledger := leavebalance.NewLedger(repo, &fakePolicySource{}, zap.NewNop())
		err := ledger.Reserve(ctx, tx, companyID, employeeID, leaveTypeID, 2026, decimal.NewFromInt(2))

		assert.NoError(t, err)
		assert.True(t, pendingDelta.Equal(decimal.NewFromInt(2)))
	})

	t.Run("rejects a reservation the locked row cannot cover", func(t *testing.T) {
		db, tx := beginTestTx(t)
		defer db.Close()

		repo := &fakeBalanceRepository{
			getForUpdateFn: func(ctx context.Context, cid, eid, tid string, year int) (*leavebalance.LeaveBalance, error) {
				return &leavebalance.LeaveBalance{
					ID:             uuid.New(),
					Balance:        decimal.NewFromInt(10),
					PendingBalance: decimal.NewFromInt(9),
				}, nil
			},
			addPendingFn: func(ctx context.Context, id uuid.UUID, days decimal.Decimal) error {
				t.Fatal("must not reserve more than the row's availability")
				return nil
			},
		}

		ledger := leavebalance.NewLedger(repo, &fakePolicySource{}, zap.NewNop())
		err := ledger.Reserve(ctx, tx, companyID, employeeID, leaveTypeID, 2026, decimal.NewFromInt(2))

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInsufficientBalance)
	})

	t.Run("malformed ids fail row synthesis with an error", func(t *testing.T) {
		db, tx := beginTestTx(t)
		defer db.Close()

		repo := &fakeBalanceRepository{
			createFn: func(ctx context.Context, b *leavebalance.LeaveBalance) error {
				t.Fatal("must not create a row from unparseable ids")
				return nil
			},
		}
		policies := &fakePolicySource{
			defaultDaysFn: func(ctx context.Context, cid, eid, tid string) (decimal.Decimal, bool, error) {
				return decimal.NewFromInt(15), true, nil
			},
		}

		ledger := leavebalance.NewLedger(repo, policies, zap.NewNop())
		err := ledger.Reserve(ctx, tx, "not-a-uuid", employeeID, leaveTypeID, 2026, decimal.NewFromInt(1))

		assert.Error(t, err)
	})

	t.Run("missing row seeds balance from policy then reserves via pending", func(t *testing.T) {
		db, tx := beginTestTx(t)
		defer db.Close()

		var created *leavebalance.LeaveBalance
		var pendingDelta decimal.Decimal
		repo := &fakeBalanceRepository{
			createFn: func(ctx context.Context, b *leavebalance.LeaveBalance) error {
				created = b
				return nil
			},
			addPendingFn: func(ctx context.Context, id uuid.UUID, days decimal.Decimal) error {
				pendingDelta = days
				return nil
			},
		}
		policies := &fakePolicySource{
			defaultDaysFn: func(ctx context.Context, cid, eid, tid string) (decimal.Decimal, bool, error) {
				return decimal.NewFromInt(15), true, nil
			},
		}

		ledger := leavebalance.NewLedger(repo, policies, zap.NewNop())
		err := ledger.Reserve(ctx, tx, companyID, employeeID, leaveTypeID, 2026, decimal.NewFromFloat(2.5))

		assert.NoError(t, err)
		// balance carries the policy default untouched; the reservation lives
		// entirely in pending_balance, same as the row-exists branch
		assert.True(t, created.Balance.Equal(decimal.NewFromInt(15)))
		assert.True(t, created.PendingBalance.IsZero())
		assert.True(t, created.UsedBalance.IsZero())
		assert.True(t, pendingDelta.Equal(decimal.NewFromFloat(2.5)))
	})
}

func TestLedger_ReleasePending(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	t.Run("releases exactly the reserved amount", func(t *testing.T) {
		db, tx := beginTestTx(t)
		defer db.Close()

		rowID := uuid.New()
		var released decimal.Decimal
		repo := &fakeBalanceRepository{
			getForUpdateFn: func(ctx context.Context, cid, eid, tid string, year int) (*leavebalance.LeaveBalance, error) {
				return &leavebalance.LeaveBalance{ID: rowID, PendingBalance: decimal.NewFromInt(2)}, nil
			},
			releasePendingFn: func(ctx context.Context, id uuid.UUID, days decimal.Decimal) error {
				assert.Equal(t, rowID, id)
				released = days
				return nil
			},
		}

		ledger := leavebalance.NewLedger(repo, &fakePolicySource{}, zap.NewNop())
		err := ledger.ReleasePending(ctx, tx, companyID, employeeID, leaveTypeID, 2026, decimal.NewFromInt(2))

		assert.NoError(t, err)
		assert.True(t, released.Equal(decimal.NewFromInt(2)))
	})

	t.Run("missing row synthesizes without releasing", func(t *testing.T) {
		db, tx := beginTestTx(t)
		defer db.Close()

		var created *leavebalance.LeaveBalance
		repo := &fakeBalanceRepository{
			createFn: func(ctx context.Context, b *leavebalance.LeaveBalance) error {
				created = b
				return nil
			},
			releasePendingFn: func(ctx context.Context, id uuid.UUID, days decimal.Decimal) error {
				t.Fatal("a synthesized row has nothing pending to release")
				return nil
			},
		}
		policies := &fakePolicySource{
			defaultDaysFn: func(ctx context.Context, cid, eid, tid string) (decimal.Decimal, bool, error) {
				return decimal.NewFromInt(10), true, nil
			},
		}

		ledger := leavebalance.NewLedger(repo, policies, zap.NewNop())
		err := ledger.ReleasePending(ctx, tx, companyID, employeeID, leaveTypeID, 2026, decimal.NewFromInt(2))

		assert.NoError(t, err)
		assert.True(t, created.Balance.Equal(decimal.NewFromInt(10)))
		assert.True(t, created.PendingBalance.IsZero())
	})
}

func TestLedger_Consume(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	t.Run("refunds balance and used symmetrically", func(t *testing.T) {
		db, tx := beginTestTx(t)
		defer db.Close()

		rowID := uuid.New()
		var refunded decimal.Decimal
		repo := &fakeBalanceRepository{
			getForUpdateFn: func(ctx context.Context, cid, eid, tid string, year int) (*leavebalance.LeaveBalance, error) {
				return &leavebalance.LeaveBalance{ID: rowID, Balance: decimal.NewFromInt(3), UsedBalance: decimal.NewFromInt(2)}, nil
			},
			refundFn: func(ctx context.Context, id uuid.UUID, days decimal.Decimal) error {
				assert.Equal(t, rowID, id)
				refunded = days
				return nil
			},
		}

		ledger := leavebalance.NewLedger(repo, &fakePolicySource{}, zap.NewNop())
		err := ledger.Consume(ctx, tx, companyID, employeeID, leaveTypeID, 2026, decimal.NewFromInt(2))

		assert.NoError(t, err)
		assert.True(t, refunded.Equal(decimal.NewFromInt(2)))
	})

	t.Run("missing row synthesizes from policy before refunding", func(t *testing.T) {
		db, tx := beginTestTx(t)
		defer db.Close()

		var created *leavebalance.LeaveBalance
		var refunded decimal.Decimal
		repo := &fakeBalanceRepository{
			createFn: func(ctx context.Context, b *leavebalance.LeaveBalance) error {
				created = b
				return nil
			},
			refundFn: func(ctx context.Context, id uuid.UUID, days decimal.Decimal) error {
				refunded = days
				return nil
			},
		}
		policies := &fakePolicySource{
			defaultDaysFn: func(ctx context.Context, cid, eid, tid string) (decimal.Decimal, bool, error) {
				return decimal.NewFromInt(10), true, nil
			},
		}

		ledger := leavebalance.NewLedger(repo, policies, zap.NewNop())
		err := ledger.Consume(ctx, tx, companyID, employeeID, leaveTypeID, 2026, decimal.NewFromInt(2))

		assert.NoError(t, err)
		assert.True(t, created.Balance.Equal(decimal.NewFromInt(10)))
		assert.True(t, refunded.Equal(decimal.NewFromInt(2)))
	})
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	t.Run("balance row wins over policy", func(t *testing.T) {
		repo := &fakeBalanceRepository{
			getFn: func(ctx context.Context, cid, eid, tid string, year int) (*leavebalance.LeaveBalance, error) {
				return &leavebalance.LeaveBalance{
					Balance:        decimal.NewFromInt(12),
					PendingBalance: decimal.NewFromInt(3),
				}, nil
			},
		}
		policies := &fakePolicySource{
			defaultDaysFn: func(ctx context.Context, cid, eid, tid string) (decimal.Decimal, bool, error) {
				t.Fatal("policy must not be consulted when a row exists")
				return decimal.Zero, false, nil
			},
		}

		resolver := leavebalance.NewResolver(repo, policies)
		available, err := resolver.Resolve(ctx, companyID, employeeID, leaveTypeID, 2026)

		assert.NoError(t, err)
		assert.True(t, available.Equal(decimal.NewFromInt(9)))
	})

	t.Run("falls back to policy default", func(t *testing.T) {
		policies := &fakePolicySource{
			defaultDaysFn: func(ctx context.Context, cid, eid, tid string) (decimal.Decimal, bool, error) {
				return decimal.NewFromInt(20), true, nil
			},
		}

		resolver := leavebalance.NewResolver(&fakeBalanceRepository{}, policies)
		available, err := resolver.Resolve(ctx, companyID, employeeID, leaveTypeID, 2026)

		assert.NoError(t, err)
		assert.True(t, available.Equal(decimal.NewFromInt(20)))
	})

	t.Run("zero when neither row nor policy exists", func(t *testing.T) {
		resolver := leavebalance.NewResolver(&fakeBalanceRepository{}, &fakePolicySource{})
		available, err := resolver.Resolve(ctx, companyID, employeeID, leaveTypeID, 2026)

		assert.NoError(t, err)
		assert.True(t, available.IsZero())
	})
}

package leavepolicy

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeavePolicy is the per-employee, per-type accrual assignment. It is the
// fallback balance source when no ledger row exists yet for the year.
type LeavePolicy struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_policies_company"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_policy_employee_type"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_policy_employee_type"`

	InitialDays         decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	AnnualAccrualAmount decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	RolloverEnabled     bool            `gorm:"not null;default:false"`
	MaxRolloverDays     decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

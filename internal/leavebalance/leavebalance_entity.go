package leavebalance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaveBalance is the per-employee, per-type, per-year accounting row.
// balance excludes pending reservations; available = balance - pending.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_balances_company"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_employee_type_year"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_employee_type_year"`
	Year        int       `gorm:"not null;uniqueIndex:uq_leave_balances_employee_type_year"`

	Balance        decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	PendingBalance decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	UsedBalance    decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Available reports how many days are free to reserve.
func (b *LeaveBalance) Available() decimal.Decimal {
	return b.Balance.Sub(b.PendingBalance)
}

package leavebalance

import "github.com/shopspring/decimal"

type LeaveBalanceResponse struct {
	ID             string          `json:"id"`
	LeaveTypeID    string          `json:"leave_type_id"`
	Year           int             `json:"year"`
	Balance        decimal.Decimal `json:"balance"`
	PendingBalance decimal.Decimal `json:"pending_balance"`
	UsedBalance    decimal.Decimal `json:"used_balance"`
	Available      decimal.Decimal `json:"available"`
}

// BalanceSummaryItem is one line of the per-type availability summary; types
// without a ledger row report the resolved policy default.
type BalanceSummaryItem struct {
	LeaveTypeID   string          `json:"leave_type_id"`
	LeaveTypeName string          `json:"leave_type_name"`
	LeaveTypeCode string          `json:"leave_type_code"`
	Year          int             `json:"year"`
	Available     decimal.Decimal `json:"available"`
}

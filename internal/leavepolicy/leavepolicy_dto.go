package leavepolicy

import "github.com/shopspring/decimal"

type CreateLeavePolicyRequest struct {
	EmployeeID          string          `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID         string          `json:"leave_type_id" binding:"required,uuid"`
	InitialDays         decimal.Decimal `json:"initial_days"`
	AnnualAccrualAmount decimal.Decimal `json:"annual_accrual_amount"`
	RolloverEnabled     bool            `json:"rollover_enabled"`
	MaxRolloverDays     decimal.Decimal `json:"max_rollover_days"`
}

type UpdateLeavePolicyRequest struct {
	InitialDays         decimal.Decimal `json:"initial_days"`
	AnnualAccrualAmount decimal.Decimal `json:"annual_accrual_amount"`
	RolloverEnabled     bool            `json:"rollover_enabled"`
	MaxRolloverDays     decimal.Decimal `json:"max_rollover_days"`
}

type LeavePolicyResponse struct {
	ID                  string          `json:"id"`
	CompanyID           string          `json:"company_id"`
	EmployeeID          string          `json:"employee_id"`
	LeaveTypeID         string          `json:"leave_type_id"`
	InitialDays         decimal.Decimal `json:"initial_days"`
	AnnualAccrualAmount decimal.Decimal `json:"annual_accrual_amount"`
	RolloverEnabled     bool            `json:"rollover_enabled"`
	MaxRolloverDays     decimal.Decimal `json:"max_rollover_days"`
}

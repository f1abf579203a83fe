package leaverequest

import "github.com/shopspring/decimal"

const (
	DayOptionFull   = "full"
	DayOptionHalfAM = "half_am"
	DayOptionHalfPM = "half_pm"
)

type SubmitLeaveRequest struct {
	LeaveTypeID string          `json:"leave_type_id" binding:"required,uuid"`
	StartDate   string          `json:"start_date" binding:"required"`
	EndDate     string          `json:"end_date" binding:"required"`
	TotalDays   decimal.Decimal `json:"total_days" binding:"required"`
	Reason      string          `json:"reason"`
	DayOptions  []string        `json:"day_options" binding:"omitempty,dive,oneof=full half_am half_pm"`
}

type CancelLeaveRequest struct {
	Reason string `json:"reason"`
}

type ApproveLeaveRequest struct {
	Comments string `json:"comments"`
}

type DenyLeaveRequest struct {
	Comments string `json:"comments" binding:"required"`
}

type LeaveApprovalResponse struct {
	ID          string  `json:"id"`
	ApproverID  string  `json:"approver_id"`
	Level       int     `json:"level"`
	Sequence    int     `json:"sequence"`
	Status      string  `json:"status"`
	Comments    string  `json:"comments,omitempty"`
	RespondedAt *string `json:"responded_at,omitempty"`
}

type LeaveRequestResponse struct {
	ID            string                  `json:"id"`
	CompanyID     string                  `json:"company_id"`
	EmployeeID    string                  `json:"employee_id"`
	LeaveTypeID   string                  `json:"leave_type_id"`
	RequestNumber string                  `json:"request_number"`
	StartDate     string                  `json:"start_date"`
	EndDate       string                  `json:"end_date"`
	TotalDays     decimal.Decimal         `json:"total_days"`
	Reason        string                  `json:"reason,omitempty"`
	Status        string                  `json:"status"`
	SubmittedAt   string                  `json:"submitted_at"`
	ApprovedAt    *string                 `json:"approved_at,omitempty"`
	DeniedAt      *string                 `json:"denied_at,omitempty"`
	CancelledAt   *string                 `json:"cancelled_at,omitempty"`
	Approvals     []LeaveApprovalResponse `json:"approvals,omitempty"`
}

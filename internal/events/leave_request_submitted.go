package events

import "time"

const LeaveRequestSubmittedTopic = "pto.leave.request.submitted.v1"

type LeaveRequestSubmittedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveRequestID string    `json:"leave_request_id"`
	RequestNumber  string    `json:"request_number"`
	CompanyID      string    `json:"company_id"`
	EmployeeID     string    `json:"employee_id"`
	LeaveTypeID    string    `json:"leave_type_id"`
	TotalDays      string    `json:"total_days"`
	ApproverIDs    []string  `json:"approver_ids"`
	OccurredAt     time.Time `json:"occurred_at"`
}

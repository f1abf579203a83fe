package events

import "time"

const LeaveRequestResolvedTopic = "pto.leave.request.resolved.v1"

// LeaveRequestResolvedEvent is published for every terminal transition:
// approved, denied and cancelled.
type LeaveRequestResolvedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveRequestID string    `json:"leave_request_id"`
	RequestNumber  string    `json:"request_number"`
	CompanyID      string    `json:"company_id"`
	EmployeeID     string    `json:"employee_id"`
	Status         string    `json:"status"`
	ResolvedBy     string    `json:"resolved_by,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

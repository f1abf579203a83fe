package leaverequest

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusDenied    = "DENIED"
	StatusCancelled = "CANCELLED"
)

const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalDenied   = "DENIED"
)

// LeaveRequest is the aggregate root. After creation only status, the matching
// terminal timestamp and the reason (on cancel) ever change.
type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`

	RequestNumber string          `gorm:"type:varchar(60);not null;uniqueIndex:uq_leave_requests_number"`
	StartDate     time.Time       `gorm:"type:date;not null"`
	EndDate       time.Time       `gorm:"type:date;not null"`
	TotalDays     decimal.Decimal `gorm:"type:numeric(6,2);not null"`
	Reason        string          `gorm:"type:text"`
	Status        string          `gorm:"type:varchar(20);not null;index:idx_leave_requests_status"`

	SubmittedAt time.Time  `gorm:"not null"`
	ApprovedAt  *time.Time `gorm:""`
	DeniedAt    *time.Time `gorm:""`
	CancelledAt *time.Time `gorm:""`

	Approvals []LeaveApproval `gorm:"foreignKey:RequestID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LeaveApproval is one required step of the chain. Each row transitions
// exactly once (PENDING -> APPROVED|DENIED) and never reverts. Level is a
// display/grouping tier, not a sequencing gate.
type LeaveApproval struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_approvals_request"`
	ApproverID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_approvals_approver"`

	Level    int    `gorm:"not null"`
	Sequence int    `gorm:"not null"`
	Status   string `gorm:"type:varchar(20);not null"`
	Comments string `gorm:"type:text"`

	RespondedAt *time.Time `gorm:""`

	CreatedAt time.Time
	UpdatedAt time.Time
}

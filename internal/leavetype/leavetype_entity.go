package leavetype

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveType struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_types_company"`

	Name  string `gorm:"type:varchar(100);not null"`
	Code  string `gorm:"type:varchar(30);not null;uniqueIndex:uq_leave_types_code"`
	Color string `gorm:"type:varchar(7)"`

	// Approval routing knobs. SpecificApprovers is an ordered list; order
	// becomes the sequence of the approval chain.
	MultiLevelApproval       bool        `gorm:"not null;default:false"`
	DisableHierarchyApproval bool        `gorm:"not null;default:false"`
	SpecificApprovers        []uuid.UUID `gorm:"type:jsonb;serializer:json"`

	ShowInDepartmentCalendar bool `gorm:"not null;default:true"`
	IsActive                 bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_types_deleted_at"`
}

package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_employees_company"`

	EmployeeNumber string     `gorm:"type:varchar(20);not null;uniqueIndex:uq_employees_number"`
	FullName       string     `gorm:"type:varchar(150);not null"`
	Email          string     `gorm:"type:varchar(150);not null;uniqueIndex:uq_employees_email"`
	ManagerID      *uuid.UUID `gorm:"type:uuid;index:idx_employees_manager"`
	HireDate       time.Time  `gorm:"type:date;not null"`
	IsActive       bool       `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_employees_deleted_at"`
}

package employee

type CreateEmployeeRequest struct {
	FullName  string  `json:"full_name" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	ManagerID *string `json:"manager_id" binding:"omitempty,uuid"`
	HireDate  string  `json:"hire_date" binding:"required"`
}

type UpdateEmployeeRequest struct {
	FullName  string  `json:"full_name" binding:"required"`
	ManagerID *string `json:"manager_id" binding:"omitempty,uuid"`
	IsActive  *bool   `json:"is_active"`
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	CompanyID      string  `json:"company_id"`
	EmployeeNumber string  `json:"employee_number"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	ManagerID      *string `json:"manager_id,omitempty"`
	HireDate       string  `json:"hire_date"`
	IsActive       bool    `json:"is_active"`
}

package domain

// EnforceRequest is the neutral authorization contract shared by the RBAC
// service and the HTTP middleware, so neither depends on the other's package.
type EnforceRequest struct {
	EmployeeID string `json:"employee_id"`
	CompanyID  string `json:"company_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
}

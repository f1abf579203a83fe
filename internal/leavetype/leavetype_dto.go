package leavetype

type CreateLeaveTypeRequest struct {
	Name                     string   `json:"name" binding:"required"`
	Code                     string   `json:"code" binding:"required"`
	Color                    string   `json:"color"`
	MultiLevelApproval       bool     `json:"multi_level_approval"`
	DisableHierarchyApproval bool     `json:"disable_hierarchy_approval"`
	SpecificApprovers        []string `json:"specific_approvers" binding:"omitempty,dive,uuid"`
	ShowInDepartmentCalendar *bool    `json:"show_in_department_calendar"`
}

type UpdateLeaveTypeRequest struct {
	Name                     string   `json:"name" binding:"required"`
	Color                    string   `json:"color"`
	MultiLevelApproval       bool     `json:"multi_level_approval"`
	DisableHierarchyApproval bool     `json:"disable_hierarchy_approval"`
	SpecificApprovers        []string `json:"specific_approvers" binding:"omitempty,dive,uuid"`
	ShowInDepartmentCalendar *bool    `json:"show_in_department_calendar"`
	IsActive                 *bool    `json:"is_active"`
}

type LeaveTypeResponse struct {
	ID                       string   `json:"id"`
	CompanyID                string   `json:"company_id"`
	Name                     string   `json:"name"`
	Code                     string   `json:"code"`
	Color                    string   `json:"color,omitempty"`
	MultiLevelApproval       bool     `json:"multi_level_approval"`
	DisableHierarchyApproval bool     `json:"disable_hierarchy_approval"`
	SpecificApprovers        []string `json:"specific_approvers,omitempty"`
	ShowInDepartmentCalendar bool     `json:"show_in_department_calendar"`
	IsActive                 bool     `json:"is_active"`
}

// LeaveTypeOption is the slim shape served from the options cache.
type LeaveTypeOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"code"`
	Color string `json:"color,omitempty"`
}

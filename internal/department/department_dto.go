package department

type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required,max=10"`
	Description string `json:"description"`
	Budget      int64  `json:"budget"`
}

type UpdateDepartmentRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ManagerID   *string `json:"manager_id"`
	Budget      *int64  `json:"budget"`
}

type DepartmentResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description string  `json:"description,omitempty"`
	ManagerID   *string `json:"manager_id,omitempty"`
	Budget      int64   `json:"budget"`
	IsActive    bool    `json:"is_active"`
}

package user

type RegisterUserRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	FirstName    string `json:"first_name" binding:"required,max=100"`
	LastName     string `json:"last_name" binding:"required,max=100"`
	Phone        string `json:"phone" binding:"omitempty,max=20"`
	JobTitle     string `json:"job_title" binding:"omitempty,max=100"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
	HireDate     string `json:"hire_date" binding:"omitempty,datetime=2006-01-02"`
	BasicSalary  int64  `json:"basic_salary" binding:"omitempty,gte=0"`
	Allowances   int64  `json:"allowances" binding:"omitempty,gte=0"`
	HourlyRate   int64  `json:"hourly_rate" binding:"omitempty,gte=0"`
	Role         string `json:"role" binding:"omitempty"`
}

type UpdateUserRequest struct {
	FirstName   string `json:"first_name" binding:"omitempty,max=100"`
	LastName    string `json:"last_name" binding:"omitempty,max=100"`
	Phone       string `json:"phone" binding:"omitempty,max=20"`
	JobTitle    string `json:"job_title" binding:"omitempty,max=100"`
	BasicSalary *int64 `json:"basic_salary" binding:"omitempty,gte=0"`
	Allowances  *int64 `json:"allowances" binding:"omitempty,gte=0"`
	HourlyRate  *int64 `json:"hourly_rate" binding:"omitempty,gte=0"`
}

type ToggleStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type UserResponse struct {
	ID             string                  `json:"id"`
	EmployeeNumber string                  `json:"employee_number"`
	Email          string                  `json:"email"`
	FirstName      string                  `json:"first_name"`
	LastName       string                  `json:"last_name"`
	Phone          string                  `json:"phone,omitempty"`
	JobTitle       string                  `json:"job_title,omitempty"`
	DepartmentID   string                  `json:"department_id"`
	Department     *UserDepartmentResponse `json:"department,omitempty"`
	HireDate       string                  `json:"hire_date,omitempty"`
	BasicSalary    int64                   `json:"basic_salary"`
	Allowances     int64                   `json:"allowances"`
	HourlyRate     int64                   `json:"hourly_rate"`
	IsActive       bool                    `json:"is_active"`
}

type UserDepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// UserOption is the slim shape used to populate dropdowns.
type UserOption struct {
	ID             string `json:"id"`
	EmployeeNumber string `json:"employee_number"`
	FullName       string `json:"full_name"`
}

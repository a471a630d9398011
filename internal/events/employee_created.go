package events

import "time"

const (
	EmployeeLifecycleTopic = "hr.employee.lifecycle.v1"

	EmployeeCreatedEventType = "employee_created"
)

// EmployeeCreatedPayload is published when a new employee account is
// registered. Keyed by user id so one employee's events stay ordered.
type EmployeeCreatedPayload struct {
	UserID         string    `json:"user_id"`
	EmployeeNumber string    `json:"employee_number"`
	Email          string    `json:"email"`
	DepartmentID   string    `json:"department_id"`
	CreatedAt      time.Time `json:"created_at"`
}

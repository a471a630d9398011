package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeNumber string    `gorm:"column:employee_number;type:varchar(20);not null;uniqueIndex:uq_user_employee_number"`
	Email          string    `gorm:"column:email;type:text;not null;uniqueIndex:uq_user_email"`
	Password       string    `gorm:"column:password;type:text;not null"`
	FirstName      string    `gorm:"column:first_name;type:varchar(100);not null"`
	LastName       string    `gorm:"column:last_name;type:varchar(100);not null"`
	Phone          string    `gorm:"column:phone;type:varchar(20)"`
	JobTitle       string    `gorm:"column:job_title;type:varchar(100)"`
	DepartmentID   uuid.UUID `gorm:"column:department_id;type:uuid;not null;index"`
	HireDate       time.Time `gorm:"column:hire_date;type:date"`

	// Compensation in whole shillings.
	BasicSalary int64 `gorm:"column:basic_salary;not null;default:0"`
	Allowances  int64 `gorm:"column:allowances;not null;default:0"`
	HourlyRate  int64 `gorm:"column:hourly_rate;not null;default:0"`

	IsActive  bool           `gorm:"column:is_active;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Department *UserDepartment `gorm:"foreignKey:DepartmentID;references:ID"`
}

func (User) TableName() string {
	return "users"
}

// UserDepartment is a narrow join projection of the departments table.
type UserDepartment struct {
	ID   uuid.UUID `gorm:"primaryKey"`
	Name string    `gorm:"column:name"`
	Code string    `gorm:"column:code"`
}

func (UserDepartment) TableName() string {
	return "departments"
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

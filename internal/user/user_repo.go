package user

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context) ([]User, error)
	FindByDepartment(ctx context.Context, departmentID string) ([]User, error)
	FindActiveSalaried(ctx context.Context) ([]User, error)
	FindOptions(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error

	// MaxEmployeeNumber returns the highest employee number starting with
	// prefix, or "" when none exists yet.
	MaxEmployeeNumber(ctx context.Context, prefix string) (string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Preload("Department").First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindAll(ctx context.Context) ([]User, error) {
	var rows []User
	err := r.db.WithContext(ctx).Preload("Department").Order("employee_number").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByDepartment(ctx context.Context, departmentID string) ([]User, error) {
	var rows []User
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("employee_number").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindActiveSalaried(ctx context.Context) ([]User, error) {
	var rows []User
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND basic_salary > 0", true).
		Order("employee_number").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindOptions(ctx context.Context) ([]User, error) {
	var rows []User
	err := r.db.WithContext(ctx).
		Select("id", "employee_number", "first_name", "last_name").
		Where("is_active = ?", true).
		Order("employee_number").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) MaxEmployeeNumber(ctx context.Context, prefix string) (string, error) {
	var max string
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Select("employee_number").
		Where("employee_number LIKE ?", prefix+"%").
		Order("employee_number DESC").
		Limit(1).
		Scan(&max).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return max, nil
}

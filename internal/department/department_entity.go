package department

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string     `gorm:"column:name;type:varchar(100);not null;uniqueIndex"`
	Code        string     `gorm:"column:code;type:varchar(10);not null;uniqueIndex"`
	Description string     `gorm:"column:description;type:text"`
	ManagerID   *uuid.UUID `gorm:"column:manager_id;type:uuid"`
	// Budget in whole KES.
	Budget    int64     `gorm:"column:budget;type:bigint;not null;default:0"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

package models

import "time"

const (
	StaffRoleAdmin   = "admin"
	StaffRoleSupport = "support"
)

type Staff struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"not null;default:'admin'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (Staff) TableName() string {
	return "staff"
}

package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Actor     string         `gorm:"not null;index" json:"actor"`
	Action    string         `gorm:"not null" json:"action"`
	Entity    string         `gorm:"not null" json:"entity"`
	RecordID  uint           `json:"record_id"`
	Detail    datatypes.JSON `json:"detail,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const PaymentStatusSuccess = "success"

type Payment struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Reference string          `gorm:"uniqueIndex;not null" json:"reference"`
	Email     string          `gorm:"not null;index" json:"email"`
	Name      string          `gorm:"not null" json:"name"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Status    string          `gorm:"not null;default:'success'" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}

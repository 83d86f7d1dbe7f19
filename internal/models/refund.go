package models

import "time"

const (
	RefundStatusPending  = "pending"
	RefundStatusApproved = "approved"
	RefundStatusRejected = "rejected"
)

type Refund struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PaymentID uint      `gorm:"not null;index" json:"payment_id"`
	Payment   *Payment  `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
	Email     string    `gorm:"not null;index" json:"email"`
	Reason    string    `gorm:"not null" json:"reason"`
	Status    string    `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (Refund) TableName() string {
	return "refunds"
}

// Resolved reports whether an administrative actor has settled the refund.
func (r *Refund) Resolved() bool {
	return r.Status == RefundStatusApproved || r.Status == RefundStatusRejected
}

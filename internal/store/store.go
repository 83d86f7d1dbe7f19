// Package store mediates all access to the persistent payment and refund
// records. Handlers receive a Store so tests can substitute an in-memory
// implementation.
package store

import (
	"context"
	"errors"

	"github.com/rizalfh/paylane/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Store interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	PaymentByReference(ctx context.Context, reference string) (*models.Payment, error)
	PaymentsByEmail(ctx context.Context, email string) ([]models.Payment, error)
	AllPayments(ctx context.Context) ([]models.Payment, error)

	CreateRefund(ctx context.Context, refund *models.Refund) error
	RefundByID(ctx context.Context, id uint) (*models.Refund, error)
	UpdateRefundStatus(ctx context.Context, id uint, status string) error
	RefundsByEmail(ctx context.Context, email string) ([]models.Refund, error)
	AllRefunds(ctx context.Context) ([]models.Refund, error)

	StaffByEmail(ctx context.Context, email string) (*models.Staff, error)
	ListStaff(ctx context.Context) ([]models.Staff, error)

	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
	ListAuditLogs(ctx context.Context) ([]models.AuditLog, error)
}

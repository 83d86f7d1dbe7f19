package store

import (
	"context"
	"errors"
	"strings"

	"github.com/rizalfh/paylane/internal/models"
	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (s *gormStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	payment.Email = strings.ToLower(payment.Email)
	return translate(s.db.WithContext(ctx).Create(payment).Error)
}

func (s *gormStore) PaymentByReference(ctx context.Context, reference string) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.WithContext(ctx).Where("reference = ?", reference).First(&payment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (s *gormStore) PaymentsByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, translate(err)
}

func (s *gormStore) AllPayments(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&payments).Error
	return payments, translate(err)
}

func (s *gormStore) CreateRefund(ctx context.Context, refund *models.Refund) error {
	refund.Email = strings.ToLower(refund.Email)
	return translate(s.db.WithContext(ctx).Create(refund).Error)
}

func (s *gormStore) RefundByID(ctx context.Context, id uint) (*models.Refund, error) {
	var refund models.Refund
	err := s.db.WithContext(ctx).Preload("Payment").First(&refund, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &refund, nil
}

func (s *gormStore) UpdateRefundStatus(ctx context.Context, id uint, status string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Refund{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) RefundsByEmail(ctx context.Context, email string) ([]models.Refund, error) {
	var refunds []models.Refund
	err := s.db.WithContext(ctx).
		Preload("Payment").
		Where("email = ?", strings.ToLower(email)).
		Order("created_at DESC").
		Find(&refunds).Error
	return refunds, translate(err)
}

func (s *gormStore) AllRefunds(ctx context.Context) ([]models.Refund, error) {
	var refunds []models.Refund
	err := s.db.WithContext(ctx).
		Preload("Payment").
		Order("created_at DESC").
		Find(&refunds).Error
	return refunds, translate(err)
}

func (s *gormStore) StaffByEmail(ctx context.Context, email string) (*models.Staff, error) {
	var staff models.Staff
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&staff).Error
	if err != nil {
		return nil, translate(err)
	}
	return &staff, nil
}

func (s *gormStore) ListStaff(ctx context.Context) ([]models.Staff, error) {
	var staff []models.Staff
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&staff).Error
	return staff, translate(err)
}

func (s *gormStore) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	return translate(s.db.WithContext(ctx).Create(entry).Error)
}

func (s *gormStore) ListAuditLogs(ctx context.Context) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&entries).Error
	return entries, translate(err)
}

package handlers

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rizalfh/paylane/internal/gateway"
	"github.com/rizalfh/paylane/internal/mailer"
	"github.com/rizalfh/paylane/internal/models"
	"github.com/rizalfh/paylane/internal/store"
)

// fakeStore is an in-memory store.Store used to exercise handlers without a
// database.
type fakeStore struct {
	payments []models.Payment
	refunds  []models.Refund
	staff    []models.Staff
	audits   []models.AuditLog

	nextPaymentID uint
	nextRefundID  uint

	failWith   error
	failCreate error
	failAudit  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextPaymentID: 1, nextRefundID: 1}
}

func (f *fakeStore) CreatePayment(_ context.Context, payment *models.Payment) error {
	if f.failWith != nil {
		return f.failWith
	}
	if f.failCreate != nil {
		return f.failCreate
	}
	for _, p := range f.payments {
		if p.Reference == payment.Reference {
			return store.ErrDuplicate
		}
	}
	payment.ID = f.nextPaymentID
	f.nextPaymentID++
	payment.Email = strings.ToLower(payment.Email)
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	f.payments = append(f.payments, *payment)
	return nil
}

func (f *fakeStore) PaymentByReference(_ context.Context, reference string) (*models.Payment, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.payments {
		if f.payments[i].Reference == reference {
			p := f.payments[i]
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) PaymentsByEmail(_ context.Context, email string) ([]models.Payment, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	email = strings.ToLower(email)
	var out []models.Payment
	for _, p := range f.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) AllPayments(_ context.Context) ([]models.Payment, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := append([]models.Payment(nil), f.payments...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) CreateRefund(_ context.Context, refund *models.Refund) error {
	if f.failWith != nil {
		return f.failWith
	}
	refund.ID = f.nextRefundID
	f.nextRefundID++
	refund.Email = strings.ToLower(refund.Email)
	if refund.CreatedAt.IsZero() {
		refund.CreatedAt = time.Now()
	}
	f.refunds = append(f.refunds, *refund)
	return nil
}

func (f *fakeStore) attachPayment(r models.Refund) models.Refund {
	for i := range f.payments {
		if f.payments[i].ID == r.PaymentID {
			p := f.payments[i]
			r.Payment = &p
			break
		}
	}
	return r
}

func (f *fakeStore) RefundByID(_ context.Context, id uint) (*models.Refund, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for i := range f.refunds {
		if f.refunds[i].ID == id {
			r := f.attachPayment(f.refunds[i])
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) UpdateRefundStatus(_ context.Context, id uint, status string) error {
	if f.failWith != nil {
		return f.failWith
	}
	for i := range f.refunds {
		if f.refunds[i].ID == id {
			f.refunds[i].Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) RefundsByEmail(_ context.Context, email string) ([]models.Refund, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	email = strings.ToLower(email)
	var out []models.Refund
	for _, r := range f.refunds {
		if r.Email == email {
			out = append(out, f.attachPayment(r))
		}
	}
	return out, nil
}

func (f *fakeStore) AllRefunds(_ context.Context) ([]models.Refund, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]models.Refund, 0, len(f.refunds))
	for _, r := range f.refunds {
		out = append(out, f.attachPayment(r))
	}
	return out, nil
}

func (f *fakeStore) StaffByEmail(_ context.Context, email string) (*models.Staff, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	email = strings.ToLower(email)
	for i := range f.staff {
		if f.staff[i].Email == email {
			s := f.staff[i]
			return &s, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) ListStaff(_ context.Context) ([]models.Staff, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return append([]models.Staff(nil), f.staff...), nil
}

func (f *fakeStore) CreateAuditLog(_ context.Context, entry *models.AuditLog) error {
	if f.failWith != nil {
		return f.failWith
	}
	if f.failAudit != nil {
		return f.failAudit
	}
	entry.ID = uint(len(f.audits) + 1)
	entry.CreatedAt = time.Now()
	f.audits = append(f.audits, *entry)
	return nil
}

func (f *fakeStore) ListAuditLogs(_ context.Context) ([]models.AuditLog, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return append([]models.AuditLog(nil), f.audits...), nil
}

type fakeVerifier struct {
	result *gateway.Result
	err    error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*gateway.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeMailer struct {
	sent []mailer.Message
}

func (f *fakeMailer) Enqueue(msg mailer.Message) {
	f.sent = append(f.sent, msg)
}

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rizalfh/paylane/internal/gateway"
	"github.com/rizalfh/paylane/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentRouter(fs *fakeStore, fv *fakeVerifier, fm *fakeMailer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPaymentHandler(fs, fv, fm, "ops@paylane.test")
	r.POST("/api/verify-payment", h.VerifyPayment)
	r.GET("/api/payments/:email", h.ListByEmail)
	r.GET("/api/receipts/:reference/qr", h.ReceiptQR)
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVerifyPayment_Success(t *testing.T) {
	fs := newFakeStore()
	fv := &fakeVerifier{result: &gateway.Result{Paid: true, GatewayStatus: "success"}}
	fm := &fakeMailer{}
	r := newPaymentRouter(fs, fv, fm)

	w := postJSON(r, "/api/verify-payment", gin.H{
		"reference": "ref-001",
		"email":     "Alice@Example.COM",
		"amount":    "150.00",
		"name":      "Alice",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])

	require.Len(t, fs.payments, 1)
	assert.Equal(t, "ref-001", fs.payments[0].Reference)
	assert.Equal(t, "alice@example.com", fs.payments[0].Email)
	assert.Equal(t, models.PaymentStatusSuccess, fs.payments[0].Status)
	assert.True(t, fs.payments[0].Amount.Equal(decimal.RequireFromString("150.00")))

	require.Len(t, fm.sent, 2)
	assert.Equal(t, "alice@example.com", fm.sent[0].To)
	assert.Equal(t, "ops@paylane.test", fm.sent[1].To)
}

func TestVerifyPayment_GatewayReportsFailure(t *testing.T) {
	fs := newFakeStore()
	fv := &fakeVerifier{result: &gateway.Result{Paid: false, GatewayStatus: "abandoned"}}
	fm := &fakeMailer{}
	r := newPaymentRouter(fs, fv, fm)

	w := postJSON(r, "/api/verify-payment", gin.H{
		"reference": "ref-002",
		"email":     "bob@example.com",
		"amount":    "25.00",
		"name":      "Bob",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "failed", resp["status"])
	assert.Empty(t, fs.payments)
	assert.Empty(t, fm.sent)
}

func TestVerifyPayment_GatewayTransportError(t *testing.T) {
	fs := newFakeStore()
	fv := &fakeVerifier{err: errors.New("connection refused")}
	r := newPaymentRouter(fs, fv, &fakeMailer{})

	w := postJSON(r, "/api/verify-payment", gin.H{
		"reference": "ref-003",
		"email":     "bob@example.com",
		"amount":    "25.00",
		"name":      "Bob",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
	assert.Empty(t, fs.payments)
}

func TestVerifyPayment_DuplicateReference(t *testing.T) {
	fs := newFakeStore()
	fv := &fakeVerifier{result: &gateway.Result{Paid: true}}
	r := newPaymentRouter(fs, fv, &fakeMailer{})

	body := gin.H{
		"reference": "ref-004",
		"email":     "carol@example.com",
		"amount":    "10.00",
		"name":      "Carol",
	}

	first := postJSON(r, "/api/verify-payment", body)
	require.Equal(t, http.StatusOK, first.Code)

	second := postJSON(r, "/api/verify-payment", body)
	assert.Equal(t, http.StatusConflict, second.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, "duplicate", resp["status"])
	assert.Len(t, fs.payments, 1)
}

func TestVerifyPayment_StoreLookupError(t *testing.T) {
	fs := newFakeStore()
	fs.failWith = errors.New("connection reset by peer")
	r := newPaymentRouter(fs, &fakeVerifier{result: &gateway.Result{Paid: true}}, &fakeMailer{})

	w := postJSON(r, "/api/verify-payment", gin.H{
		"reference": "ref-010",
		"email":     "frank@example.com",
		"amount":    "75.00",
		"name":      "Frank",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
}

func TestVerifyPayment_StoreWriteError(t *testing.T) {
	fs := newFakeStore()
	fs.failCreate = errors.New("pq: out of disk")
	fm := &fakeMailer{}
	r := newPaymentRouter(fs, &fakeVerifier{result: &gateway.Result{Paid: true}}, fm)

	w := postJSON(r, "/api/verify-payment", gin.H{
		"reference": "ref-011",
		"email":     "grace@example.com",
		"amount":    "75.00",
		"name":      "Grace",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
	assert.Empty(t, fs.payments)
	assert.Empty(t, fm.sent)
}

func TestListByEmail_StoreError(t *testing.T) {
	fs := newFakeStore()
	fs.failWith = errors.New("connection reset by peer")
	r := newPaymentRouter(fs, &fakeVerifier{}, &fakeMailer{})

	req := httptest.NewRequest(http.MethodGet, "/api/payments/alice@example.com", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestVerifyPayment_MissingFields(t *testing.T) {
	r := newPaymentRouter(newFakeStore(), &fakeVerifier{}, &fakeMailer{})

	w := postJSON(r, "/api/verify-payment", gin.H{"reference": "ref-005"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyPayment_NonPositiveAmount(t *testing.T) {
	fs := newFakeStore()
	r := newPaymentRouter(fs, &fakeVerifier{result: &gateway.Result{Paid: true}}, &fakeMailer{})

	w := postJSON(r, "/api/verify-payment", gin.H{
		"reference": "ref-006",
		"email":     "dave@example.com",
		"amount":    "-5.00",
		"name":      "Dave",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, fs.payments)
}

func TestListByEmail_CaseInsensitive(t *testing.T) {
	fs := newFakeStore()
	fv := &fakeVerifier{result: &gateway.Result{Paid: true}}
	r := newPaymentRouter(fs, fv, &fakeMailer{})

	w := postJSON(r, "/api/verify-payment", gin.H{
		"reference": "ref-007",
		"email":     "alice@EXAMPLE.com",
		"amount":    "99.99",
		"name":      "Alice",
	})
	require.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{"/api/payments/alice@EXAMPLE.com", "/api/payments/alice@example.com"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)

		var payments []models.Payment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payments))
		require.Len(t, payments, 1, path)
		assert.Equal(t, "ref-007", payments[0].Reference)
	}
}

func TestReceiptQR(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	fs := newFakeStore()
	fv := &fakeVerifier{result: &gateway.Result{Paid: true}}
	r := newPaymentRouter(fs, fv, &fakeMailer{})

	w := postJSON(r, "/api/verify-payment", gin.H{
		"reference": "ref-008",
		"email":     "erin@example.com",
		"amount":    "42.00",
		"name":      "Erin",
	})
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/receipts/ref-008/qr", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())

	req = httptest.NewRequest(http.MethodGet, "/api/receipts/unknown-ref/qr", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

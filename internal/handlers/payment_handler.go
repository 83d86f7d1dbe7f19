package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rizalfh/paylane/internal/gateway"
	"github.com/rizalfh/paylane/internal/helpers"
	"github.com/rizalfh/paylane/internal/mailer"
	"github.com/rizalfh/paylane/internal/models"
	"github.com/rizalfh/paylane/internal/store"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
)

type PaymentHandler struct {
	store      store.Store
	verifier   gateway.Verifier
	mailer     mailer.Mailer
	adminEmail string
}

func NewPaymentHandler(s store.Store, v gateway.Verifier, m mailer.Mailer, adminEmail string) *PaymentHandler {
	return &PaymentHandler{store: s, verifier: v, mailer: m, adminEmail: adminEmail}
}

type VerifyPaymentRequest struct {
	Reference string          `json:"reference" binding:"required"`
	Email     string          `json:"email" binding:"required,email"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Name      string          `json:"name" binding:"required"`
}

// VerifyPayment confirms a gateway reference with the verification service
// and records the payment exactly once.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "failed",
			"message": "Invalid input. Reference, email, amount and name are required.",
		})
		return
	}

	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "failed",
			"message": "Amount must be a positive value.",
		})
		return
	}

	if _, err := h.store.PaymentByReference(c.Request.Context(), req.Reference); err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "duplicate",
			"message": "Payment with this reference has already been recorded.",
		})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Something went wrong. Please try again.",
		})
		return
	}

	result, err := h.verifier.Verify(c.Request.Context(), req.Reference)
	if err != nil {
		logrus.WithError(err).WithField("reference", req.Reference).Error("gateway verification call failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Could not reach the payment gateway. Please try again.",
		})
		return
	}

	if !result.Paid {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "failed",
			"message": "Payment verification failed.",
		})
		return
	}

	payment := models.Payment{
		Reference: req.Reference,
		Email:     strings.ToLower(req.Email),
		Name:      req.Name,
		Amount:    req.Amount,
		Status:    models.PaymentStatusSuccess,
	}

	if err := h.store.CreatePayment(c.Request.Context(), &payment); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			// Lost the race against a concurrent submit of the same reference.
			c.JSON(http.StatusConflict, gin.H{
				"status":  "duplicate",
				"message": "Payment with this reference has already been recorded.",
			})
			return
		}
		logrus.WithError(err).WithField("reference", req.Reference).Error("failed to record payment")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Something went wrong. Please try again.",
		})
		return
	}

	h.mailer.Enqueue(mailer.Message{
		To:      payment.Email,
		Subject: "Payment received",
		Body: fmt.Sprintf("<p>Hi %s,</p><p>We received your payment of %s. Reference: <strong>%s</strong>.</p>",
			payment.Name, payment.Amount.StringFixed(2), payment.Reference),
	})
	h.mailer.Enqueue(mailer.Message{
		To:      h.adminEmail,
		Subject: "New payment recorded",
		Body: fmt.Sprintf("<p>%s (%s) paid %s. Reference: %s.</p>",
			payment.Name, payment.Email, payment.Amount.StringFixed(2), payment.Reference),
	})

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Payment verified and recorded.",
	})
}

// ListByEmail returns every payment for the email, newest first. The lookup is
// case-insensitive because payments are stored with lower-cased emails.
func (h *PaymentHandler) ListByEmail(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Email is required.")
		return
	}

	payments, err := h.store.PaymentsByEmail(c.Request.Context(), email)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch payments.")
		return
	}

	c.JSON(http.StatusOK, payments)
}

func receiptSignature(payment *models.Payment, secretKey string) string {
	data := fmt.Sprintf("%s:%s:%s", payment.Reference, payment.Email, payment.Amount.StringFixed(2))
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// ReceiptQR renders a PNG QR code carrying a signed receipt string for a
// recorded payment.
func (h *PaymentHandler) ReceiptQR(c *gin.Context) {
	reference := c.Param("reference")

	payment, err := h.store.PaymentByReference(c.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Payment not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch payment.")
		return
	}

	qrData := fmt.Sprintf("payment:%s;amount:%s;signature:%s",
		payment.Reference,
		payment.Amount.StringFixed(2),
		receiptSignature(payment, os.Getenv("JWT_SECRET")),
	)

	qrImage, err := qrcode.Encode(qrData, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

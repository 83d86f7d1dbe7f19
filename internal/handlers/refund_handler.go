package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizalfh/paylane/internal/helpers"
	"github.com/rizalfh/paylane/internal/mailer"
	"github.com/rizalfh/paylane/internal/models"
	"github.com/rizalfh/paylane/internal/store"
)

type RefundHandler struct {
	store      store.Store
	mailer     mailer.Mailer
	adminEmail string
}

func NewRefundHandler(s store.Store, m mailer.Mailer, adminEmail string) *RefundHandler {
	return &RefundHandler{store: s, mailer: m, adminEmail: adminEmail}
}

type RefundRequest struct {
	Reference string `json:"reference" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Reason    string `json:"reason" binding:"required"`
}

// RefundView is a refund joined with its parent payment's reference for
// display.
type RefundView struct {
	ID        uint      `json:"id"`
	Reference string    `json:"reference"`
	Email     string    `json:"email"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toRefundView(r models.Refund) RefundView {
	view := RefundView{
		ID:        r.ID,
		Email:     r.Email,
		Reason:    r.Reason,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
	if r.Payment != nil {
		view.Reference = r.Payment.Reference
	}
	return view
}

// Create files a refund appeal against a recorded payment. The payment is
// resolved by reference, not numeric id.
func (h *RefundHandler) Create(c *gin.Context) {
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Reference, email and reason are required.")
		return
	}

	payment, err := h.store.PaymentByReference(c.Request.Context(), req.Reference)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "No payment found for this reference.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to look up payment.")
		return
	}

	refund := models.Refund{
		PaymentID: payment.ID,
		Email:     strings.ToLower(req.Email),
		Reason:    req.Reason,
		Status:    models.RefundStatusPending,
	}

	if err := h.store.CreateRefund(c.Request.Context(), &refund); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create refund request.")
		return
	}

	h.mailer.Enqueue(mailer.Message{
		To:      h.adminEmail,
		Subject: "New refund request",
		Body: fmt.Sprintf("<p>%s requested a refund for payment <strong>%s</strong>.</p><p>Reason: %s</p>",
			refund.Email, payment.Reference, refund.Reason),
	})

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ListByEmail returns the customer's refund requests joined with their parent
// payment references, newest first.
func (h *RefundHandler) ListByEmail(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "Email is required.")
		return
	}

	refunds, err := h.store.RefundsByEmail(c.Request.Context(), email)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch refund requests.")
		return
	}

	views := make([]RefundView, 0, len(refunds))
	for _, r := range refunds {
		views = append(views, toRefundView(r))
	}

	c.JSON(http.StatusOK, views)
}

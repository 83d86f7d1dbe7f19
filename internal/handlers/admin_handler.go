package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rizalfh/paylane/internal/helpers"
	"github.com/rizalfh/paylane/internal/models"
	"github.com/rizalfh/paylane/internal/store"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	store store.Store
}

func NewAdminHandler(s store.Store) *AdminHandler {
	return &AdminHandler{store: s}
}

// ListTransactions returns every recorded payment, newest first.
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	payments, err := h.store.AllPayments(c.Request.Context())
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch transactions.")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// ListRefunds returns every refund request joined with its payment reference.
func (h *AdminHandler) ListRefunds(c *gin.Context) {
	refunds, err := h.store.AllRefunds(c.Request.Context())
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

type RefundStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateRefundStatus settles a pending refund as approved or rejected. The
// transition is one-way: a settled refund cannot be changed again.
func (h *AdminHandler) UpdateRefundStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid refund ID.")
		return
	}

	var req RefundStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Status is required.")
		return
	}
	if req.Status != models.RefundStatusApproved && req.Status != models.RefundStatusRejected {
		helpers.RespondWithError(c, http.StatusBadRequest, "Status must be 'approved' or 'rejected'.")
		return
	}

	refund, err := h.store.RefundByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Refund request not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch refund request.")
		return
	}

	if refund.Resolved() {
		helpers.RespondWithError(c, http.StatusConflict, "Refund request has already been resolved.")
		return
	}

	if err := h.store.UpdateRefundStatus(c.Request.Context(), refund.ID, req.Status); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update refund status.")
		return
	}

	actor := c.GetString("staff_email")
	detail, _ := json.Marshal(map[string]string{"from": refund.Status, "to": req.Status})
	err = h.store.CreateAuditLog(c.Request.Context(), &models.AuditLog{
		Actor:    actor,
		Action:   "refund_status_change",
		Entity:   "refunds",
		RecordID: refund.ID,
		Detail:   detail,
	})
	if err != nil {
		logrus.WithError(err).WithField("actor", actor).Warn("failed to write audit log")
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Refund request " + req.Status + ".",
	})
}

// ListStaff returns the staff accounts. Password hashes never serialize.
func (h *AdminHandler) ListStaff(c *gin.Context) {
	staff, err := h.store.ListStaff(c.Request.Context())
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch staff accounts.")
		return
	}
	c.JSON(http.StatusOK, staff)
}

// ListAuditLogs returns the audit trail, newest first.
func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	entries, err := h.store.ListAuditLogs(c.Request.Context())
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch audit logs.")
		return
	}
	c.JSON(http.StatusOK, entries)
}

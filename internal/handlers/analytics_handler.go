package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rizalfh/paylane/internal/analytics"
	"github.com/rizalfh/paylane/internal/helpers"
	"github.com/rizalfh/paylane/internal/store"
)

type AnalyticsHandler struct {
	store      store.Store
	aggregator analytics.Aggregator
}

func NewAnalyticsHandler(s store.Store, a analytics.Aggregator) *AnalyticsHandler {
	return &AnalyticsHandler{store: s, aggregator: a}
}

// GetAnalytics builds the dashboard report for the requested period.
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	period := c.DefaultQuery("period", analytics.PeriodDays)
	if !analytics.ValidPeriod(period) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Period must be one of days, weeks, months, years.")
		return
	}

	payments, err := h.store.AllPayments(c.Request.Context())
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch payments.")
		return
	}

	refunds, err := h.store.AllRefunds(c.Request.Context())
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch refund requests.")
		return
	}

	report := h.aggregator.BuildReport(payments, refunds, period, time.Now())
	c.JSON(http.StatusOK, report)
}

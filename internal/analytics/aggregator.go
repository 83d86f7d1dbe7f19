// Package analytics derives the admin dashboard figures from the full payment
// and refund sets in memory. At single-tenant volumes the O(n) bucket scans are
// fine; the Aggregator interface exists so the computation can later move into
// SQL without changing the handler contract.
package analytics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rizalfh/paylane/internal/models"
	"github.com/shopspring/decimal"
)

const (
	PeriodDays   = "days"
	PeriodWeeks  = "weeks"
	PeriodMonths = "months"
	PeriodYears  = "years"
)

type Bucket struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

type StatusSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Summary struct {
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`
	TotalTransactions   int             `json:"totalTransactions"`
	TotalRefundRequests int             `json:"totalRefundRequests"`
	PendingRefunds      int             `json:"pendingRefunds"`
}

type Report struct {
	Summary    Summary       `json:"summary"`
	DailyData  []Bucket      `json:"dailyData"`
	StatusData []StatusSlice `json:"statusData"`
}

type Aggregator interface {
	BuildReport(payments []models.Payment, refunds []models.Refund, period string, now time.Time) Report
}

type aggregator struct{}

func NewAggregator() Aggregator {
	return aggregator{}
}

func ValidPeriod(period string) bool {
	switch period {
	case PeriodDays, PeriodWeeks, PeriodMonths, PeriodYears:
		return true
	}
	return false
}

func (aggregator) BuildReport(payments []models.Payment, refunds []models.Refund, period string, now time.Time) Report {
	return Report{
		Summary:    buildSummary(payments, refunds),
		DailyData:  buildBuckets(payments, period, now),
		StatusData: buildStatusData(payments, refunds),
	}
}

func buildSummary(payments []models.Payment, refunds []models.Refund) Summary {
	revenue := decimal.Zero
	for _, p := range payments {
		revenue = revenue.Add(p.Amount)
	}

	pending := 0
	for _, r := range refunds {
		if r.Status == models.RefundStatusPending {
			pending++
		}
	}

	return Summary{
		TotalRevenue:        revenue,
		TotalTransactions:   len(payments),
		TotalRefundRequests: len(refunds),
		PendingRefunds:      pending,
	}
}

func buildBuckets(payments []models.Payment, period string, now time.Time) []Bucket {
	switch period {
	case PeriodWeeks:
		return weeklyBuckets(payments, now)
	case PeriodMonths:
		return monthlyBuckets(payments, now)
	case PeriodYears:
		return yearlyBuckets(payments, now)
	default:
		return dailyBuckets(payments, now)
	}
}

// dailyBuckets covers the last 7 calendar days, oldest first, matching
// payments on their creation date.
func dailyBuckets(payments []models.Payment, now time.Time) []Bucket {
	buckets := make([]Bucket, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		amount := decimal.Zero
		for _, p := range payments {
			if p.CreatedAt.Format("2006-01-02") == day {
				amount = amount.Add(p.Amount)
			}
		}
		buckets = append(buckets, Bucket{Label: day, Amount: amount})
	}
	return buckets
}

// weeklyBuckets covers the last 4 trailing 7-day windows ending now, with
// inclusive bounds.
func weeklyBuckets(payments []models.Payment, now time.Time) []Bucket {
	buckets := make([]Bucket, 0, 4)
	for i := 3; i >= 0; i-- {
		end := now.Add(-time.Duration(i) * 7 * 24 * time.Hour)
		start := end.Add(-7 * 24 * time.Hour)
		amount := decimal.Zero
		for _, p := range payments {
			if !p.CreatedAt.Before(start) && !p.CreatedAt.After(end) {
				amount = amount.Add(p.Amount)
			}
		}
		buckets = append(buckets, Bucket{Label: fmt.Sprintf("Week %d", 4-i), Amount: amount})
	}
	return buckets
}

func monthlyBuckets(payments []models.Payment, now time.Time) []Bucket {
	// Anchor on the first of the month so AddDate cannot skip short months.
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	buckets := make([]Bucket, 0, 6)
	for i := 5; i >= 0; i-- {
		month := anchor.AddDate(0, -i, 0)
		amount := decimal.Zero
		for _, p := range payments {
			if p.CreatedAt.Year() == month.Year() && p.CreatedAt.Month() == month.Month() {
				amount = amount.Add(p.Amount)
			}
		}
		buckets = append(buckets, Bucket{Label: month.Format("Jan 2006"), Amount: amount})
	}
	return buckets
}

func yearlyBuckets(payments []models.Payment, now time.Time) []Bucket {
	buckets := make([]Bucket, 0, 3)
	for i := 2; i >= 0; i-- {
		year := now.Year() - i
		amount := decimal.Zero
		for _, p := range payments {
			if p.CreatedAt.Year() == year {
				amount = amount.Add(p.Amount)
			}
		}
		buckets = append(buckets, Bucket{Label: strconv.Itoa(year), Amount: amount})
	}
	return buckets
}

// buildStatusData classifies each payment for the dashboard pie chart: no
// refund request at all, at least one pending request, or only resolved ones.
func buildStatusData(payments []models.Payment, refunds []models.Refund) []StatusSlice {
	byPayment := make(map[uint][]models.Refund)
	for _, r := range refunds {
		byPayment[r.PaymentID] = append(byPayment[r.PaymentID], r)
	}

	completed, pending, resolved := 0, 0, 0
	for _, p := range payments {
		rs := byPayment[p.ID]
		if len(rs) == 0 {
			completed++
			continue
		}
		hasPending := false
		for i := range rs {
			if rs[i].Status == models.RefundStatusPending {
				hasPending = true
				break
			}
		}
		if hasPending {
			pending++
		} else {
			resolved++
		}
	}

	return []StatusSlice{
		{Name: "Completed", Value: completed},
		{Name: "Refunds Pending", Value: pending},
		{Name: "Refunds Resolved", Value: resolved},
	}
}

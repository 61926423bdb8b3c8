// Package performance classifies accounts by order volume and analyses
// ordering cadence over a look-back window.
package performance

import (
	"context"
	"errors"
	"time"

	"kam_backend/platform/apperr"
	"kam_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTimeframeDays        = 30
	DefaultThreshold            = 1
	DefaultPatternTimeframeDays = 90
	DefaultConcurrency          = 8

	// expected orders are counted per 30-day month
	daysPerMonth = 30
	msPerDay     = 86_400_000
)

// Analyzer computes account performance reports.
type Analyzer struct {
	accounts    AccountReader
	orders      OrderFinder
	concurrency int
	log         *logger.Logger
	now         func() time.Time
}

// NewAnalyzer creates an analyzer. concurrency bounds the per-lead order
// queries in flight; values below 1 use DefaultConcurrency.
func NewAnalyzer(accounts AccountReader, orders OrderFinder, concurrency int, log *logger.Logger) *Analyzer {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Analyzer{
		accounts:    accounts,
		orders:      orders,
		concurrency: concurrency,
		log:         log,
		now:         time.Now,
	}
}

// SetClock replaces the time source.
func (a *Analyzer) SetClock(now func() time.Time) {
	a.now = now
}

// accountOrders is one lead's in-window orders, oldest first.
type accountOrders struct {
	account Account
	orders  []OrderRecord
}

// Window returns the inclusive look-back range ending at now. The start is
// timeframeDays whole 24-hour days back, counted on the UTC calendar so
// timeframes beyond time.Duration's range still land in the past.
func Window(now time.Time, timeframeDays int) (time.Time, time.Time) {
	return now.UTC().AddDate(0, 0, -timeframeDays).In(now.Location()), now
}

// ExpectedOrders is the unrounded order count a lead should reach in
// timeframeDays when threshold is its monthly target.
func ExpectedOrders(timeframeDays, threshold int) float64 {
	return float64(timeframeDays) / daysPerMonth * float64(threshold)
}

// WellPerforming lists leads with at least threshold orders in the window.
func (a *Analyzer) WellPerforming(ctx context.Context, timeframeDays, threshold int) (WellPerformingResponse, error) {
	timeframeDays, threshold = normalize(timeframeDays, threshold)

	evaluated, err := a.evaluate(ctx, timeframeDays)
	if err != nil {
		return WellPerformingResponse{}, err
	}

	accounts := make([]PerformingLead, 0)
	for _, e := range evaluated {
		if len(e.orders) >= threshold {
			accounts = append(accounts, PerformingLead{
				Lead:       toLeadSummary(e.account),
				OrderCount: len(e.orders),
			})
		}
	}

	return WellPerformingResponse{
		WellPerformingAccounts: accounts,
		Timeframe:              timeframeDays,
		Threshold:              threshold,
	}, nil
}

// Underperforming lists leads whose in-window order count falls short of
// (timeframeDays / 30) * threshold.
func (a *Analyzer) Underperforming(ctx context.Context, timeframeDays, threshold int) (UnderperformingResponse, error) {
	timeframeDays, threshold = normalize(timeframeDays, threshold)
	expected := ExpectedOrders(timeframeDays, threshold)

	evaluated, err := a.evaluate(ctx, timeframeDays)
	if err != nil {
		return UnderperformingResponse{}, err
	}

	accounts := make([]UnderperformingLead, 0)
	for _, e := range evaluated {
		count := len(e.orders)
		if float64(count) >= expected {
			continue
		}
		accounts = append(accounts, UnderperformingLead{
			Lead:           toLeadSummary(e.account),
			OrderCount:     count,
			ExpectedOrders: expected,
			LastOrderDate:  lastOrderDate(e.orders),
		})
	}

	return UnderperformingResponse{
		UnderperformingAccounts: accounts,
		Timeframe:               timeframeDays,
		Threshold:               threshold,
	}, nil
}

// OrderingPatterns reports order count, the mean gap between consecutive
// orders in fractional days, and the ascending order dates for one lead.
func (a *Analyzer) OrderingPatterns(ctx context.Context, leadID uuid.UUID, timeframeDays int) (OrderingPatternResponse, error) {
	if timeframeDays <= 0 {
		timeframeDays = DefaultPatternTimeframeDays
	}

	account, err := a.accounts.GetAccount(ctx, leadID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return OrderingPatternResponse{}, apperr.NotFound("Lead not found")
		}
		return OrderingPatternResponse{}, apperr.Persistence("GetAccount", err)
	}

	from, to := Window(a.now(), timeframeDays)
	orders, err := a.orders.FindOrders(ctx, account.ID, from, to)
	if err != nil {
		return OrderingPatternResponse{}, apperr.Persistence("FindOrders", err)
	}

	dates := make([]time.Time, len(orders))
	for i, o := range orders {
		dates[i] = o.CreatedAt
	}

	return OrderingPatternResponse{
		TotalOrders:          len(orders),
		AverageOrderInterval: AverageInterval(dates),
		OrderDates:           dates,
		Timeframe:            timeframeDays,
	}, nil
}

// AverageInterval is the arithmetic mean of consecutive gaps in fractional
// days. Dates must be ascending. Fewer than two dates yield 0.
func AverageInterval(dates []time.Time) float64 {
	if len(dates) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(dates); i++ {
		total += float64(dates[i].Sub(dates[i-1]).Milliseconds()) / msPerDay
	}
	return total / float64(len(dates)-1)
}

// evaluate loads every lead and its in-window orders. Each lead gets its own
// order query; results are stored by index so output order follows the
// account list regardless of completion order. Any failure aborts the report.
func (a *Analyzer) evaluate(ctx context.Context, timeframeDays int) ([]accountOrders, error) {
	accounts, err := a.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, apperr.Persistence("ListAccounts", err)
	}

	from, to := Window(a.now(), timeframeDays)
	results := make([]accountOrders, len(accounts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, account := range accounts {
		g.Go(func() error {
			orders, err := a.orders.FindOrders(gctx, account.ID, from, to)
			if err != nil {
				return err
			}
			results[i] = accountOrders{account: account, orders: orders}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.log.DatabaseError("FindOrders", err)
		return nil, apperr.Persistence("FindOrders", err)
	}

	return results, nil
}

func normalize(timeframeDays, threshold int) (int, int) {
	if timeframeDays <= 0 {
		timeframeDays = DefaultTimeframeDays
	}
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	return timeframeDays, threshold
}

func lastOrderDate(orders []OrderRecord) *time.Time {
	if len(orders) == 0 {
		return nil
	}
	latest := orders[0].CreatedAt
	for _, o := range orders[1:] {
		if o.CreatedAt.After(latest) {
			latest = o.CreatedAt
		}
	}
	return &latest
}

func toLeadSummary(a Account) LeadSummary {
	return LeadSummary{ID: a.ID, Name: a.Name, Status: a.Status}
}

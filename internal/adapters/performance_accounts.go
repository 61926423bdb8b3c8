package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	leadsrepo "kam_backend/internal/leads/repository"
	ordersrepo "kam_backend/internal/orders/repository"
	"kam_backend/internal/performance"

	"github.com/google/uuid"
)

// PerformanceAccountReader adapts the leads repository to performance.AccountReader.
type PerformanceAccountReader struct {
	leads leadsrepo.LeadReader
}

// NewPerformanceAccountReader creates a new account reader adapter.
func NewPerformanceAccountReader(leads leadsrepo.LeadReader) *PerformanceAccountReader {
	return &PerformanceAccountReader{leads: leads}
}

func (a *PerformanceAccountReader) ListAccounts(ctx context.Context) ([]performance.Account, error) {
	leads, err := a.leads.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leads for performance: %w", err)
	}

	out := make([]performance.Account, len(leads))
	for i, lead := range leads {
		out[i] = toAccount(lead)
	}
	return out, nil
}

func (a *PerformanceAccountReader) GetAccount(ctx context.Context, id uuid.UUID) (performance.Account, error) {
	lead, err := a.leads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leadsrepo.ErrNotFound) {
			return performance.Account{}, performance.ErrAccountNotFound
		}
		return performance.Account{}, fmt.Errorf("look up lead for performance: %w", err)
	}
	return toAccount(lead), nil
}

func toAccount(lead leadsrepo.Lead) performance.Account {
	return performance.Account{ID: lead.ID, Name: lead.Name, Status: lead.Status}
}

// PerformanceOrderFinder adapts the orders repository to performance.OrderFinder.
type PerformanceOrderFinder struct {
	orders ordersrepo.Reader
}

// NewPerformanceOrderFinder creates a new order finder adapter.
func NewPerformanceOrderFinder(orders ordersrepo.Reader) *PerformanceOrderFinder {
	return &PerformanceOrderFinder{orders: orders}
}

func (a *PerformanceOrderFinder) FindOrders(ctx context.Context, leadID uuid.UUID, from, to time.Time) ([]performance.OrderRecord, error) {
	orders, err := a.orders.FindInRange(ctx, ordersrepo.RangeFilter{LeadID: leadID, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("find orders for lead %s: %w", leadID, err)
	}

	out := make([]performance.OrderRecord, len(orders))
	for i, o := range orders {
		out[i] = performance.OrderRecord{ID: o.ID, CreatedAt: o.CreatedAt}
	}
	return out, nil
}

var (
	_ performance.AccountReader = (*PerformanceAccountReader)(nil)
	_ performance.OrderFinder   = (*PerformanceOrderFinder)(nil)
)

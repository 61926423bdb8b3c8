package adapters

import (
	"context"
	"errors"
	"fmt"

	leadsrepo "kam_backend/internal/leads/repository"
	ordersvc "kam_backend/internal/orders/service"

	"github.com/google/uuid"
)

// OrdersLeadChecker adapts the leads repository to orders/service.LeadChecker.
type OrdersLeadChecker struct {
	leads leadsrepo.LeadReader
}

// NewOrdersLeadChecker creates a new lead checker adapter.
func NewOrdersLeadChecker(leads leadsrepo.LeadReader) *OrdersLeadChecker {
	return &OrdersLeadChecker{leads: leads}
}

func (a *OrdersLeadChecker) Exists(ctx context.Context, leadID uuid.UUID) (bool, error) {
	if _, err := a.leads.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, leadsrepo.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("look up lead for order: %w", err)
	}
	return true, nil
}

var _ ordersvc.LeadChecker = (*OrdersLeadChecker)(nil)

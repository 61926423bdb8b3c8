package performance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrAccountNotFound is returned by AccountReader when a lead does not exist.
var ErrAccountNotFound = errors.New("account not found")

// Account is the lead projection the analyzer reports on.
type Account struct {
	ID     uuid.UUID
	Name   string
	Status string
}

// OrderRecord is the part of an order the analyzer aggregates.
type OrderRecord struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// AccountReader lists and resolves leads.
// Implemented by an adapter over the leads repository.
type AccountReader interface {
	ListAccounts(ctx context.Context) ([]Account, error)
	GetAccount(ctx context.Context, id uuid.UUID) (Account, error)
}

// OrderFinder returns one lead's orders created within [from, to], oldest first.
// Implemented by an adapter over the orders repository.
type OrderFinder interface {
	FindOrders(ctx context.Context, leadID uuid.UUID, from, to time.Time) ([]OrderRecord, error)
}

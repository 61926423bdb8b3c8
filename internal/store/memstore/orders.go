package memstore

import (
	"context"
	"sort"

	"kam_backend/internal/orders/repository"

	"github.com/google/uuid"
)

// Orders implements repository.OrdersRepository in memory.
type Orders struct {
	store  *Store
	orders map[uuid.UUID]repository.Order
}

func (o *Orders) GetByID(_ context.Context, id uuid.UUID) (repository.Order, error) {
	o.store.mu.RLock()
	defer o.store.mu.RUnlock()
	if err := o.store.failure(OpGetOrder); err != nil {
		return repository.Order{}, err
	}

	order, ok := o.orders[id]
	if !ok {
		return repository.Order{}, repository.ErrNotFound
	}
	return order, nil
}

func (o *Orders) List(_ context.Context) ([]repository.Order, error) {
	o.store.mu.RLock()
	defer o.store.mu.RUnlock()
	if err := o.store.failure(OpListOrders); err != nil {
		return nil, err
	}

	return o.selectOrders(func(repository.Order) bool { return true }, false), nil
}

func (o *Orders) ListByLead(_ context.Context, leadID uuid.UUID) ([]repository.Order, error) {
	o.store.mu.RLock()
	defer o.store.mu.RUnlock()
	if err := o.store.failure(OpListOrders); err != nil {
		return nil, err
	}

	return o.selectOrders(func(order repository.Order) bool { return order.LeadID == leadID }, false), nil
}

// FindInRange matches created_at within [From, To] and sorts ascending.
func (o *Orders) FindInRange(_ context.Context, filter repository.RangeFilter) ([]repository.Order, error) {
	o.store.mu.RLock()
	defer o.store.mu.RUnlock()
	if err := o.store.failure(OpFindOrders); err != nil {
		return nil, err
	}

	return o.selectOrders(func(order repository.Order) bool {
		return order.LeadID == filter.LeadID &&
			!order.CreatedAt.Before(filter.From) &&
			!order.CreatedAt.After(filter.To)
	}, true), nil
}

func (o *Orders) Create(_ context.Context, params repository.CreateOrderParams) (repository.Order, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	if err := o.store.failure(OpCreateOrder); err != nil {
		return repository.Order{}, err
	}
	if o.orders == nil {
		o.orders = make(map[uuid.UUID]repository.Order)
	}

	now := o.store.now()
	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	order := repository.Order{
		ID:           uuid.New(),
		LeadID:       params.LeadID,
		Name:         params.Name,
		Amount:       params.Amount,
		Quantity:     params.Quantity,
		Status:       params.Status,
		DeliveryDate: params.DeliveryDate,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	o.orders[order.ID] = order
	return order, nil
}

func (o *Orders) Update(_ context.Context, id uuid.UUID, params repository.UpdateOrderParams) (repository.Order, error) {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	if err := o.store.failure(OpUpdateOrder); err != nil {
		return repository.Order{}, err
	}

	order, ok := o.orders[id]
	if !ok {
		return repository.Order{}, repository.ErrNotFound
	}
	if params.Name != nil {
		order.Name = *params.Name
	}
	if params.Amount != nil {
		order.Amount = *params.Amount
	}
	if params.Quantity != nil {
		order.Quantity = *params.Quantity
	}
	if params.Status != nil {
		order.Status = *params.Status
	}
	if params.DeliveryDate != nil {
		delivery := *params.DeliveryDate
		order.DeliveryDate = &delivery
	}
	order.UpdatedAt = o.store.now()
	o.orders[id] = order
	return order, nil
}

func (o *Orders) Delete(_ context.Context, id uuid.UUID) error {
	o.store.mu.Lock()
	defer o.store.mu.Unlock()
	if err := o.store.failure(OpDeleteOrder); err != nil {
		return err
	}

	if _, ok := o.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(o.orders, id)
	return nil
}

// selectOrders must be called with mu held.
func (o *Orders) selectOrders(match func(repository.Order) bool, ascending bool) []repository.Order {
	out := make([]repository.Order, 0)
	for _, order := range o.orders {
		if match(order) {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		if ascending {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

var _ repository.OrdersRepository = (*Orders)(nil)

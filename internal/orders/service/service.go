package service

import (
	"context"
	"errors"
	"strings"

	"kam_backend/internal/orders/repository"
	"kam_backend/internal/orders/transport"
	"kam_backend/platform/apperr"
	"kam_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	msgOrderNotFound = "Order not found"
	msgOrderCreated  = "Order created successfully"
)

// LeadChecker confirms that an order's lead exists.
// Implemented in the composition root by an adapter over the leads module.
type LeadChecker interface {
	Exists(ctx context.Context, leadID uuid.UUID) (bool, error)
}

// Service provides business logic for orders.
type Service struct {
	repo  repository.OrdersRepository
	leads LeadChecker
	log   *logger.Logger
}

// New creates a new orders service.
func New(repo repository.OrdersRepository, leads LeadChecker, log *logger.Logger) *Service {
	return &Service{repo: repo, leads: leads, log: log}
}

// Create places an order for an existing lead. Status defaults to PENDING.
func (s *Service) Create(ctx context.Context, req transport.CreateOrderRequest) (transport.CreateOrderResponse, error) {
	if req.LeadID == uuid.Nil {
		return transport.CreateOrderResponse{}, apperr.Validation("leadId is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return transport.CreateOrderResponse{}, apperr.Validation("name is required")
	}
	if req.Amount.IsNegative() {
		return transport.CreateOrderResponse{}, apperr.Validation("amount cannot be negative")
	}
	if req.Quantity < 1 {
		return transport.CreateOrderResponse{}, apperr.Validation("quantity must be at least 1")
	}
	status := req.Status
	if status == "" {
		status = transport.StatusPending
	}
	if !status.Valid() {
		return transport.CreateOrderResponse{}, apperr.Validation("invalid status")
	}

	if s.leads != nil {
		ok, err := s.leads.Exists(ctx, req.LeadID)
		if err != nil {
			return transport.CreateOrderResponse{}, apperr.Persistence("LeadExists", err)
		}
		if !ok {
			return transport.CreateOrderResponse{}, apperr.NotFound("lead not found")
		}
	}

	order, err := s.repo.Create(ctx, repository.CreateOrderParams{
		LeadID:       req.LeadID,
		Name:         name,
		Amount:       req.Amount,
		Quantity:     req.Quantity,
		Status:       string(status),
		DeliveryDate: req.DeliveryDate,
	})
	if err != nil {
		return transport.CreateOrderResponse{}, apperr.Persistence("CreateOrder", err)
	}

	s.log.Info("order created", "id", order.ID, "leadId", order.LeadID, "amount", order.Amount.String())
	return transport.CreateOrderResponse{Message: msgOrderCreated, Order: toOrderResponse(order)}, nil
}

// GetByID returns one order.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.OrderResponse, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.OrderResponse{}, mapRepoErr("GetOrder", err)
	}
	return toOrderResponse(order), nil
}

// List returns every order, newest first.
func (s *Service) List(ctx context.Context) ([]transport.OrderResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Persistence("ListOrders", err)
	}
	return toOrderResponses(items), nil
}

// ListByLead returns a lead's orders, newest first.
func (s *Service) ListByLead(ctx context.Context, leadID uuid.UUID) ([]transport.OrderResponse, error) {
	items, err := s.repo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, apperr.Persistence("ListOrdersByLead", err)
	}
	return toOrderResponses(items), nil
}

// Update applies a partial update to an order.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateOrderRequest) (transport.OrderResponse, error) {
	params := repository.UpdateOrderParams{
		Quantity:     req.Quantity,
		DeliveryDate: req.DeliveryDate,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return transport.OrderResponse{}, apperr.Validation("name cannot be empty")
		}
		params.Name = &name
	}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return transport.OrderResponse{}, apperr.Validation("amount cannot be negative")
		}
		params.Amount = req.Amount
	}
	if req.Quantity != nil && *req.Quantity < 1 {
		return transport.OrderResponse{}, apperr.Validation("quantity must be at least 1")
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return transport.OrderResponse{}, apperr.Validation("invalid status")
		}
		status := string(*req.Status)
		params.Status = &status
	}

	order, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.OrderResponse{}, mapRepoErr("UpdateOrder", err)
	}
	return toOrderResponse(order), nil
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoErr("DeleteOrder", err)
	}
	return nil
}

func mapRepoErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msgOrderNotFound)
	}
	return apperr.Persistence(op, err)
}

func toOrderResponse(o repository.Order) transport.OrderResponse {
	return transport.OrderResponse{
		ID:           o.ID,
		LeadID:       o.LeadID,
		Name:         o.Name,
		Amount:       o.Amount,
		Quantity:     o.Quantity,
		Status:       transport.Status(o.Status),
		DeliveryDate: o.DeliveryDate,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func toOrderResponses(items []repository.Order) []transport.OrderResponse {
	out := make([]transport.OrderResponse, len(items))
	for i, o := range items {
		out[i] = toOrderResponse(o)
	}
	return out
}

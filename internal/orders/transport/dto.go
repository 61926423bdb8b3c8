package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// Request DTOs
type CreateOrderRequest struct {
	LeadID       uuid.UUID       `json:"leadId" validate:"required"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Amount       decimal.Decimal `json:"amount"`
	Quantity     int             `json:"quantity" validate:"required,gte=1"`
	Status       Status          `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED DELIVERED CANCELLED"`
	DeliveryDate *time.Time      `json:"deliveryDate"`
}

type UpdateOrderRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Amount       *decimal.Decimal `json:"amount"`
	Quantity     *int             `json:"quantity" validate:"omitempty,gte=1"`
	Status       *Status          `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED DELIVERED CANCELLED"`
	DeliveryDate *time.Time       `json:"deliveryDate"`
}

// Response DTOs
type OrderResponse struct {
	ID           uuid.UUID       `json:"id"`
	LeadID       uuid.UUID       `json:"leadId"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	Quantity     int             `json:"quantity"`
	Status       Status          `json:"status"`
	DeliveryDate *time.Time      `json:"deliveryDate,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type CreateOrderResponse struct {
	Message string        `json:"message"`
	Order   OrderResponse `json:"order"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

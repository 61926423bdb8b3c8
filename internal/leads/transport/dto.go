package transport

import (
	"time"

	"kam_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Request DTOs
type CreateLeadRequest struct {
	Name              string          `json:"name" validate:"required,min=1,max=200"`
	Address           string          `json:"address" validate:"required,min=1,max=500"`
	Type              domain.Category `json:"type" validate:"required,oneof=Restaurant Dhaba"`
	Status            domain.Status   `json:"status" validate:"omitempty,oneof=New Contacted Qualified Closed"`
	CallFrequency     int             `json:"callFrequency" validate:"required,gte=1,lte=365"`
	PreferredTimezone string          `json:"preferredTimezone" validate:"omitempty,timezone"`
}

type UpdateLeadRequest struct {
	Name              *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Address           *string          `json:"address" validate:"omitempty,min=1,max=500"`
	Type              *domain.Category `json:"type" validate:"omitempty,oneof=Restaurant Dhaba"`
	Status            *domain.Status   `json:"status" validate:"omitempty,oneof=New Contacted Qualified Closed"`
	CallFrequency     *int             `json:"callFrequency" validate:"omitempty,gte=1,lte=365"`
	PreferredTimezone *string          `json:"preferredTimezone" validate:"omitempty,timezone"`
}

type CreateContactRequest struct {
	LeadID      uuid.UUID          `json:"leadId" validate:"required"`
	Name        string             `json:"name" validate:"required,min=1,max=100"`
	Role        domain.ContactRole `json:"role" validate:"required,oneof=Owner Manager"`
	PhoneNumber string             `json:"phoneNumber" validate:"required,min=3,max=32"`
	Email       string             `json:"email" validate:"required,email"`
}

type CreateInteractionRequest struct {
	LeadID   uuid.UUID              `json:"leadId" validate:"required"`
	Type     domain.InteractionType `json:"type" validate:"omitempty,oneof=Call Email"`
	Notes    *string                `json:"notes" validate:"omitempty,max=5000"`
	Duration *int                   `json:"duration" validate:"omitempty,gte=0"`
	// NextCallDate overrides the computed schedule. RFC 3339 values keep their
	// offset; wall-clock and date-only values are read in the lead's timezone.
	NextCallDate *string `json:"nextCallDate"`
}

// Response DTOs
type ContactResponse struct {
	ID          uuid.UUID          `json:"id"`
	LeadID      uuid.UUID          `json:"leadId"`
	Name        string             `json:"name"`
	Role        domain.ContactRole `json:"role"`
	PhoneNumber string             `json:"phoneNumber"`
	Email       string             `json:"email"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type LeadResponse struct {
	ID                  uuid.UUID         `json:"id"`
	Name                string            `json:"name"`
	Address             string            `json:"address"`
	Type                domain.Category   `json:"type"`
	Status              domain.Status     `json:"status"`
	CallFrequency       int               `json:"callFrequency"`
	PreferredTimezone   string            `json:"preferredTimezone"`
	LastInteractionDate time.Time         `json:"lastInteractionDate"`
	NextCallDate        time.Time         `json:"nextCallDate"`
	PointsOfContact     []ContactResponse `json:"pointsOfContact"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

type InteractionResponse struct {
	ID        uuid.UUID              `json:"id"`
	LeadID    uuid.UUID              `json:"leadId"`
	UserID    *uuid.UUID             `json:"userId"`
	Type      domain.InteractionType `json:"type"`
	Notes     *string                `json:"notes,omitempty"`
	Duration  *int                   `json:"duration,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

type RecordInteractionResponse struct {
	Message       string    `json:"message"`
	InteractionID uuid.UUID `json:"interactionId"`
	NextCallDate  time.Time `json:"nextCallDate"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

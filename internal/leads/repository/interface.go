package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context) ([]Lead, error)
	// ListDueBy returns leads whose next call date is at or before cutoff,
	// earliest first.
	ListDueBy(ctx context.Context, cutoff time.Time) ([]Lead, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ScheduleWriter persists the two writes behind a recorded interaction.
type ScheduleWriter interface {
	CreateInteraction(ctx context.Context, params CreateInteractionParams) (Interaction, error)
	UpdateCallSchedule(ctx context.Context, params CallScheduleUpdate) (Lead, error)
}

// TxRunner scopes a group of schedule writes to one unit of work.
type TxRunner interface {
	InTx(ctx context.Context, fn func(w ScheduleWriter) error) error
}

// InteractionReader lists a lead's interaction history.
type InteractionReader interface {
	ListInteractions(ctx context.Context, leadID uuid.UUID) ([]Interaction, error)
}

// ContactReader resolves contacts for one or many leads.
type ContactReader interface {
	ListContactsByLead(ctx context.Context, leadID uuid.UUID) ([]Contact, error)
	ListContactsForLeads(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]Contact, error)
}

// ContactStore manages lead contacts.
type ContactStore interface {
	ContactReader
	CreateContact(ctx context.Context, params CreateContactParams) (Contact, error)
}

// LeadsRepository is the full repository interface combining all segregated interfaces.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	ScheduleWriter
	TxRunner
	InteractionReader
	ContactStore
}

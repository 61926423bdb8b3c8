// Package management handles lead CRUD operations.
// This is a vertically sliced feature package containing service logic
// for creating, reading, updating and deleting leads.
package management

import (
	"context"
	"errors"
	"strings"
	"time"

	"kam_backend/internal/events"
	"kam_backend/internal/leads/domain"
	"kam_backend/internal/leads/repository"
	"kam_backend/internal/leads/transport"
	"kam_backend/platform/apperr"

	"github.com/google/uuid"
)

const msgLeadNotFound = "lead not found"

// Repository defines the data access interface needed by the management service.
// This is a consumer-driven interface - only what management needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.ContactReader
}

// Service handles lead management operations.
type Service struct {
	repo     Repository
	eventBus events.Bus
	now      func() time.Time
}

// New creates a new lead management service.
func New(repo Repository, eventBus events.Bus) *Service {
	return &Service{repo: repo, eventBus: eventBus, now: time.Now}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Create stores a new lead. The first call is scheduled callFrequency
// calendar days from now in the lead's timezone.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	name := strings.TrimSpace(req.Name)
	address := strings.TrimSpace(req.Address)
	if name == "" || address == "" {
		return transport.LeadResponse{}, apperr.Validation("name and address are required")
	}
	if !req.Type.Valid() {
		return transport.LeadResponse{}, apperr.Validation("type must be Restaurant or Dhaba")
	}
	status := req.Status
	if status == "" {
		status = domain.StatusNew
	}
	if !status.Valid() {
		return transport.LeadResponse{}, apperr.Validation("invalid status")
	}
	if req.CallFrequency < 1 {
		return transport.LeadResponse{}, apperr.Validation("callFrequency must be at least 1")
	}

	tz := strings.TrimSpace(req.PreferredTimezone)
	if tz == "" {
		tz = domain.DefaultTimezone
	}
	loc, err := domain.LoadZone(tz)
	if err != nil {
		return transport.LeadResponse{}, apperr.Validation("preferredTimezone must be an IANA timezone")
	}

	now := s.now().Truncate(time.Microsecond)
	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		Name:                name,
		Address:             address,
		Category:            string(req.Type),
		Status:              string(status),
		CallFrequency:       req.CallFrequency,
		PreferredTimezone:   tz,
		LastInteractionDate: now,
		NextCallDate:        domain.NextCallDate(now, req.CallFrequency, loc),
	})
	if err != nil {
		return transport.LeadResponse{}, apperr.Persistence("CreateLead", err)
	}

	s.eventBus.Publish(ctx, events.LeadCreated{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		Name:         lead.Name,
		NextCallDate: lead.NextCallDate,
	})

	return ToLeadResponse(lead, nil), nil
}

// GetByID returns a single lead with its contacts.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.getLead(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	contacts, err := s.repo.ListContactsByLead(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, apperr.Persistence("ListContactsByLead", err)
	}

	return ToLeadResponse(lead, contacts), nil
}

// List returns every lead with contacts resolved.
func (s *Service) List(ctx context.Context) ([]transport.LeadResponse, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Persistence("ListLeads", err)
	}

	contacts, err := s.repo.ListContactsForLeads(ctx, leadIDs(leads))
	if err != nil {
		return nil, apperr.Persistence("ListContactsForLeads", err)
	}

	return ToLeadResponses(leads, contacts), nil
}

// Update applies a partial update. Changing callFrequency or preferredTimezone
// re-derives nextCallDate from lastInteractionDate; a derived date already in
// the past is moved to now so the lead shows up as due.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	current, err := s.getLead(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	params := repository.UpdateLeadParams{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return transport.LeadResponse{}, apperr.Validation("name cannot be empty")
		}
		params.Name = &name
	}
	if req.Address != nil {
		address := strings.TrimSpace(*req.Address)
		if address == "" {
			return transport.LeadResponse{}, apperr.Validation("address cannot be empty")
		}
		params.Address = &address
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return transport.LeadResponse{}, apperr.Validation("type must be Restaurant or Dhaba")
		}
		category := string(*req.Type)
		params.Category = &category
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return transport.LeadResponse{}, apperr.Validation("invalid status")
		}
		status := string(*req.Status)
		params.Status = &status
	}

	frequency := current.CallFrequency
	tz := current.PreferredTimezone
	rescheduled := false

	if req.CallFrequency != nil && *req.CallFrequency != current.CallFrequency {
		if *req.CallFrequency < 1 {
			return transport.LeadResponse{}, apperr.Validation("callFrequency must be at least 1")
		}
		frequency = *req.CallFrequency
		params.CallFrequency = &frequency
		rescheduled = true
	}
	if req.PreferredTimezone != nil && strings.TrimSpace(*req.PreferredTimezone) != current.PreferredTimezone {
		tz = strings.TrimSpace(*req.PreferredTimezone)
		if tz == "" {
			tz = domain.DefaultTimezone
		}
		params.PreferredTimezone = &tz
		rescheduled = true
	}

	if rescheduled {
		loc, err := domain.LoadZone(tz)
		if err != nil {
			return transport.LeadResponse{}, apperr.Validation("preferredTimezone must be an IANA timezone")
		}
		next := domain.NextCallDate(current.LastInteractionDate, frequency, loc)
		if now := s.now().Truncate(time.Microsecond); next.Before(now) {
			next = now
		}
		params.NextCallDate = &next
	}

	lead, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		return transport.LeadResponse{}, apperr.Persistence("UpdateLead", err)
	}

	if rescheduled {
		s.eventBus.Publish(ctx, events.LeadScheduleChanged{
			BaseEvent:    events.NewBaseEvent(),
			LeadID:       lead.ID,
			NextCallDate: lead.NextCallDate,
		})
	}

	contacts, err := s.repo.ListContactsByLead(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, apperr.Persistence("ListContactsByLead", err)
	}

	return ToLeadResponse(lead, contacts), nil
}

// Delete removes a lead. Dependent contacts, interactions and orders are not
// removed and keep referencing the deleted id.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgLeadNotFound)
		}
		return apperr.Persistence("DeleteLead", err)
	}
	return nil
}

// Exists reports whether a lead is present. Used by other modules through adapters.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, apperr.Persistence("GetLead", err)
	}
	return true, nil
}

func (s *Service) getLead(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, apperr.NotFound(msgLeadNotFound)
		}
		return repository.Lead{}, apperr.Persistence("GetLead", err)
	}
	return lead, nil
}

func leadIDs(leads []repository.Lead) []uuid.UUID {
	ids := make([]uuid.UUID, len(leads))
	for i, lead := range leads {
		ids[i] = lead.ID
	}
	return ids
}

// Package contacts manages the points of contact attached to a lead.
package contacts

import (
	"context"
	"errors"
	"strings"

	"kam_backend/internal/leads/management"
	"kam_backend/internal/leads/repository"
	"kam_backend/internal/leads/transport"
	"kam_backend/platform/apperr"
	"kam_backend/platform/phone"

	"github.com/google/uuid"
)

const msgNoContacts = "no contacts found for this lead"

// Repository is the persistence surface for contacts.
type Repository interface {
	repository.ContactStore
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
}

// Service creates and lists lead contacts.
type Service struct {
	repo          Repository
	defaultRegion string
}

// New creates a contacts service. Phone numbers without a country prefix are
// read in defaultRegion.
func New(repo Repository, defaultRegion string) *Service {
	if strings.TrimSpace(defaultRegion) == "" {
		defaultRegion = phone.DefaultRegion
	}
	return &Service{repo: repo, defaultRegion: defaultRegion}
}

// Create attaches a contact to an existing lead. The phone number is stored in E.164.
func (s *Service) Create(ctx context.Context, req transport.CreateContactRequest) (transport.ContactResponse, error) {
	if req.LeadID == uuid.Nil {
		return transport.ContactResponse{}, apperr.Validation("leadId is required")
	}
	if !req.Role.Valid() {
		return transport.ContactResponse{}, apperr.Validation("role must be Owner or Manager")
	}

	if _, err := s.repo.GetByID(ctx, req.LeadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ContactResponse{}, apperr.NotFound("lead not found")
		}
		return transport.ContactResponse{}, apperr.Persistence("GetLead", err)
	}

	normalized, err := phone.NormalizeE164(req.PhoneNumber, s.defaultRegion)
	if err != nil {
		return transport.ContactResponse{}, apperr.Validation("phoneNumber is not a valid phone number")
	}

	contact, err := s.repo.CreateContact(ctx, repository.CreateContactParams{
		LeadID:      req.LeadID,
		Name:        strings.TrimSpace(req.Name),
		Role:        string(req.Role),
		PhoneNumber: normalized,
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
	})
	if err != nil {
		return transport.ContactResponse{}, apperr.Persistence("CreateContact", err)
	}

	return management.ToContactResponse(contact), nil
}

// ListByLead returns a lead's contacts. An empty result is reported as not found.
func (s *Service) ListByLead(ctx context.Context, leadID uuid.UUID) ([]transport.ContactResponse, error) {
	items, err := s.repo.ListContactsByLead(ctx, leadID)
	if err != nil {
		return nil, apperr.Persistence("ListContactsByLead", err)
	}
	if len(items) == 0 {
		return nil, apperr.NotFound(msgNoContacts)
	}
	return management.ToContactResponses(items), nil
}

package management

import (
	"kam_backend/internal/leads/domain"
	"kam_backend/internal/leads/repository"
	"kam_backend/internal/leads/transport"

	"github.com/google/uuid"
)

// ToLeadResponse converts a repository lead and its contacts to a response.
func ToLeadResponse(lead repository.Lead, contacts []repository.Contact) transport.LeadResponse {
	return transport.LeadResponse{
		ID:                  lead.ID,
		Name:                lead.Name,
		Address:             lead.Address,
		Type:                domain.Category(lead.Category),
		Status:              domain.Status(lead.Status),
		CallFrequency:       lead.CallFrequency,
		PreferredTimezone:   lead.PreferredTimezone,
		LastInteractionDate: lead.LastInteractionDate,
		NextCallDate:        lead.NextCallDate,
		PointsOfContact:     ToContactResponses(contacts),
		CreatedAt:           lead.CreatedAt,
		UpdatedAt:           lead.UpdatedAt,
	}
}

// ToLeadResponses converts leads, attaching contacts from the resolved map.
func ToLeadResponses(leads []repository.Lead, contacts map[uuid.UUID][]repository.Contact) []transport.LeadResponse {
	out := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		out[i] = ToLeadResponse(lead, contacts[lead.ID])
	}
	return out
}

func ToContactResponse(c repository.Contact) transport.ContactResponse {
	return transport.ContactResponse{
		ID:          c.ID,
		LeadID:      c.LeadID,
		Name:        c.Name,
		Role:        domain.ContactRole(c.Role),
		PhoneNumber: c.PhoneNumber,
		Email:       c.Email,
		CreatedAt:   c.CreatedAt,
	}
}

func ToContactResponses(contacts []repository.Contact) []transport.ContactResponse {
	out := make([]transport.ContactResponse, len(contacts))
	for i, c := range contacts {
		out[i] = ToContactResponse(c)
	}
	return out
}

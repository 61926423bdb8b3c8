package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Contact struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	Name        string
	Role        string
	PhoneNumber string
	Email       string
	CreatedAt   time.Time
}

type CreateContactParams struct {
	LeadID      uuid.UUID
	Name        string
	Role        string
	PhoneNumber string
	Email       string
}

const contactColumns = `id, lead_id, name, role, phone_number, email, created_at`

const insertContactQuery = `
	INSERT INTO contacts (id, lead_id, name, role, phone_number, email)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING ` + contactColumns

const listContactsByLeadQuery = `SELECT ` + contactColumns + `
	FROM contacts WHERE lead_id = $1 ORDER BY created_at ASC`

const listContactsForLeadsQuery = `SELECT ` + contactColumns + `
	FROM contacts WHERE lead_id = ANY($1) ORDER BY created_at ASC`

func (r *Repository) CreateContact(ctx context.Context, params CreateContactParams) (Contact, error) {
	var contact Contact
	err := r.db.QueryRow(ctx, insertContactQuery,
		uuid.New(), params.LeadID, params.Name, params.Role, params.PhoneNumber, params.Email,
	).Scan(&contact.ID, &contact.LeadID, &contact.Name, &contact.Role, &contact.PhoneNumber, &contact.Email, &contact.CreatedAt)
	return contact, err
}

func (r *Repository) ListContactsByLead(ctx context.Context, leadID uuid.UUID) ([]Contact, error) {
	rows, err := r.db.Query(ctx, listContactsByLeadQuery, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]Contact, 0)
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.LeadID, &c.Name, &c.Role, &c.PhoneNumber, &c.Email, &c.CreatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return contacts, nil
}

// ListContactsForLeads resolves contacts for a batch of leads in one query.
func (r *Repository) ListContactsForLeads(ctx context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]Contact, error) {
	result := make(map[uuid.UUID][]Contact, len(leadIDs))
	if len(leadIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.Query(ctx, listContactsForLeadsQuery, leadIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.LeadID, &c.Name, &c.Role, &c.PhoneNumber, &c.Email, &c.CreatedAt); err != nil {
			return nil, err
		}
		result[c.LeadID] = append(result[c.LeadID], c)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return result, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Lead struct {
	ID                  uuid.UUID
	Name                string
	Address             string
	Category            string
	Status              string
	CallFrequency       int
	PreferredTimezone   string
	LastInteractionDate time.Time
	NextCallDate        time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type CreateLeadParams struct {
	ID                  uuid.UUID
	Name                string
	Address             string
	Category            string
	Status              string
	CallFrequency       int
	PreferredTimezone   string
	LastInteractionDate time.Time
	NextCallDate        time.Time
}

type UpdateLeadParams struct {
	Name              *string
	Address           *string
	Category          *string
	Status            *string
	CallFrequency     *int
	PreferredTimezone *string
	NextCallDate      *time.Time
}

// CallScheduleUpdate is the lead half of a recorded interaction.
type CallScheduleUpdate struct {
	LeadID              uuid.UUID
	LastInteractionDate time.Time
	NextCallDate        time.Time
}

const leadColumns = `id, name, address, category, status, call_frequency, preferred_timezone,
	last_interaction_date, next_call_date, created_at, updated_at`

const getLeadQuery = `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

const listLeadsQuery = `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC`

const listLeadsDueByQuery = `SELECT ` + leadColumns + `
	FROM leads
	WHERE next_call_date <= $1
	ORDER BY next_call_date ASC, name ASC`

const insertLeadQuery = `
	INSERT INTO leads (id, name, address, category, status, call_frequency, preferred_timezone,
		last_interaction_date, next_call_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING ` + leadColumns

const updateCallScheduleQuery = `
	UPDATE leads SET last_interaction_date = $2, next_call_date = $3, updated_at = now()
	WHERE id = $1
	RETURNING ` + leadColumns

const deleteLeadQuery = `DELETE FROM leads WHERE id = $1`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Address, &lead.Category, &lead.Status, &lead.CallFrequency, &lead.PreferredTimezone,
		&lead.LastInteractionDate, &lead.NextCallDate, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) queryLeads(ctx context.Context, query string, args ...any) ([]Lead, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return leads, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	return scanLead(r.db.QueryRow(ctx, getLeadQuery, id))
}

func (r *Repository) List(ctx context.Context) ([]Lead, error) {
	return r.queryLeads(ctx, listLeadsQuery)
}

func (r *Repository) ListDueBy(ctx context.Context, cutoff time.Time) ([]Lead, error) {
	return r.queryLeads(ctx, listLeadsDueByQuery, cutoff)
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	if params.ID == uuid.Nil {
		params.ID = uuid.New()
	}
	return scanLead(r.db.QueryRow(ctx, insertLeadQuery,
		params.ID, params.Name, params.Address, params.Category, params.Status, params.CallFrequency,
		params.PreferredTimezone, params.LastInteractionDate, params.NextCallDate,
	))
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{params.Name != nil, "name", derefString(params.Name)},
		{params.Address != nil, "address", derefString(params.Address)},
		{params.Category != nil, "category", derefString(params.Category)},
		{params.Status != nil, "status", derefString(params.Status)},
		{params.CallFrequency != nil, "call_frequency", derefInt(params.CallFrequency)},
		{params.PreferredTimezone != nil, "preferred_timezone", derefString(params.PreferredTimezone)},
		{params.NextCallDate != nil, "next_call_date", derefTime(params.NextCallDate)},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, leadColumns)

	return scanLead(r.db.QueryRow(ctx, query, args...))
}

// UpdateCallSchedule writes the schedule fields only. Concurrent calls for the
// same lead are last-write-wins unless the caller serializes them.
func (r *Repository) UpdateCallSchedule(ctx context.Context, params CallScheduleUpdate) (Lead, error) {
	return scanLead(r.db.QueryRow(ctx, updateCallScheduleQuery, params.LeadID, params.LastInteractionDate, params.NextCallDate))
}

// Delete removes the lead row only. Contacts, interactions and orders that
// reference it are left in place.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, deleteLeadQuery, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefTime(v *time.Time) time.Time {
	if v == nil {
		return time.Time{}
	}
	return *v
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Interaction struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	UserID    *uuid.UUID
	Type      string
	Notes     *string
	Duration  *int
	CreatedAt time.Time
}

type CreateInteractionParams struct {
	LeadID    uuid.UUID
	UserID    *uuid.UUID
	Type      string
	Notes     *string
	Duration  *int
	CreatedAt time.Time
}

const interactionColumns = `id, lead_id, user_id, type, notes, duration, created_at`

const insertInteractionQuery = `
	INSERT INTO interactions (id, lead_id, user_id, type, notes, duration, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING ` + interactionColumns

const listInteractionsQuery = `SELECT ` + interactionColumns + `
	FROM interactions WHERE lead_id = $1 ORDER BY created_at DESC`

func (r *Repository) CreateInteraction(ctx context.Context, params CreateInteractionParams) (Interaction, error) {
	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var in Interaction
	err := r.db.QueryRow(ctx, insertInteractionQuery,
		uuid.New(), params.LeadID, params.UserID, params.Type, params.Notes, params.Duration, createdAt,
	).Scan(&in.ID, &in.LeadID, &in.UserID, &in.Type, &in.Notes, &in.Duration, &in.CreatedAt)
	return in, err
}

func (r *Repository) ListInteractions(ctx context.Context, leadID uuid.UUID) ([]Interaction, error) {
	rows, err := r.db.Query(ctx, listInteractionsQuery, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Interaction, 0)
	for rows.Next() {
		var in Interaction
		if err := rows.Scan(&in.ID, &in.LeadID, &in.UserID, &in.Type, &in.Notes, &in.Duration, &in.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, in)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

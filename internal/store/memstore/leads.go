package memstore

import (
	"context"
	"sort"
	"time"

	"kam_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// Leads implements repository.LeadsRepository in memory.
type Leads struct {
	store *Store

	leads        map[uuid.UUID]repository.Lead
	contacts     []repository.Contact
	interactions []repository.Interaction
}

func (l *Leads) init() {
	if l.leads == nil {
		l.leads = make(map[uuid.UUID]repository.Lead)
	}
}

func (l *Leads) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	if err := l.store.failure(OpGetLead); err != nil {
		return repository.Lead{}, err
	}

	lead, ok := l.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (l *Leads) List(_ context.Context) ([]repository.Lead, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	if err := l.store.failure(OpListLeads); err != nil {
		return nil, err
	}

	out := make([]repository.Lead, 0, len(l.leads))
	for _, lead := range l.leads {
		out = append(out, lead)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (l *Leads) ListDueBy(_ context.Context, cutoff time.Time) ([]repository.Lead, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	if err := l.store.failure(OpListDueBy); err != nil {
		return nil, err
	}

	out := make([]repository.Lead, 0)
	for _, lead := range l.leads {
		if !lead.NextCallDate.After(cutoff) {
			out = append(out, lead)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NextCallDate.Equal(out[j].NextCallDate) {
			return out[i].Name < out[j].Name
		}
		return out[i].NextCallDate.Before(out[j].NextCallDate)
	})
	return out, nil
}

func (l *Leads) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	if err := l.store.failure(OpCreateLead); err != nil {
		return repository.Lead{}, err
	}
	l.init()

	id := params.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	now := l.store.now()
	lead := repository.Lead{
		ID:                  id,
		Name:                params.Name,
		Address:             params.Address,
		Category:            params.Category,
		Status:              params.Status,
		CallFrequency:       params.CallFrequency,
		PreferredTimezone:   params.PreferredTimezone,
		LastInteractionDate: params.LastInteractionDate,
		NextCallDate:        params.NextCallDate,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	l.leads[id] = lead
	return lead, nil
}

func (l *Leads) Update(_ context.Context, id uuid.UUID, params repository.UpdateLeadParams) (repository.Lead, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	if err := l.store.failure(OpUpdateLead); err != nil {
		return repository.Lead{}, err
	}

	lead, ok := l.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	if params.Name != nil {
		lead.Name = *params.Name
	}
	if params.Address != nil {
		lead.Address = *params.Address
	}
	if params.Category != nil {
		lead.Category = *params.Category
	}
	if params.Status != nil {
		lead.Status = *params.Status
	}
	if params.CallFrequency != nil {
		lead.CallFrequency = *params.CallFrequency
	}
	if params.PreferredTimezone != nil {
		lead.PreferredTimezone = *params.PreferredTimezone
	}
	if params.NextCallDate != nil {
		lead.NextCallDate = *params.NextCallDate
	}
	lead.UpdatedAt = l.store.now()
	l.leads[id] = lead
	return lead, nil
}

// Delete removes the lead only. Contacts and interactions stay behind.
func (l *Leads) Delete(_ context.Context, id uuid.UUID) error {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	if err := l.store.failure(OpDeleteLead); err != nil {
		return err
	}

	if _, ok := l.leads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(l.leads, id)
	return nil
}

func (l *Leads) CreateInteraction(_ context.Context, params repository.CreateInteractionParams) (repository.Interaction, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	if err := l.store.failure(OpCreateInteraction); err != nil {
		return repository.Interaction{}, err
	}

	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = l.store.now()
	}
	in := repository.Interaction{
		ID:        uuid.New(),
		LeadID:    params.LeadID,
		UserID:    params.UserID,
		Type:      params.Type,
		Notes:     params.Notes,
		Duration:  params.Duration,
		CreatedAt: createdAt,
	}
	l.interactions = append(l.interactions, in)
	return in, nil
}

func (l *Leads) UpdateCallSchedule(_ context.Context, params repository.CallScheduleUpdate) (repository.Lead, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	if err := l.store.failure(OpUpdateCallSchedule); err != nil {
		return repository.Lead{}, err
	}

	lead, ok := l.leads[params.LeadID]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.LastInteractionDate = params.LastInteractionDate
	lead.NextCallDate = params.NextCallDate
	lead.UpdatedAt = l.store.now()
	l.leads[params.LeadID] = lead
	return lead, nil
}

// InTx runs fn and, when it fails, undoes only the writes fn made, so
// writes committed by other callers in the meantime survive.
func (l *Leads) InTx(ctx context.Context, fn func(w repository.ScheduleWriter) error) error {
	tx := &scheduleTx{leads: l}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

type scheduleUndo struct {
	before  repository.Lead
	written repository.Lead
}

// scheduleTx records what one InTx call wrote.
type scheduleTx struct {
	leads        *Leads
	interactions map[uuid.UUID]struct{}
	schedules    []scheduleUndo
}

func (tx *scheduleTx) CreateInteraction(ctx context.Context, params repository.CreateInteractionParams) (repository.Interaction, error) {
	in, err := tx.leads.CreateInteraction(ctx, params)
	if err != nil {
		return in, err
	}
	if tx.interactions == nil {
		tx.interactions = make(map[uuid.UUID]struct{})
	}
	tx.interactions[in.ID] = struct{}{}
	return in, nil
}

func (tx *scheduleTx) UpdateCallSchedule(ctx context.Context, params repository.CallScheduleUpdate) (repository.Lead, error) {
	tx.leads.store.mu.RLock()
	before, ok := tx.leads.leads[params.LeadID]
	tx.leads.store.mu.RUnlock()

	written, err := tx.leads.UpdateCallSchedule(ctx, params)
	if err != nil {
		return written, err
	}
	if ok {
		tx.schedules = append(tx.schedules, scheduleUndo{before: before, written: written})
	}
	return written, nil
}

// rollback removes this transaction's interactions and restores schedules
// it changed, unless another writer has replaced the lead since.
func (tx *scheduleTx) rollback() {
	l := tx.leads
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	if len(tx.interactions) > 0 {
		kept := make([]repository.Interaction, 0, len(l.interactions))
		for _, in := range l.interactions {
			if _, mine := tx.interactions[in.ID]; !mine {
				kept = append(kept, in)
			}
		}
		l.interactions = kept
	}

	for i := len(tx.schedules) - 1; i >= 0; i-- {
		undo := tx.schedules[i]
		current, ok := l.leads[undo.before.ID]
		if !ok || !current.UpdatedAt.Equal(undo.written.UpdatedAt) ||
			!current.NextCallDate.Equal(undo.written.NextCallDate) {
			continue
		}
		l.leads[undo.before.ID] = undo.before
	}
}

func (l *Leads) ListInteractions(_ context.Context, leadID uuid.UUID) ([]repository.Interaction, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	if err := l.store.failure(OpListInteractions); err != nil {
		return nil, err
	}

	out := make([]repository.Interaction, 0)
	for _, in := range l.interactions {
		if in.LeadID == leadID {
			out = append(out, in)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Interactions returns every stored interaction in insertion order.
func (l *Leads) Interactions() []repository.Interaction {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	out := make([]repository.Interaction, len(l.interactions))
	copy(out, l.interactions)
	return out
}

func (l *Leads) CreateContact(_ context.Context, params repository.CreateContactParams) (repository.Contact, error) {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	if err := l.store.failure(OpCreateContact); err != nil {
		return repository.Contact{}, err
	}

	contact := repository.Contact{
		ID:          uuid.New(),
		LeadID:      params.LeadID,
		Name:        params.Name,
		Role:        params.Role,
		PhoneNumber: params.PhoneNumber,
		Email:       params.Email,
		CreatedAt:   l.store.now(),
	}
	l.contacts = append(l.contacts, contact)
	return contact, nil
}

func (l *Leads) ListContactsByLead(_ context.Context, leadID uuid.UUID) ([]repository.Contact, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	if err := l.store.failure(OpListContacts); err != nil {
		return nil, err
	}

	out := make([]repository.Contact, 0)
	for _, c := range l.contacts {
		if c.LeadID == leadID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (l *Leads) ListContactsForLeads(_ context.Context, leadIDs []uuid.UUID) (map[uuid.UUID][]repository.Contact, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	if err := l.store.failure(OpListContacts); err != nil {
		return nil, err
	}

	wanted := make(map[uuid.UUID]struct{}, len(leadIDs))
	for _, id := range leadIDs {
		wanted[id] = struct{}{}
	}
	out := make(map[uuid.UUID][]repository.Contact)
	for _, c := range l.contacts {
		if _, ok := wanted[c.LeadID]; ok {
			out[c.LeadID] = append(out[c.LeadID], c)
		}
	}
	return out, nil
}

var _ repository.LeadsRepository = (*Leads)(nil)

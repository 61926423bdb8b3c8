// Package scheduling keeps each lead's next call date in step with its
// interaction history and answers which leads are due for a call.
package scheduling

import (
	"context"
	"errors"
	"strings"
	"time"

	"kam_backend/internal/events"
	"kam_backend/internal/leads/domain"
	"kam_backend/internal/leads/management"
	"kam_backend/internal/leads/repository"
	"kam_backend/internal/leads/transport"
	"kam_backend/platform/apperr"
	"kam_backend/platform/lock"
	"kam_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	msgLeadNotFound        = "Lead not found"
	msgInteractionRecorded = "Interaction added successfully"
	leadLockPrefix         = "lead:"
)

// Repository is the persistence surface the scheduler needs.
type Repository interface {
	repository.LeadReader
	repository.InteractionReader
	repository.ContactReader
	repository.TxRunner
}

// RecordInteractionInput carries one interaction to record.
type RecordInteractionInput struct {
	LeadID       uuid.UUID
	UserID       *uuid.UUID
	Type         domain.InteractionType
	Notes        *string
	Duration     *int
	NextCallDate *string
}

// Service records interactions and plans calls.
type Service struct {
	repo        Repository
	eventBus    events.Bus
	locker      lock.Locker
	planningLoc *time.Location
	log         *logger.Logger
	now         func() time.Time
}

// New creates a scheduling service. planningLoc defines the "today" boundary
// for the call list; nil means the server's local zone.
func New(repo Repository, eventBus events.Bus, locker lock.Locker, planningLoc *time.Location, log *logger.Logger) *Service {
	if locker == nil {
		locker = lock.NoopLocker{}
	}
	if planningLoc == nil {
		planningLoc = time.Local
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:        repo,
		eventBus:    eventBus,
		locker:      locker,
		planningLoc: planningLoc,
		log:         log,
		now:         time.Now,
	}
}

// SetClock replaces the time source. Readings are truncated to the
// microsecond, the precision of TIMESTAMPTZ, before they are stored or
// returned.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// RecordInteraction stores an interaction and advances the lead's call schedule.
// Without an explicit date the next call is callFrequency calendar days after
// now, counted in the lead's preferred timezone.
func (s *Service) RecordInteraction(ctx context.Context, in RecordInteractionInput) (transport.RecordInteractionResponse, error) {
	if in.LeadID == uuid.Nil {
		return transport.RecordInteractionResponse{}, apperr.Validation("leadId is required")
	}

	interactionType := in.Type
	if interactionType == "" {
		interactionType = domain.InteractionCall
	}
	if !interactionType.Valid() {
		return transport.RecordInteractionResponse{}, apperr.Validation("type must be Call or Email")
	}
	if in.Duration != nil && *in.Duration < 0 {
		return transport.RecordInteractionResponse{}, apperr.Validation("duration cannot be negative")
	}

	release, err := s.locker.Obtain(ctx, leadLockPrefix+in.LeadID.String())
	if err != nil {
		if errors.Is(err, lock.ErrNotObtained) {
			return transport.RecordInteractionResponse{}, apperr.Conflict("another interaction for this lead is being recorded")
		}
		return transport.RecordInteractionResponse{}, apperr.Wrap(apperr.KindInternal, "failed to lock lead", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn("failed to release lead lock", "leadId", in.LeadID, "error", err)
		}
	}()

	lead, err := s.repo.GetByID(ctx, in.LeadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.RecordInteractionResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		return transport.RecordInteractionResponse{}, apperr.Persistence("GetLead", err)
	}

	loc, err := domain.LoadZone(lead.PreferredTimezone)
	if err != nil {
		return transport.RecordInteractionResponse{}, apperr.Validation("lead has an unknown preferredTimezone")
	}

	now := s.now().Truncate(time.Microsecond)
	next, err := s.resolveNextCallDate(in.NextCallDate, now, lead.CallFrequency, loc)
	if err != nil {
		return transport.RecordInteractionResponse{}, err
	}

	var interaction repository.Interaction
	err = s.repo.InTx(ctx, func(w repository.ScheduleWriter) error {
		var txErr error
		interaction, txErr = w.CreateInteraction(ctx, repository.CreateInteractionParams{
			LeadID:    lead.ID,
			UserID:    in.UserID,
			Type:      string(interactionType),
			Notes:     in.Notes,
			Duration:  in.Duration,
			CreatedAt: now,
		})
		if txErr != nil {
			return apperr.Persistence("CreateInteraction", txErr)
		}

		if _, txErr = w.UpdateCallSchedule(ctx, repository.CallScheduleUpdate{
			LeadID:              lead.ID,
			LastInteractionDate: now,
			NextCallDate:        next,
		}); txErr != nil {
			if errors.Is(txErr, repository.ErrNotFound) {
				return apperr.NotFound(msgLeadNotFound)
			}
			return apperr.Persistence("UpdateCallSchedule", txErr)
		}
		return nil
	})
	if err != nil {
		if apperr.GetKind(err) == apperr.KindUnknown {
			err = apperr.Persistence("RecordInteraction", err)
		}
		return transport.RecordInteractionResponse{}, err
	}

	s.eventBus.Publish(ctx, events.InteractionRecorded{
		BaseEvent:       events.NewBaseEvent(),
		InteractionID:   interaction.ID,
		LeadID:          lead.ID,
		UserID:          in.UserID,
		InteractionType: string(interactionType),
		NextCallDate:    next,
	})
	s.log.InteractionRecorded(lead.ID.String(), string(interactionType), next)
	interactionsRecorded.WithLabelValues(string(interactionType)).Inc()

	return transport.RecordInteractionResponse{
		Message:       msgInteractionRecorded,
		InteractionID: interaction.ID,
		NextCallDate:  next,
	}, nil
}

// resolveNextCallDate returns the explicit date when one is given, else the
// cadence-derived date. Explicit dates before the start of today in the
// lead's zone are rejected.
func (s *Service) resolveNextCallDate(raw *string, now time.Time, frequency int, loc *time.Location) (time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return domain.NextCallDate(now, frequency, loc), nil
	}

	explicit, err := domain.ParseNextCallDate(*raw, loc)
	if err != nil {
		return time.Time{}, apperr.Validation("nextCallDate must be an RFC 3339 timestamp or a YYYY-MM-DD date")
	}
	if explicit.Before(domain.StartOfDay(now, loc)) {
		return time.Time{}, apperr.Validation("nextCallDate cannot be in the past")
	}
	return explicit, nil
}

// GetLeadsDueToday lists leads whose next call date is at or before midnight
// of the current day in the planning zone, with contacts resolved.
func (s *Service) GetLeadsDueToday(ctx context.Context) ([]transport.LeadResponse, error) {
	cutoff := domain.StartOfDay(s.now(), s.planningLoc)

	leads, err := s.repo.ListDueBy(ctx, cutoff)
	if err != nil {
		return nil, apperr.Persistence("ListDueBy", err)
	}

	ids := make([]uuid.UUID, len(leads))
	for i, lead := range leads {
		ids[i] = lead.ID
	}
	contacts, err := s.repo.ListContactsForLeads(ctx, ids)
	if err != nil {
		return nil, apperr.Persistence("ListContactsForLeads", err)
	}

	out := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		out = append(out, management.ToLeadResponse(lead, contacts[lead.ID]))
	}
	return out, nil
}

// ListInteractions returns a lead's interactions, newest first.
func (s *Service) ListInteractions(ctx context.Context, leadID uuid.UUID) ([]transport.InteractionResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(msgLeadNotFound)
		}
		return nil, apperr.Persistence("GetLead", err)
	}

	items, err := s.repo.ListInteractions(ctx, leadID)
	if err != nil {
		return nil, apperr.Persistence("ListInteractions", err)
	}

	out := make([]transport.InteractionResponse, len(items))
	for i, it := range items {
		out[i] = transport.InteractionResponse{
			ID:        it.ID,
			LeadID:    it.LeadID,
			UserID:    it.UserID,
			Type:      domain.InteractionType(it.Type),
			Notes:     it.Notes,
			Duration:  it.Duration,
			CreatedAt: it.CreatedAt,
		}
	}
	return out, nil
}

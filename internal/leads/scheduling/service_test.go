package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"kam_backend/internal/events"
	"kam_backend/internal/leads/domain"
	"kam_backend/internal/leads/repository"
	"kam_backend/internal/store/memstore"
	"kam_backend/platform/apperr"
	"kam_backend/platform/lock"
	"kam_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type busyLocker struct{}

func (busyLocker) Obtain(context.Context, string) (lock.Release, error) {
	return nil, lock.ErrNotObtained
}

func newTestService(t *testing.T, now time.Time, locker lock.Locker) (*Service, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	store.SetClock(func() time.Time { return now })

	svc := New(store.Leads(), events.NewInMemoryBus(logger.Nop()), locker, time.UTC, logger.Nop())
	svc.SetClock(func() time.Time { return now })
	return svc, store
}

func seedLead(t *testing.T, store *memstore.Store, name, tz string, frequency int, next time.Time) repository.Lead {
	t.Helper()
	lead, err := store.Leads().Create(context.Background(), repository.CreateLeadParams{
		Name:                name,
		Address:             "1 Test Road",
		Category:            string(domain.CategoryRestaurant),
		Status:              string(domain.StatusNew),
		CallFrequency:       frequency,
		PreferredTimezone:   tz,
		LastInteractionDate: next.AddDate(0, 0, -frequency),
		NextCallDate:        next,
	})
	if err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	return lead
}

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := domain.LoadZone(name)
	if err != nil {
		t.Fatalf("load zone %s: %v", name, err)
	}
	return loc
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestRecordInteractionSchedulesCalendarDaysInLeadZone(t *testing.T) {
	now := time.Date(2024, time.March, 9, 15, 0, 0, 0, time.UTC) // 10:00 EST, day before spring-forward
	svc, store := newTestService(t, now, nil)
	lead := seedLead(t, store, "Spice Route", "America/New_York", 1, now)

	res, err := svc.RecordInteraction(context.Background(), RecordInteractionInput{
		LeadID:   lead.ID,
		Type:     domain.InteractionCall,
		Notes:    strPtr("Discussed the weekend menu."),
		Duration: intPtr(12),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := time.Date(2024, time.March, 10, 14, 0, 0, 0, time.UTC) // 10:00 EDT
	if !res.NextCallDate.Equal(want) {
		t.Fatalf("expected next call %s, got %s", want, res.NextCallDate.UTC())
	}
	if res.Message != msgInteractionRecorded {
		t.Fatalf("expected message %q, got %q", msgInteractionRecorded, res.Message)
	}

	stored, err := store.Leads().GetByID(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("reload lead: %v", err)
	}
	if !stored.LastInteractionDate.Equal(now) {
		t.Fatalf("expected lastInteractionDate %s, got %s", now, stored.LastInteractionDate)
	}
	if !stored.NextCallDate.Equal(want) {
		t.Fatalf("expected stored next call %s, got %s", want, stored.NextCallDate.UTC())
	}
}

func TestRecordInteractionResultDoesNotDependOnServerZone(t *testing.T) {
	now := time.Date(2024, time.March, 5, 3, 30, 0, 0, time.UTC)
	svc, store := newTestService(t, now, nil)
	lead := seedLead(t, store, "Night Owl", "Asia/Kolkata", 7, now)

	prev := time.Local
	time.Local = mustZone(t, "America/Los_Angeles")
	t.Cleanup(func() { time.Local = prev })

	res, err := svc.RecordInteraction(context.Background(), RecordInteractionInput{LeadID: lead.ID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := domain.NextCallDate(now, 7, mustZone(t, "Asia/Kolkata"))
	if !res.NextCallDate.Equal(want) {
		t.Fatalf("expected %s, got %s", want.UTC(), res.NextCallDate.UTC())
	}
}

func TestRecordInteractionDefaultsTypeToCall(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now, nil)
	lead := seedLead(t, store, "Default Type", "UTC", 3, now)
	before := testutil.ToFloat64(interactionsRecorded.WithLabelValues("Call"))

	if _, err := svc.RecordInteraction(context.Background(), RecordInteractionInput{LeadID: lead.ID}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	interactions := store.Leads().Interactions()
	if len(interactions) != 1 {
		t.Fatalf("expected 1 interaction, got %d", len(interactions))
	}
	if interactions[0].Type != string(domain.InteractionCall) {
		t.Fatalf("expected type Call, got %s", interactions[0].Type)
	}
	if !interactions[0].CreatedAt.Equal(now) {
		t.Fatalf("expected createdAt %s, got %s", now, interactions[0].CreatedAt)
	}
	if after := testutil.ToFloat64(interactionsRecorded.WithLabelValues("Call")); after != before+1 {
		t.Fatalf("expected Call counter to grow by 1, got %v -> %v", before, after)
	}
}

func TestRecordInteractionAcceptsExplicitDate(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now, nil)
	lead := seedLead(t, store, "Explicit", "America/New_York", 30, now)

	res, err := svc.RecordInteraction(context.Background(), RecordInteractionInput{
		LeadID:       lead.ID,
		NextCallDate: strPtr("2024-03-20"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := time.Date(2024, time.March, 20, 4, 0, 0, 0, time.UTC) // midnight EDT
	if !res.NextCallDate.Equal(want) {
		t.Fatalf("expected %s, got %s", want, res.NextCallDate.UTC())
	}
}

func TestRecordInteractionAcceptsExplicitDateForToday(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now, nil)
	lead := seedLead(t, store, "Today", "UTC", 30, now)

	res, err := svc.RecordInteraction(context.Background(), RecordInteractionInput{
		LeadID:       lead.ID,
		NextCallDate: strPtr("2024-03-05"),
	})
	if err != nil {
		t.Fatalf("expected today's date to be accepted, got %v", err)
	}
	if !res.NextCallDate.Equal(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected next call %s", res.NextCallDate)
	}
}

func TestRecordInteractionRejectsPastOrMalformedExplicitDate(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now, nil)
	lead := seedLead(t, store, "Past", "UTC", 30, now)

	for _, raw := range []string{"2024-03-04", "2024-03-04T23:59:59Z", "next tuesday"} {
		_, err := svc.RecordInteraction(context.Background(), RecordInteractionInput{
			LeadID:       lead.ID,
			NextCallDate: strPtr(raw),
		})
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error for %q, got %v", raw, err)
		}
	}
	if n := len(store.Leads().Interactions()); n != 0 {
		t.Fatalf("expected no interactions after rejected input, got %d", n)
	}
}

func TestRecordInteractionValidatesInput(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now, nil)
	lead := seedLead(t, store, "Validation", "UTC", 7, now)

	cases := []RecordInteractionInput{
		{},
		{LeadID: lead.ID, Type: "Visit"},
		{LeadID: lead.ID, Duration: intPtr(-1)},
	}
	for _, in := range cases {
		if _, err := svc.RecordInteraction(context.Background(), in); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("expected validation error for %+v, got %v", in, err)
		}
	}
}

func TestRecordInteractionUnknownLeadCreatesNothing(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now, nil)

	_, err := svc.RecordInteraction(context.Background(), RecordInteractionInput{LeadID: uuid.New()})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if n := len(store.Leads().Interactions()); n != 0 {
		t.Fatalf("expected no interaction for unknown lead, got %d", n)
	}
}

func TestRecordInteractionRollsBackWhenScheduleUpdateFails(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now, nil)
	lead := seedLead(t, store, "Rollback", "UTC", 7, now.Add(-time.Hour))
	store.FailOn(memstore.OpUpdateCallSchedule, errors.New("connection reset"))

	_, err := svc.RecordInteraction(context.Background(), RecordInteractionInput{LeadID: lead.ID})
	if !apperr.Is(err, apperr.KindPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if n := len(store.Leads().Interactions()); n != 0 {
		t.Fatalf("expected interaction to be rolled back, got %d", n)
	}

	stored, _ := store.Leads().GetByID(context.Background(), lead.ID)
	if !stored.NextCallDate.Equal(lead.NextCallDate) {
		t.Fatalf("expected schedule unchanged, got %s", stored.NextCallDate)
	}
}

func TestRecordInteractionPropagatesReadFailure(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now, nil)
	lead := seedLead(t, store, "Read Failure", "UTC", 7, now)
	store.FailOn(memstore.OpGetLead, errors.New("timeout"))

	_, err := svc.RecordInteraction(context.Background(), RecordInteractionInput{LeadID: lead.ID})
	if !apperr.Is(err, apperr.KindPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestRecordInteractionReportsConflictWhenLeadIsLocked(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now, busyLocker{})
	lead := seedLead(t, store, "Locked", "UTC", 7, now)

	_, err := svc.RecordInteraction(context.Background(), RecordInteractionInput{LeadID: lead.ID})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if n := len(store.Leads().Interactions()); n != 0 {
		t.Fatalf("expected no interaction while locked, got %d", n)
	}
}

func TestGetLeadsDueTodayUsesInclusiveMidnightCutoff(t *testing.T) {
	now := time.Date(2024, time.March, 5, 15, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now, nil)
	midnight := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	atMidnight := seedLead(t, store, "At Midnight", "UTC", 7, midnight)
	overdue := seedLead(t, store, "Overdue", "UTC", 7, midnight.Add(-48*time.Hour))
	seedLead(t, store, "Later Today", "UTC", 7, midnight.Add(time.Second))
	seedLead(t, store, "Next Week", "UTC", 7, midnight.AddDate(0, 0, 7))

	due, err := svc.GetLeadsDueToday(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due leads, got %d", len(due))
	}
	if due[0].ID != overdue.ID || due[1].ID != atMidnight.ID {
		t.Fatalf("expected overdue then midnight lead, got %s then %s", due[0].Name, due[1].Name)
	}
}

func TestGetLeadsDueTodayResolvesContacts(t *testing.T) {
	now := time.Date(2024, time.March, 5, 15, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now, nil)
	lead := seedLead(t, store, "With Contact", "UTC", 7, now.AddDate(0, 0, -1))

	if _, err := store.Leads().CreateContact(context.Background(), repository.CreateContactParams{
		LeadID:      lead.ID,
		Name:        "Asha",
		Role:        string(domain.ContactRoleOwner),
		PhoneNumber: "+919876543210",
		Email:       "asha@example.com",
	}); err != nil {
		t.Fatalf("seed contact: %v", err)
	}

	due, err := svc.GetLeadsDueToday(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(due) != 1 || len(due[0].PointsOfContact) != 1 {
		t.Fatalf("expected one due lead with one contact, got %+v", due)
	}
	if due[0].PointsOfContact[0].Name != "Asha" {
		t.Fatalf("expected contact Asha, got %s", due[0].PointsOfContact[0].Name)
	}
}

func TestGetLeadsDueTodayPropagatesFailure(t *testing.T) {
	now := time.Date(2024, time.March, 5, 15, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now, nil)
	store.FailOn(memstore.OpListDueBy, errors.New("timeout"))

	if _, err := svc.GetLeadsDueToday(context.Background()); !apperr.Is(err, apperr.KindPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
}

func TestRecordedLeadLeavesTodaysCallList(t *testing.T) {
	now := time.Date(2024, time.March, 5, 15, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now, nil)
	lead := seedLead(t, store, "Called", "UTC", 7, now.AddDate(0, 0, -2))

	if _, err := svc.RecordInteraction(context.Background(), RecordInteractionInput{LeadID: lead.ID}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	due, err := svc.GetLeadsDueToday(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected lead to leave the call list, got %d due", len(due))
	}
}

func TestListInteractionsNewestFirst(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, now, nil)
	lead := seedLead(t, store, "History", "UTC", 7, now)

	first, err := svc.RecordInteraction(context.Background(), RecordInteractionInput{LeadID: lead.ID, Type: domain.InteractionEmail})
	if err != nil {
		t.Fatalf("record first: %v", err)
	}
	svc.SetClock(func() time.Time { return now.Add(time.Hour) })
	second, err := svc.RecordInteraction(context.Background(), RecordInteractionInput{LeadID: lead.ID})
	if err != nil {
		t.Fatalf("record second: %v", err)
	}

	items, err := svc.ListInteractions(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 2 || items[0].ID != second.InteractionID || items[1].ID != first.InteractionID {
		t.Fatalf("expected newest interaction first, got %+v", items)
	}

	if _, err := svc.ListInteractions(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for unknown lead, got %v", err)
	}
}

func TestRecordInteractionStoresMicrosecondPrecision(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 123456789, time.UTC)
	want := time.Date(2024, time.March, 5, 12, 0, 0, 123456000, time.UTC)
	svc, store := newTestService(t, now, nil)
	lead := seedLead(t, store, "Precise", "UTC", 2, now.Truncate(time.Second))

	resp, err := svc.RecordInteraction(context.Background(), RecordInteractionInput{LeadID: lead.ID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if wantNext := want.AddDate(0, 0, 2); !resp.NextCallDate.Equal(wantNext) {
		t.Fatalf("expected nextCallDate %s, got %s", wantNext, resp.NextCallDate)
	}

	stored, err := store.Leads().GetByID(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("get lead: %v", err)
	}
	if !stored.NextCallDate.Equal(resp.NextCallDate) || !stored.LastInteractionDate.Equal(want) {
		t.Fatalf("expected stored schedule to match response, got last=%s next=%s", stored.LastInteractionDate, stored.NextCallDate)
	}
	if got := store.Leads().Interactions()[0].CreatedAt; !got.Equal(want) {
		t.Fatalf("expected interaction createdAt %s, got %s", want, got)
	}
}

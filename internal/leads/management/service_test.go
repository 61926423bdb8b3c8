package management

import (
	"context"
	"testing"
	"time"

	"kam_backend/internal/events"
	"kam_backend/internal/leads/domain"
	"kam_backend/internal/leads/repository"
	"kam_backend/internal/leads/transport"
	"kam_backend/internal/store/memstore"
	"kam_backend/platform/apperr"

	"github.com/google/uuid"
)

type recordingBus struct {
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func newTestService(now time.Time) (*Service, *memstore.Store, *recordingBus) {
	store := memstore.New()
	store.SetClock(func() time.Time { return now })
	bus := &recordingBus{}
	svc := New(store.Leads(), bus)
	svc.SetClock(func() time.Time { return now })
	return svc, store, bus
}

func validCreate() transport.CreateLeadRequest {
	return transport.CreateLeadRequest{
		Name:              "Spice Route",
		Address:           "12 MG Road",
		Type:              domain.CategoryRestaurant,
		CallFrequency:     7,
		PreferredTimezone: "America/New_York",
	}
}

func TestCreateSchedulesFirstCallInLeadZone(t *testing.T) {
	now := time.Date(2024, time.March, 5, 15, 0, 0, 0, time.UTC)
	svc, _, bus := newTestService(now)

	lead, err := svc.Create(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := domain.NextCallDate(now, 7, mustZone(t, "America/New_York"))
	if !lead.NextCallDate.Equal(want) {
		t.Fatalf("expected next call %s, got %s", want, lead.NextCallDate)
	}
	if !lead.LastInteractionDate.Equal(now) {
		t.Fatalf("expected lastInteractionDate %s, got %s", now, lead.LastInteractionDate)
	}
	if lead.Status != domain.StatusNew {
		t.Fatalf("expected default status New, got %s", lead.Status)
	}
	if len(bus.events) != 1 || bus.events[0].EventName() != (events.LeadCreated{}).EventName() {
		t.Fatalf("expected one LeadCreated event, got %+v", bus.events)
	}
}

func TestCreateDefaultsTimezoneToUTC(t *testing.T) {
	now := time.Date(2024, time.March, 5, 15, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(now)

	req := validCreate()
	req.PreferredTimezone = ""
	lead, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if lead.PreferredTimezone != domain.DefaultTimezone {
		t.Fatalf("expected %s, got %s", domain.DefaultTimezone, lead.PreferredTimezone)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestService(time.Now())

	mutations := []func(*transport.CreateLeadRequest){
		func(r *transport.CreateLeadRequest) { r.Name = "  " },
		func(r *transport.CreateLeadRequest) { r.Type = "Cafe" },
		func(r *transport.CreateLeadRequest) { r.Status = "Lost" },
		func(r *transport.CreateLeadRequest) { r.CallFrequency = 0 },
		func(r *transport.CreateLeadRequest) { r.PreferredTimezone = "Mars/Olympus" },
	}
	for i, mutate := range mutations {
		req := validCreate()
		mutate(&req)
		if _, err := svc.Create(context.Background(), req); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestUpdateFrequencyReschedulesFromLastInteraction(t *testing.T) {
	created := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	svc, _, bus := newTestService(created)
	lead, err := svc.Create(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	svc.SetClock(func() time.Time { return created.AddDate(0, 0, 2) })
	frequency := 3
	updated, err := svc.Update(context.Background(), lead.ID, transport.UpdateLeadRequest{CallFrequency: &frequency})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := domain.NextCallDate(created, 3, mustZone(t, "America/New_York"))
	if !updated.NextCallDate.Equal(want) {
		t.Fatalf("expected %s, got %s", want, updated.NextCallDate)
	}
	if last := bus.events[len(bus.events)-1]; last.EventName() != (events.LeadScheduleChanged{}).EventName() {
		t.Fatalf("expected LeadScheduleChanged, got %s", last.EventName())
	}
}

func TestUpdateClampsPastScheduleToNow(t *testing.T) {
	created := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(created)
	lead, err := svc.Create(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	later := created.AddDate(0, 0, 5)
	svc.SetClock(func() time.Time { return later })
	frequency := 1
	updated, err := svc.Update(context.Background(), lead.ID, transport.UpdateLeadRequest{CallFrequency: &frequency})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !updated.NextCallDate.Equal(later) {
		t.Fatalf("expected schedule clamped to %s, got %s", later, updated.NextCallDate)
	}
}

func TestUpdateWithoutScheduleFieldsKeepsNextCall(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	svc, _, bus := newTestService(now)
	lead, err := svc.Create(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	status := domain.StatusQualified
	updated, err := svc.Update(context.Background(), lead.ID, transport.UpdateLeadRequest{Status: &status})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Status != domain.StatusQualified || !updated.NextCallDate.Equal(lead.NextCallDate) {
		t.Fatalf("expected status change only, got %+v", updated)
	}
	if len(bus.events) != 1 {
		t.Fatalf("expected no schedule event, got %d events", len(bus.events))
	}
}

func TestGetUpdateDeleteUnknownLead(t *testing.T) {
	svc, _, _ := newTestService(time.Now())
	id := uuid.New()

	if _, err := svc.GetByID(context.Background(), id); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on get, got %v", err)
	}
	if _, err := svc.Update(context.Background(), id, transport.UpdateLeadRequest{}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
	if err := svc.Delete(context.Background(), id); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}

func TestDeleteLeavesContactsBehind(t *testing.T) {
	svc, store, _ := newTestService(time.Now())
	lead, err := svc.Create(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Leads().CreateContact(context.Background(), repository.CreateContactParams{
		LeadID: lead.ID, Name: "Asha", Role: "Owner", PhoneNumber: "+919876543210", Email: "asha@example.com",
	}); err != nil {
		t.Fatalf("create contact: %v", err)
	}

	if err := svc.Delete(context.Background(), lead.ID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	exists, err := svc.Exists(context.Background(), lead.ID)
	if err != nil || exists {
		t.Fatalf("expected lead to be gone, got exists=%v err=%v", exists, err)
	}

	contacts, err := store.Leads().ListContactsByLead(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("list contacts: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("expected contact to remain after lead delete, got %d", len(contacts))
	}
}

func TestListResolvesContacts(t *testing.T) {
	svc, store, _ := newTestService(time.Now())
	first, _ := svc.Create(context.Background(), validCreate())
	second := validCreate()
	second.Name = "Highway Dhaba"
	second.Type = domain.CategoryDhaba
	if _, err := svc.Create(context.Background(), second); err != nil {
		t.Fatalf("create second: %v", err)
	}
	if _, err := store.Leads().CreateContact(context.Background(), repository.CreateContactParams{
		LeadID: first.ID, Name: "Asha", Role: "Owner", PhoneNumber: "+919876543210", Email: "asha@example.com",
	}); err != nil {
		t.Fatalf("create contact: %v", err)
	}

	leads, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(leads))
	}
	for _, lead := range leads {
		want := 0
		if lead.ID == first.ID {
			want = 1
		}
		if len(lead.PointsOfContact) != want {
			t.Fatalf("expected %d contacts for %s, got %d", want, lead.Name, len(lead.PointsOfContact))
		}
	}
}

func mustZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := domain.LoadZone(name)
	if err != nil {
		t.Fatalf("load zone %s: %v", name, err)
	}
	return loc
}

func TestCreateTruncatesScheduleToMicroseconds(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 987654321, time.UTC)
	svc, _, _ := newTestService(now)

	lead, err := svc.Create(context.Background(), validCreate())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if lead.LastInteractionDate.Nanosecond()%1000 != 0 || lead.NextCallDate.Nanosecond()%1000 != 0 {
		t.Fatalf("expected microsecond precision, got last=%s next=%s", lead.LastInteractionDate, lead.NextCallDate)
	}
	if want := now.Truncate(time.Microsecond); !lead.LastInteractionDate.Equal(want) {
		t.Fatalf("expected lastInteractionDate %s, got %s", want, lead.LastInteractionDate)
	}
}

package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kam_backend/internal/events"
	"kam_backend/internal/leads/contacts"
	"kam_backend/internal/leads/management"
	"kam_backend/internal/leads/scheduling"
	"kam_backend/internal/leads/transport"
	"kam_backend/internal/store/memstore"
	"kam_backend/platform/httpkit"
	"kam_backend/platform/logger"
	"kam_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	bus := events.NewInMemoryBus(logger.Nop())
	h := New(
		management.New(store.Leads(), bus),
		scheduling.New(store.Leads(), bus, nil, nil, logger.Nop()),
		contacts.New(store.Leads(), "IN"),
		validator.New(),
	)

	r := gin.New()
	v1 := r.Group("/api/v1", httpkit.ActorFromHeader())
	h.RegisterRoutes(v1.Group("/leads"))
	h.RegisterContactRoutes(v1.Group("/contacts"))
	h.RegisterInteractionRoutes(v1.Group("/interactions"))
	return r, store
}

func doJSON(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func createLead(t *testing.T, r http.Handler) transport.LeadResponse {
	t.Helper()
	rec := doJSON(r, http.MethodPost, "/api/v1/leads", map[string]any{
		"name":              "Spice Route",
		"address":           "12 MG Road",
		"type":              "Restaurant",
		"callFrequency":     7,
		"preferredTimezone": "Asia/Kolkata",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var lead transport.LeadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lead))
	return lead
}

func TestCreateLeadAndFetchIt(t *testing.T) {
	r, _ := newTestRouter(t)
	lead := createLead(t, r)

	assert.Equal(t, "New", string(lead.Status))
	assert.True(t, lead.NextCallDate.After(lead.LastInteractionDate))

	rec := doJSON(r, http.MethodGet, "/api/v1/leads/"+lead.ID.String(), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(r, http.MethodGet, "/api/v1/leads", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []transport.LeadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 1)
}

func TestCreateLeadRejectsBadInput(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(r, http.MethodPost, "/api/v1/leads", map[string]any{
		"name": "No Type", "address": "1 Road", "type": "Cafe", "callFrequency": 7,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body httpkit.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, msgValidationFailed, body.Error)
}

func TestLeadRoutesReportBadAndUnknownIDs(t *testing.T) {
	r, _ := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/api/v1/leads/nope", nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/api/v1/leads/"+uuid.NewString(), nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodDelete, "/api/v1/leads/"+uuid.NewString(), nil, nil).Code)
}

func TestRecordInteractionEndpoint(t *testing.T) {
	r, store := newTestRouter(t)
	lead := createLead(t, r)
	actor := uuid.New()

	rec := doJSON(r, http.MethodPost, "/api/v1/interactions", map[string]any{
		"leadId":   lead.ID,
		"notes":    "Called about the festival menu.",
		"duration": 8,
	}, map[string]string{httpkit.HeaderUserID: actor.String()})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res transport.RecordInteractionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Interaction added successfully", res.Message)

	interactions := store.Leads().Interactions()
	require.Len(t, interactions, 1)
	require.NotNil(t, interactions[0].UserID)
	assert.Equal(t, actor, *interactions[0].UserID)
	assert.Equal(t, "Call", interactions[0].Type)

	rec = doJSON(r, http.MethodGet, "/api/v1/interactions/"+lead.ID.String(), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []transport.InteractionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history, 1)
}

func TestRecordInteractionStatusCodes(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/api/v1/interactions", map[string]any{"notes": "no lead"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body httpkit.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "leadId is required", body.Error)

	rec = doJSON(r, http.MethodPost, "/api/v1/interactions", map[string]any{"leadId": uuid.New()}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCallPlanningTodayExcludesFreshLead(t *testing.T) {
	r, _ := newTestRouter(t)
	createLead(t, r)

	rec := doJSON(r, http.MethodGet, "/api/v1/leads/call-planning/today", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var due []transport.LeadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &due))
	assert.Empty(t, due)
}

func TestContactEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	lead := createLead(t, r)

	rec := doJSON(r, http.MethodGet, "/api/v1/contacts/"+lead.ID.String(), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(r, http.MethodPost, "/api/v1/contacts", map[string]any{
		"leadId":      lead.ID,
		"name":        "Asha",
		"role":        "Owner",
		"phoneNumber": "098765 43210",
		"email":       "asha@example.com",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(r, http.MethodGet, "/api/v1/contacts/"+lead.ID.String(), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []transport.ContactResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "+919876543210", items[0].PhoneNumber)
}

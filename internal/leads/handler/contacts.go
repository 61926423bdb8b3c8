package handler

import (
	"kam_backend/internal/leads/transport"
	"kam_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// RegisterContactRoutes mounts contact routes.
func (h *Handler) RegisterContactRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.AddContact)
	rg.GET("/:leadId", h.ListContacts)
}

// AddContact attaches a point of contact to a lead.
// POST /api/v1/contacts
func (h *Handler) AddContact(c *gin.Context) {
	var req transport.CreateContactRequest
	if !httpkit.BindJSON(c, h.val, &req) {
		return
	}

	result, err := h.contacts.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// ListContacts returns a lead's contacts.
// GET /api/v1/contacts/:leadId
func (h *Handler) ListContacts(c *gin.Context) {
	leadID, ok := parseLeadID(c, "leadId")
	if !ok {
		return
	}

	result, err := h.contacts.ListByLead(c.Request.Context(), leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

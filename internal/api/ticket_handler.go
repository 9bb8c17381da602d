package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/travelagency/booking-server/internal/models"
)

// ListTickets handles GET /api/ticket
func (h *Handler) ListTickets(c *gin.Context) {
	tickets, err := h.tickets.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// GetTicket handles GET /api/ticket/:id. A 24-char object id looks up
// one ticket; any other segment is treated as a traveler NIC and
// returns that traveler's tickets.
func (h *Handler) GetTicket(c *gin.Context) {
	param := c.Param("id")
	if id, err := primitive.ObjectIDFromHex(param); err == nil {
		ticket, err := h.tickets.GetByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ticket)
		return
	}

	tickets, err := h.tickets.GetByNIC(c.Request.Context(), param)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// CreateTicket handles POST /api/ticket
func (h *Handler) CreateTicket(c *gin.Context) {
	var req models.TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ticket, err := h.tickets.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/ticket/%s", ticket.ID.Hex()))
	c.JSON(http.StatusCreated, ticket)
}

// UpdateTicket handles PUT /api/ticket/:id
func (h *Handler) UpdateTicket(c *gin.Context) {
	id, ok := pathID(c, "id", "Ticket not found.")
	if !ok {
		return
	}
	var req models.TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.tickets.Update(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CancelTicket handles DELETE /api/ticket/:id. Deletion through the
// API is a cancellation and runs the five-day rule.
func (h *Handler) CancelTicket(c *gin.Context) {
	id, ok := pathID(c, "id", "Ticket not found.")
	if !ok {
		return
	}
	if err := h.tickets.Cancel(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

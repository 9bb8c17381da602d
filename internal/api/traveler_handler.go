package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/travelagency/booking-server/internal/models"
)

// ListTravelers handles GET /api/traveler
func (h *Handler) ListTravelers(c *gin.Context) {
	travelers, err := h.travelers.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, travelers)
}

// GetTraveler handles GET /api/traveler/:nic
func (h *Handler) GetTraveler(c *gin.Context) {
	traveler, err := h.travelers.GetByNIC(c.Request.Context(), c.Param("nic"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, traveler)
}

// CreateTraveler handles POST /api/traveler
func (h *Handler) CreateTraveler(c *gin.Context) {
	var req models.RegisterTravelerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	traveler, err := h.travelers.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/traveler/%s", traveler.NIC))
	c.JSON(http.StatusCreated, traveler)
}

// UpdateTraveler handles PUT /api/traveler/:nic
func (h *Handler) UpdateTraveler(c *gin.Context) {
	var patch models.TravelerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.travelers.Update(c.Request.Context(), c.Param("nic"), patch); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteTraveler handles DELETE /api/traveler/:nic
func (h *Handler) DeleteTraveler(c *gin.Context) {
	if err := h.travelers.Delete(c.Request.Context(), c.Param("nic")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetTravelerStatus handles PUT /api/traveler/status/:nic. The target
// state comes from the "status" query parameter.
func (h *Handler) SetTravelerStatus(c *gin.Context) {
	active, err := strconv.ParseBool(c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "BAD_REQUEST",
			Message: "status must be a boolean",
		})
		return
	}

	if err := h.travelers.SetActive(c.Request.Context(), c.Param("nic"), active); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterTraveler handles POST /api/traveler/register
func (h *Handler) RegisterTraveler(c *gin.Context) {
	var req models.RegisterTravelerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	traveler, err := h.travelers.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/traveler/%s", traveler.NIC))
	c.JSON(http.StatusCreated, traveler)
}

// LoginTraveler handles POST /api/traveler/login
func (h *Handler) LoginTraveler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	traveler, err := h.travelers.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if traveler == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    "AUTH_FAILED",
			Message: "Email or password is incorrect",
		})
		return
	}

	token, err := h.issueToken(jwt.MapClaims{
		"sub":   traveler.ID.Hex(),
		"email": traveler.Email,
		"name":  traveler.FirstName,
		"nic":   traveler.NIC,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.TravelerLoginResponse{
		ID:       traveler.ID.Hex(),
		Email:    traveler.Email,
		IsActive: traveler.IsActive,
		Token:    token,
	})
}

package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/travelagency/booking-server/internal/models"
)

func pathID(c *gin.Context, param, message string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:  "error",
			Code:    "NOT_FOUND",
			Message: message,
		})
		return primitive.NilObjectID, false
	}
	return id, true
}

func trainID(c *gin.Context) (primitive.ObjectID, bool) {
	return pathID(c, "id", "Train not found.")
}

func scheduleID(c *gin.Context) (primitive.ObjectID, bool) {
	return pathID(c, "scheduleId", "Schedule not found within the specified train.")
}

// ListTrains handles GET /api/train
func (h *Handler) ListTrains(c *gin.Context) {
	trains, err := h.trains.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trains)
}

// GetTrain handles GET /api/train/:id
func (h *Handler) GetTrain(c *gin.Context) {
	id, ok := trainID(c)
	if !ok {
		return
	}
	train, err := h.trains.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, train)
}

// CreateTrain handles POST /api/train
func (h *Handler) CreateTrain(c *gin.Context) {
	var req models.TrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	train, err := h.trains.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/train/%s", train.ID.Hex()))
	c.JSON(http.StatusCreated, train)
}

// UpdateTrain handles PUT /api/train/:id (full replace)
func (h *Handler) UpdateTrain(c *gin.Context) {
	id, ok := trainID(c)
	if !ok {
		return
	}
	var req models.TrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.trains.Update(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteTrain handles DELETE /api/train/:id
func (h *Handler) DeleteTrain(c *gin.Context) {
	id, ok := trainID(c)
	if !ok {
		return
	}
	if err := h.trains.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AppendSchedule handles POST /api/train/:id/append-schedule
func (h *Handler) AppendSchedule(c *gin.Context) {
	id, ok := trainID(c)
	if !ok {
		return
	}
	var req models.ScheduleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	train, err := h.trains.AppendScheduleItem(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, train)
}

// DeleteSchedule handles DELETE /api/train/:id/delete-schedule/:scheduleId
func (h *Handler) DeleteSchedule(c *gin.Context) {
	id, ok := trainID(c)
	if !ok {
		return
	}
	sID, ok := scheduleID(c)
	if !ok {
		return
	}

	train, err := h.trains.DeleteScheduleItem(c.Request.Context(), id, sID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, train)
}

// EditTrain handles PUT /api/train/:id/edit-train
func (h *Handler) EditTrain(c *gin.Context) {
	id, ok := trainID(c)
	if !ok {
		return
	}
	var req models.TrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.trains.EditDetails(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EditSchedule handles PUT /api/train/:id/edit-schedule/:scheduleId
func (h *Handler) EditSchedule(c *gin.Context) {
	id, ok := trainID(c)
	if !ok {
		return
	}
	sID, ok := scheduleID(c)
	if !ok {
		return
	}
	var req models.ScheduleItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	train, err := h.trains.EditScheduleItem(c.Request.Context(), id, sID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, train)
}

// GetSchedule handles GET /api/train/:id/schedule/:scheduleId
func (h *Handler) GetSchedule(c *gin.Context) {
	id, ok := trainID(c)
	if !ok {
		return
	}
	sID, ok := scheduleID(c)
	if !ok {
		return
	}

	item, err := h.trains.GetScheduleItem(c.Request.Context(), id, sID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/travelagency/booking-server/internal/config"
	"github.com/travelagency/booking-server/internal/models"
	"github.com/travelagency/booking-server/internal/service"
)

// tokenDuration is the login token lifetime
const tokenDuration = 3 * time.Hour

// Handler holds the services behind the HTTP surface
type Handler struct {
	travelers *service.TravelerService
	users     *service.UserService
	trains    *service.TrainService
	tickets   *service.TicketService
	auth      config.AuthConfig
}

// NewHandler creates a new API handler
func NewHandler(
	travelers *service.TravelerService,
	users *service.UserService,
	trains *service.TrainService,
	tickets *service.TicketService,
	auth config.AuthConfig,
) *Handler {
	return &Handler{
		travelers: travelers,
		users:     users,
		trains:    trains,
		tickets:   tickets,
		auth:      auth,
	}
}

// SetupRoutes registers all API routes. Register and login are
// public; everything else requires a bearer token.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.POST("/traveler/register", h.RegisterTraveler)
	api.POST("/traveler/login", h.LoginTraveler)
	api.POST("/user/register", h.RegisterUser)
	api.POST("/user/login", h.LoginUser)

	protected := api.Group("")
	protected.Use(AuthMiddleware())

	protected.GET("/traveler", h.ListTravelers)
	protected.POST("/traveler", h.CreateTraveler)
	protected.GET("/traveler/:nic", h.GetTraveler)
	protected.PUT("/traveler/:nic", h.UpdateTraveler)
	protected.DELETE("/traveler/:nic", h.DeleteTraveler)
	protected.PUT("/traveler/status/:nic", h.SetTravelerStatus)

	protected.GET("/user", h.ListUsers)
	protected.POST("/user", h.CreateUser)
	protected.GET("/user/:id", h.GetUser)
	protected.PUT("/user/:id", h.UpdateUser)
	protected.DELETE("/user/:id", h.DeleteUser)

	protected.GET("/train", h.ListTrains)
	protected.POST("/train", h.CreateTrain)
	protected.GET("/train/:id", h.GetTrain)
	protected.PUT("/train/:id", h.UpdateTrain)
	protected.DELETE("/train/:id", h.DeleteTrain)
	protected.POST("/train/:id/append-schedule", h.AppendSchedule)
	protected.DELETE("/train/:id/delete-schedule/:scheduleId", h.DeleteSchedule)
	protected.PUT("/train/:id/edit-train", h.EditTrain)
	protected.PUT("/train/:id/edit-schedule/:scheduleId", h.EditSchedule)
	protected.GET("/train/:id/schedule/:scheduleId", h.GetSchedule)

	protected.GET("/ticket", h.ListTickets)
	protected.POST("/ticket", h.CreateTicket)
	protected.GET("/ticket/:id", h.GetTicket)
	protected.PUT("/ticket/:id", h.UpdateTicket)
	protected.DELETE("/ticket/:id", h.CancelTicket)
}

// respondError maps service error kinds to status codes. Business
// failures carry their message through verbatim; unexpected errors
// are hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	switch kind {
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Status:  "error",
			Code:    "NOT_FOUND",
			Message: err.Error(),
		})
	case service.KindValidation, service.KindDuplicate, service.KindConflict, service.KindQuota:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Status:  "error",
			Code:    errorCode(kind),
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Status:  "error",
			Code:    "INTERNAL",
			Message: "Internal server error",
		})
	}
}

func errorCode(kind service.Kind) string {
	switch kind {
	case service.KindValidation:
		return "VALIDATION_ERROR"
	case service.KindDuplicate:
		return "DUPLICATE"
	case service.KindConflict:
		return "CONFLICT"
	case service.KindQuota:
		return "QUOTA_EXCEEDED"
	default:
		return "BAD_REQUEST"
	}
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "BAD_REQUEST",
		Message: err.Error(),
	})
}

// issueToken signs an HS256 login token with the shared claims plus
// whatever account-specific claims the caller adds.
func (h *Handler) issueToken(claims jwt.MapClaims) (string, error) {
	now := time.Now()
	claims["iss"] = h.auth.Issuer
	claims["aud"] = h.auth.Audience
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(tokenDuration).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.auth.JWTSecret))
}

package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/travelagency/booking-server/internal/api"
	"github.com/travelagency/booking-server/internal/config"
	"github.com/travelagency/booking-server/internal/models"
	"github.com/travelagency/booking-server/internal/repository"
	"github.com/travelagency/booking-server/internal/service"
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router    *gin.Engine
	Repo      *repository.MemoryRepository
	Travelers *service.TravelerService
	Users     *service.UserService
	Trains    *service.TrainService
	Tickets   *service.TicketService
	JWTSecret []byte
	Token     string
}

// SetupTestContext wires a router over an in-memory repository and
// issues a token for a pre-created backoffice user. An optional clock
// pins time for the ticket rules.
func SetupTestContext(t *testing.T, clock service.Clock) *TestContext {
	t.Helper()

	authCfg := config.AuthConfig{
		JWTSecret: "test-secret-key",
		Issuer:    "booking-server",
		Audience:  "booking-clients",
	}

	repo := repository.NewMemoryRepository()
	travelers := service.NewTravelerService(repo)
	users := service.NewUserService(repo)
	trains := service.NewTrainService(repo)
	tickets := service.NewTicketService(repo, clock)

	handler := api.NewHandler(travelers, users, trains, tickets, authCfg)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(authCfg.JWTSecret))
		c.Next()
	})
	handler.SetupRoutes(router)

	token := createTestUser(t, repo, authCfg.JWTSecret)

	return &TestContext{
		Router:    router,
		Repo:      repo,
		Travelers: travelers,
		Users:     users,
		Trains:    trains,
		Tickets:   tickets,
		JWTSecret: []byte(authCfg.JWTSecret),
		Token:     token,
	}
}

// createTestUser seeds a backoffice account and signs a token for it
func createTestUser(t *testing.T, repo repository.Repository, secret string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("testpassword"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{
		Name:     "Test User",
		Email:    "testuser@example.com",
		Password: string(hash),
		Role:     service.RoleBackoffice,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))

	claims := jwt.MapClaims{
		"sub":  user.ID.Hex(),
		"role": user.Role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// PerformRequest executes a request against the router and returns
// the recorder. A non-nil body is sent as JSON.
func PerformRequest(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns the bearer header for the context's test user
func (tc *TestContext) AuthHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + tc.Token}
}

// DecodeJSON unmarshals a recorded response body
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

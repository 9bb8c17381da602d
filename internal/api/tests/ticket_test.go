package api_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelagency/booking-server/internal/api/testutils"
	"github.com/travelagency/booking-server/internal/models"
)

// bookingNow pins the clock for the reservation-window rules
var bookingNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return bookingNow }

func setupTicketContext(t *testing.T) (*testutils.TestContext, models.Train) {
	t.Helper()
	testCtx := testutils.SetupTestContext(t, fixedClock)
	train := createTrain(t, testCtx, trainRequest("Night Mail", models.TrainActive))
	return testCtx, train
}

func ticketRequest(train models.Train, reservation time.Time, reference string) models.TicketRequest {
	return models.TicketRequest{
		TravelerNIC:     "199012345678",
		TrainID:         train.ID.Hex(),
		ScheduleID:      train.Schedule[0].ID.Hex(),
		ReservationDate: reservation,
		ReferenceID:     reference,
	}
}

func TestCreateTicket(t *testing.T) {
	testCtx, train := setupTicketContext(t)

	// Test case 1: Reservation within the window
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket",
		ticketRequest(train, bookingNow.Add(10*24*time.Hour), "GRP-1"), testCtx.AuthHeaders())
	assert.Equal(t, http.StatusCreated, w.Code)

	var ticket models.Ticket
	testutils.DecodeJSON(t, w, &ticket)
	assert.Equal(t, "GRP-1", ticket.ReferenceID)
	assert.False(t, ticket.ID.IsZero())
	assert.Equal(t, fmt.Sprintf("/api/ticket/%s", ticket.ID.Hex()), w.Header().Get("Location"))

	// Test case 2: Exactly 30 days out is still allowed
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket",
		ticketRequest(train, bookingNow.Add(30*24*time.Hour), "GRP-1"), testCtx.AuthHeaders())
	assert.Equal(t, http.StatusCreated, w.Code)

	// Test case 3: Past the window
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket",
		ticketRequest(train, bookingNow.Add(30*24*time.Hour+time.Second), "GRP-1"), testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Reservation date must be within 30 days from the booking date.", errResp.Message)

	// Test case 4: Reservation in the past
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket",
		ticketRequest(train, bookingNow.Add(-time.Hour), "GRP-1"), testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Test case 5: Missing reference id gets a generated one
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket",
		ticketRequest(train, bookingNow.Add(24*time.Hour), ""), testCtx.AuthHeaders())
	assert.Equal(t, http.StatusCreated, w.Code)
	testutils.DecodeJSON(t, w, &ticket)
	assert.NotEmpty(t, ticket.ReferenceID)

	// Test case 6: Malformed train id
	req := ticketRequest(train, bookingNow.Add(24*time.Hour), "")
	req.TrainID = "nope"
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket", req, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Invalid train id.", errResp.Message)
}

func TestTicketReferenceQuota(t *testing.T) {
	testCtx, train := setupTicketContext(t)

	// Test case 1: Four tickets on one reference id
	for i := 0; i < 4; i++ {
		w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket",
			ticketRequest(train, bookingNow.Add(10*24*time.Hour), "FAMILY"), testCtx.AuthHeaders())
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// Test case 2: The fifth is rejected
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket",
		ticketRequest(train, bookingNow.Add(10*24*time.Hour), "FAMILY"), testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Maximum 4 reservations per reference ID allowed.", errResp.Message)

	// Test case 3: A different reference id is unaffected
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket",
		ticketRequest(train, bookingNow.Add(10*24*time.Hour), "SOLO"), testCtx.AuthHeaders())
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUpdateTicket(t *testing.T) {
	testCtx, train := setupTicketContext(t)

	// Ticket exactly five days out: update is still allowed
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket",
		ticketRequest(train, bookingNow.Add(5*24*time.Hour), "GRP-A"), testCtx.AuthHeaders())
	require.Equal(t, http.StatusCreated, w.Code)
	var onBoundary models.Ticket
	testutils.DecodeJSON(t, w, &onBoundary)

	// Ticket inside the five-day lead: changes are locked
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket",
		ticketRequest(train, bookingNow.Add(5*24*time.Hour-time.Second), "GRP-B"), testCtx.AuthHeaders())
	require.Equal(t, http.StatusCreated, w.Code)
	var locked models.Ticket
	testutils.DecodeJSON(t, w, &locked)

	// Test case 1: Update on the boundary
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut,
		fmt.Sprintf("/api/ticket/%s", onBoundary.ID.Hex()),
		ticketRequest(train, bookingNow.Add(12*24*time.Hour), "GRP-A"), testCtx.AuthHeaders())
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet,
		fmt.Sprintf("/api/ticket/%s", onBoundary.ID.Hex()), nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusOK, w.Code)
	var fetched models.Ticket
	testutils.DecodeJSON(t, w, &fetched)
	assert.True(t, fetched.ReservationDate.Equal(bookingNow.Add(12*24*time.Hour)))

	// Test case 2: Update inside the lead
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut,
		fmt.Sprintf("/api/ticket/%s", locked.ID.Hex()),
		ticketRequest(train, bookingNow.Add(12*24*time.Hour), "GRP-B"), testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Reservations can only be updated at least 5 days before the reservation date.", errResp.Message)

	// Test case 3: Unknown ticket id
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut,
		"/api/ticket/ffffffffffffffffffffffff",
		ticketRequest(train, bookingNow.Add(12*24*time.Hour), ""), testCtx.AuthHeaders())
	assert.Equal(t, http.StatusNotFound, w.Code)
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Ticket not found.", errResp.Message)
}

func TestCancelTicket(t *testing.T) {
	testCtx, train := setupTicketContext(t)

	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket",
		ticketRequest(train, bookingNow.Add(6*24*time.Hour), "GRP-C"), testCtx.AuthHeaders())
	require.Equal(t, http.StatusCreated, w.Code)
	var cancellable models.Ticket
	testutils.DecodeJSON(t, w, &cancellable)

	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket",
		ticketRequest(train, bookingNow.Add(2*24*time.Hour), "GRP-D"), testCtx.AuthHeaders())
	require.Equal(t, http.StatusCreated, w.Code)
	var locked models.Ticket
	testutils.DecodeJSON(t, w, &locked)

	// Test case 1: Cancel outside the lead
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete,
		fmt.Sprintf("/api/ticket/%s", cancellable.ID.Hex()), nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodGet,
		fmt.Sprintf("/api/ticket/%s", cancellable.ID.Hex()), nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Test case 2: Cancel inside the lead
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete,
		fmt.Sprintf("/api/ticket/%s", locked.ID.Hex()), nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Reservations can only be canceled at least 5 days before the reservation date.", errResp.Message)
}

func TestGetTicketsByNIC(t *testing.T) {
	testCtx, train := setupTicketContext(t)

	req := ticketRequest(train, bookingNow.Add(10*24*time.Hour), "GRP-E")
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket", req, testCtx.AuthHeaders())
	require.Equal(t, http.StatusCreated, w.Code)

	req.TravelerNIC = "200055667788"
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket", req, testCtx.AuthHeaders())
	require.Equal(t, http.StatusCreated, w.Code)

	// Test case 1: A non-hex path segment reads as a traveler NIC
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/ticket/200055667788", nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusOK, w.Code)

	var tickets []models.Ticket
	testutils.DecodeJSON(t, w, &tickets)
	require.Len(t, tickets, 1)
	assert.Equal(t, "200055667788", tickets[0].TravelerNIC)

	// Test case 2: Unknown NIC returns an empty list
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/ticket/000000000000", nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusOK, w.Code)
	testutils.DecodeJSON(t, w, &tickets)
	assert.Empty(t, tickets)

	// Test case 3: Listing returns everything
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/ticket", nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusOK, w.Code)
	testutils.DecodeJSON(t, w, &tickets)
	assert.Len(t, tickets, 2)
}

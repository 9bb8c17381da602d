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

var departure = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

func trainRequest(name string, status models.TrainStatus) models.TrainRequest {
	return models.TrainRequest{
		TrainName: name,
		Status:    status,
		Schedule: []models.ScheduleItemRequest{
			{
				Origin:          "Colombo",
				OriginTime:      departure,
				Destination:     "Kandy",
				DestinationTime: departure.Add(3 * time.Hour),
			},
		},
	}
}

func createTrain(t *testing.T, testCtx *testutils.TestContext, req models.TrainRequest) models.Train {
	t.Helper()
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/train", req, testCtx.AuthHeaders())
	require.Equal(t, http.StatusCreated, w.Code)

	var train models.Train
	testutils.DecodeJSON(t, w, &train)
	return train
}

func TestCreateTrain(t *testing.T) {
	testCtx := testutils.SetupTestContext(t, nil)

	// Test case 1: Successful creation assigns schedule item ids
	train := createTrain(t, testCtx, trainRequest("Udarata Menike", models.TrainActive))
	assert.False(t, train.ID.IsZero())
	require.Len(t, train.Schedule, 1)
	assert.False(t, train.Schedule[0].ID.IsZero())

	// Test case 2: Empty schedule
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/train", models.TrainRequest{
		TrainName: "Empty",
		Status:    models.TrainActive,
	}, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Train schedule cannot be empty.", errResp.Message)

	// Test case 3: Invalid status
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/train", trainRequest("Bad", models.TrainStatus("Running")), testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Invalid TrainStatus value.", errResp.Message)

	// Test case 4: Origin time after destination time
	req := trainRequest("Backwards", models.TrainActive)
	req.Schedule[0].OriginTime = departure.Add(5 * time.Hour)
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/train", req, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Origin time cannot be after Destination time.", errResp.Message)

	// Test case 5: Empty origin
	req = trainRequest("Nameless", models.TrainActive)
	req.Schedule[0].Origin = ""
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/train", req, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Origin and Destination cannot be empty in the schedule.", errResp.Message)
}

func TestPublishedTrainImmutability(t *testing.T) {
	testCtx := testutils.SetupTestContext(t, nil)
	train := createTrain(t, testCtx, trainRequest("Ruhunu Kumari", models.TrainActive))

	// Publish through edit-train
	publish := trainRequest("Ruhunu Kumari", models.TrainPublished)
	w := testutils.PerformRequest(testCtx.Router, http.MethodPut,
		fmt.Sprintf("/api/train/%s/edit-train", train.ID.Hex()), publish, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Test case 1: Appending to a published train
	w = testutils.PerformRequest(testCtx.Router, http.MethodPost,
		fmt.Sprintf("/api/train/%s/append-schedule", train.ID.Hex()),
		models.ScheduleItemRequest{
			Origin:          "Kandy",
			OriginTime:      departure.Add(4 * time.Hour),
			Destination:     "Badulla",
			DestinationTime: departure.Add(8 * time.Hour),
		}, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Cannot append schedules to a published train.", errResp.Message)

	// Test case 2: Deleting a schedule item from a published train
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete,
		fmt.Sprintf("/api/train/%s/delete-schedule/%s", train.ID.Hex(), train.Schedule[0].ID.Hex()),
		nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Cannot delete schedules from a published train.", errResp.Message)

	// Test case 3: Editing a schedule item of a published train
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut,
		fmt.Sprintf("/api/train/%s/edit-schedule/%s", train.ID.Hex(), train.Schedule[0].ID.Hex()),
		models.ScheduleItemRequest{
			Origin:          "Colombo",
			OriginTime:      departure,
			Destination:     "Galle",
			DestinationTime: departure.Add(2 * time.Hour),
		}, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Cannot edit schedules of a published train.", errResp.Message)

	// Test case 4: edit-train on a published train
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut,
		fmt.Sprintf("/api/train/%s/edit-train", train.ID.Hex()),
		trainRequest("Renamed", models.TrainActive), testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Cannot modify details of a published train.", errResp.Message)

	// Test case 5: Full replace with an unchanged schedule passes
	replace := trainRequest("Ruhunu Kumari Express", models.TrainPublished)
	replace.Schedule[0].ID = train.Schedule[0].ID.Hex()
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut,
		fmt.Sprintf("/api/train/%s", train.ID.Hex()), replace, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Test case 6: Full replace with a changed schedule is rejected
	replace = trainRequest("Ruhunu Kumari Express", models.TrainPublished)
	replace.Schedule[0].Destination = "Matara"
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut,
		fmt.Sprintf("/api/train/%s", train.ID.Hex()), replace, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Cannot update schedules for a published train.", errResp.Message)
}

func TestScheduleItemOperations(t *testing.T) {
	testCtx := testutils.SetupTestContext(t, nil)
	train := createTrain(t, testCtx, trainRequest("Yal Devi", models.TrainActive))

	// Test case 1: Append a second leg
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost,
		fmt.Sprintf("/api/train/%s/append-schedule", train.ID.Hex()),
		models.ScheduleItemRequest{
			Origin:          "Kandy",
			OriginTime:      departure.Add(4 * time.Hour),
			Destination:     "Jaffna",
			DestinationTime: departure.Add(10 * time.Hour),
		}, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Train
	testutils.DecodeJSON(t, w, &updated)
	require.Len(t, updated.Schedule, 2)
	assert.False(t, updated.Schedule[1].ID.IsZero())

	// Test case 2: Fetch one schedule item
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet,
		fmt.Sprintf("/api/train/%s/schedule/%s", train.ID.Hex(), updated.Schedule[1].ID.Hex()),
		nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusOK, w.Code)

	var item models.ScheduleItem
	testutils.DecodeJSON(t, w, &item)
	assert.Equal(t, "Jaffna", item.Destination)

	// Test case 3: Edit a schedule item keeps its id
	w = testutils.PerformRequest(testCtx.Router, http.MethodPut,
		fmt.Sprintf("/api/train/%s/edit-schedule/%s", train.ID.Hex(), updated.Schedule[1].ID.Hex()),
		models.ScheduleItemRequest{
			Origin:          "Kandy",
			OriginTime:      departure.Add(4 * time.Hour),
			Destination:     "Anuradhapura",
			DestinationTime: departure.Add(7 * time.Hour),
		}, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusOK, w.Code)

	var edited models.Train
	testutils.DecodeJSON(t, w, &edited)
	require.Len(t, edited.Schedule, 2)
	assert.Equal(t, updated.Schedule[1].ID, edited.Schedule[1].ID)
	assert.Equal(t, "Anuradhapura", edited.Schedule[1].Destination)

	// Test case 4: Delete a schedule item
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete,
		fmt.Sprintf("/api/train/%s/delete-schedule/%s", train.ID.Hex(), edited.Schedule[1].ID.Hex()),
		nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusOK, w.Code)

	var trimmed models.Train
	testutils.DecodeJSON(t, w, &trimmed)
	assert.Len(t, trimmed.Schedule, 1)

	// Test case 5: Deleting a schedule item that is not on the train
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete,
		fmt.Sprintf("/api/train/%s/delete-schedule/%s", train.ID.Hex(), edited.Schedule[1].ID.Hex()),
		nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "The specified schedule was not found in the train.", errResp.Message)

	// Test case 6: Unknown schedule item on GET
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet,
		fmt.Sprintf("/api/train/%s/schedule/%s", train.ID.Hex(), edited.Schedule[1].ID.Hex()),
		nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusNotFound, w.Code)
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Schedule not found within the specified train.", errResp.Message)
}

func TestDeleteTrain(t *testing.T) {
	testCtx := testutils.SetupTestContext(t, nil)
	train := createTrain(t, testCtx, trainRequest("Podi Menike", models.TrainActive))

	// Test case 1: Delete is blocked while reservations exist
	w := testutils.PerformRequest(testCtx.Router, http.MethodPost, "/api/ticket", models.TicketRequest{
		TravelerNIC:     "199012345678",
		TrainID:         train.ID.Hex(),
		ScheduleID:      train.Schedule[0].ID.Hex(),
		ReservationDate: time.Now().UTC().Add(10 * 24 * time.Hour),
	}, testCtx.AuthHeaders())
	require.Equal(t, http.StatusCreated, w.Code)

	var ticket models.Ticket
	testutils.DecodeJSON(t, w, &ticket)

	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete,
		fmt.Sprintf("/api/train/%s", train.ID.Hex()), nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp models.ErrorResponse
	testutils.DecodeJSON(t, w, &errResp)
	assert.Equal(t, "Cannot cancel a train with existing reservations.", errResp.Message)

	// Test case 2: Delete succeeds once the reservation is gone
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete,
		fmt.Sprintf("/api/ticket/%s", ticket.ID.Hex()), nil, testCtx.AuthHeaders())
	require.Equal(t, http.StatusNoContent, w.Code)

	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete,
		fmt.Sprintf("/api/train/%s", train.ID.Hex()), nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Test case 3: Unknown train id
	w = testutils.PerformRequest(testCtx.Router, http.MethodDelete,
		fmt.Sprintf("/api/train/%s", train.ID.Hex()), nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Test case 4: Malformed train id maps to not found
	w = testutils.PerformRequest(testCtx.Router, http.MethodGet, "/api/train/not-an-id", nil, testCtx.AuthHeaders())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

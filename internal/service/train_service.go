package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/travelagency/booking-server/internal/models"
	"github.com/travelagency/booking-server/internal/repository"
)

// TrainService implements train and schedule operations. Mutations of
// a single train are serialized behind a per-train lock so the
// publish-immutability check cannot race an in-process writer.
type TrainService struct {
	repo  repository.Repository
	locks *keyLock
}

// NewTrainService creates a new TrainService
func NewTrainService(repo repository.Repository) *TrainService {
	return &TrainService{repo: repo, locks: newKeyLock()}
}

// List returns all trains
func (s *TrainService) List(ctx context.Context) ([]models.Train, error) {
	trains, err := s.repo.ListTrains(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing trains: %w", err)
	}
	return trains, nil
}

// GetByID returns the train with the given id
func (s *TrainService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Train, error) {
	train, err := s.repo.GetTrainByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting train: %w", err)
	}
	if train == nil {
		return nil, notFoundErr("Train not found.")
	}
	return train, nil
}

func validateItem(origin, destination string, originTime, destinationTime time.Time) error {
	if origin == "" || destination == "" {
		return validationErr("Origin and Destination cannot be empty in the schedule.")
	}
	if originTime.After(destinationTime) {
		return validationErr("Origin time cannot be after Destination time.")
	}
	return nil
}

// scheduleFromRequest validates the incoming items and materializes
// them, assigning a fresh id to any item the client sent without one.
func scheduleFromRequest(items []models.ScheduleItemRequest) ([]models.ScheduleItem, error) {
	schedule := make([]models.ScheduleItem, 0, len(items))
	for _, item := range items {
		if err := validateItem(item.Origin, item.Destination, item.OriginTime, item.DestinationTime); err != nil {
			return nil, err
		}
		id := primitive.NilObjectID
		if item.ID != "" {
			parsed, err := primitive.ObjectIDFromHex(item.ID)
			if err != nil {
				return nil, validationErr("Invalid schedule item id.")
			}
			id = parsed
		}
		if id.IsZero() {
			id = primitive.NewObjectID()
		}
		schedule = append(schedule, models.ScheduleItem{
			ID:              id,
			Origin:          item.Origin,
			OriginTime:      item.OriginTime,
			Destination:     item.Destination,
			DestinationTime: item.DestinationTime,
		})
	}
	return schedule, nil
}

// sameSchedules compares two schedules by value, item by item,
// ignoring ids.
func sameSchedules(a, b []models.ScheduleItem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].SameRoute(b[i]) {
			return false
		}
	}
	return true
}

// Create validates and persists a new train. Every schedule item gets
// a server-assigned id regardless of what the client sent.
func (s *TrainService) Create(ctx context.Context, req models.TrainRequest) (*models.Train, error) {
	if len(req.Schedule) == 0 {
		return nil, validationErr("Train schedule cannot be empty.")
	}
	if !req.Status.Valid() {
		return nil, validationErr("Invalid TrainStatus value.")
	}

	schedule := make([]models.ScheduleItem, 0, len(req.Schedule))
	for _, item := range req.Schedule {
		if err := validateItem(item.Origin, item.Destination, item.OriginTime, item.DestinationTime); err != nil {
			return nil, err
		}
		schedule = append(schedule, models.ScheduleItem{
			ID:              primitive.NewObjectID(),
			Origin:          item.Origin,
			OriginTime:      item.OriginTime,
			Destination:     item.Destination,
			DestinationTime: item.DestinationTime,
		})
	}

	train := &models.Train{
		TrainName: req.TrainName,
		Schedule:  schedule,
		Status:    req.Status,
	}
	if err := s.repo.CreateTrain(ctx, train); err != nil {
		return nil, fmt.Errorf("error creating train: %w", err)
	}
	return train, nil
}

// Update replaces the whole train document. When the stored train is
// Published the proposed schedule must match the stored one by value;
// metadata-only changes pass through.
func (s *TrainService) Update(ctx context.Context, id primitive.ObjectID, req models.TrainRequest) error {
	unlock := s.locks.lock(id.Hex())
	defer unlock()

	stored, err := s.repo.GetTrainByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting train: %w", err)
	}
	if stored == nil {
		return notFoundErr("Train not found.")
	}

	schedule, err := scheduleFromRequest(req.Schedule)
	if err != nil {
		return err
	}
	if stored.Status == models.TrainPublished && !sameSchedules(stored.Schedule, schedule) {
		return conflictErr("Cannot update schedules for a published train.")
	}

	train := &models.Train{
		ID:        id,
		TrainName: req.TrainName,
		Schedule:  schedule,
		Status:    req.Status,
	}
	if err := s.repo.ReplaceTrain(ctx, id, train); err != nil {
		return fmt.Errorf("error updating train: %w", err)
	}
	return nil
}

// EditDetails updates train metadata while preserving the stored
// schedule. Rejected outright for Published trains.
func (s *TrainService) EditDetails(ctx context.Context, id primitive.ObjectID, req models.TrainRequest) error {
	unlock := s.locks.lock(id.Hex())
	defer unlock()

	stored, err := s.repo.GetTrainByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting train: %w", err)
	}
	if stored == nil {
		return notFoundErr("Train not found.")
	}
	if stored.Status == models.TrainPublished {
		return conflictErr("Cannot modify details of a published train.")
	}
	if !req.Status.Valid() {
		return validationErr("Invalid TrainStatus value.")
	}

	train := &models.Train{
		ID:        id,
		TrainName: req.TrainName,
		Schedule:  stored.Schedule,
		Status:    req.Status,
	}
	if err := s.repo.ReplaceTrain(ctx, id, train); err != nil {
		return fmt.Errorf("error updating train: %w", err)
	}
	return nil
}

// Delete removes a train, refusing while any ticket references it
func (s *TrainService) Delete(ctx context.Context, id primitive.ObjectID) error {
	unlock := s.locks.lock(id.Hex())
	defer unlock()

	stored, err := s.repo.GetTrainByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting train: %w", err)
	}
	if stored == nil {
		return notFoundErr("Train not found.")
	}

	reserved, err := s.HasReservations(ctx, id)
	if err != nil {
		return err
	}
	if reserved {
		return conflictErr("Cannot cancel a train with existing reservations.")
	}

	if err := s.repo.DeleteTrain(ctx, id); err != nil {
		return fmt.Errorf("error deleting train: %w", err)
	}
	return nil
}

// HasReservations reports whether at least one ticket references the train
func (s *TrainService) HasReservations(ctx context.Context, id primitive.ObjectID) (bool, error) {
	tickets, err := s.repo.ListTicketsByTrain(ctx, id)
	if err != nil {
		return false, fmt.Errorf("error listing tickets for train: %w", err)
	}
	return len(tickets) > 0, nil
}

// AppendScheduleItem validates and appends a new schedule item,
// assigning it a fresh id. Returns the updated train.
func (s *TrainService) AppendScheduleItem(ctx context.Context, id primitive.ObjectID, req models.ScheduleItemRequest) (*models.Train, error) {
	unlock := s.locks.lock(id.Hex())
	defer unlock()

	train, err := s.repo.GetTrainByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting train: %w", err)
	}
	if train == nil {
		return nil, notFoundErr("Train not found.")
	}
	if train.Status == models.TrainPublished {
		return nil, conflictErr("Cannot append schedules to a published train.")
	}
	if err := validateItem(req.Origin, req.Destination, req.OriginTime, req.DestinationTime); err != nil {
		return nil, err
	}

	train.Schedule = append(train.Schedule, models.ScheduleItem{
		ID:              primitive.NewObjectID(),
		Origin:          req.Origin,
		OriginTime:      req.OriginTime,
		Destination:     req.Destination,
		DestinationTime: req.DestinationTime,
	})
	if err := s.repo.ReplaceTrain(ctx, id, train); err != nil {
		return nil, fmt.Errorf("error updating train: %w", err)
	}
	return train, nil
}

// DeleteScheduleItem removes one schedule item. Returns the updated train.
func (s *TrainService) DeleteScheduleItem(ctx context.Context, id, scheduleID primitive.ObjectID) (*models.Train, error) {
	unlock := s.locks.lock(id.Hex())
	defer unlock()

	train, err := s.repo.GetTrainByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting train: %w", err)
	}
	if train == nil {
		return nil, notFoundErr("Train not found.")
	}
	if train.Status == models.TrainPublished {
		return nil, conflictErr("Cannot delete schedules from a published train.")
	}

	index := scheduleIndex(train.Schedule, scheduleID)
	if index < 0 {
		return nil, validationErr("The specified schedule was not found in the train.")
	}

	train.Schedule = append(train.Schedule[:index], train.Schedule[index+1:]...)
	if err := s.repo.ReplaceTrain(ctx, id, train); err != nil {
		return nil, fmt.Errorf("error updating train: %w", err)
	}
	return train, nil
}

// EditScheduleItem replaces one schedule item, keeping its id.
// Returns the updated train.
func (s *TrainService) EditScheduleItem(ctx context.Context, id, scheduleID primitive.ObjectID, req models.ScheduleItemRequest) (*models.Train, error) {
	unlock := s.locks.lock(id.Hex())
	defer unlock()

	train, err := s.repo.GetTrainByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting train: %w", err)
	}
	if train == nil {
		return nil, notFoundErr("Train not found.")
	}
	if train.Status == models.TrainPublished {
		return nil, conflictErr("Cannot edit schedules of a published train.")
	}
	if err := validateItem(req.Origin, req.Destination, req.OriginTime, req.DestinationTime); err != nil {
		return nil, err
	}

	index := scheduleIndex(train.Schedule, scheduleID)
	if index < 0 {
		return nil, validationErr("The specified schedule was not found in the train.")
	}

	train.Schedule[index] = models.ScheduleItem{
		ID:              scheduleID,
		Origin:          req.Origin,
		OriginTime:      req.OriginTime,
		Destination:     req.Destination,
		DestinationTime: req.DestinationTime,
	}
	if err := s.repo.ReplaceTrain(ctx, id, train); err != nil {
		return nil, fmt.Errorf("error updating train: %w", err)
	}
	return train, nil
}

// GetScheduleItem returns one schedule item of a train
func (s *TrainService) GetScheduleItem(ctx context.Context, id, scheduleID primitive.ObjectID) (*models.ScheduleItem, error) {
	train, err := s.repo.GetTrainByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting train: %w", err)
	}
	if train == nil {
		return nil, notFoundErr("Train not found.")
	}

	index := scheduleIndex(train.Schedule, scheduleID)
	if index < 0 {
		return nil, notFoundErr("Schedule not found within the specified train.")
	}
	item := train.Schedule[index]
	return &item, nil
}

func scheduleIndex(schedule []models.ScheduleItem, scheduleID primitive.ObjectID) int {
	for i, item := range schedule {
		if item.ID == scheduleID {
			return i
		}
	}
	return -1
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/travelagency/booking-server/internal/models"
	"github.com/travelagency/booking-server/internal/repository"
)

const (
	// reservationWindow is how far ahead a reservation may be placed.
	reservationWindow = 30 * 24 * time.Hour
	// cancellationLead is the minimum time before the reservation date
	// for updates and cancellations. The boundary is inclusive.
	cancellationLead = 5 * 24 * time.Hour
	// referenceQuota caps tickets per grouping key.
	referenceQuota = 4
)

// TicketService implements reservation operations. The quota check is
// serialized per reference ID behind an in-process lock.
type TicketService struct {
	repo  repository.Repository
	clock Clock
	locks *keyLock
}

// NewTicketService creates a new TicketService. A nil clock falls
// back to the system clock.
func NewTicketService(repo repository.Repository, clock Clock) *TicketService {
	if clock == nil {
		clock = systemClock
	}
	return &TicketService{repo: repo, clock: clock, locks: newKeyLock()}
}

// List returns all tickets
func (s *TicketService) List(ctx context.Context) ([]models.Ticket, error) {
	tickets, err := s.repo.ListTickets(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing tickets: %w", err)
	}
	return tickets, nil
}

// GetByID returns the ticket with the given id
func (s *TicketService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error) {
	ticket, err := s.repo.GetTicketByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}
	if ticket == nil {
		return nil, notFoundErr("Ticket not found.")
	}
	return ticket, nil
}

// GetByNIC returns all tickets booked under a traveler's NIC
func (s *TicketService) GetByNIC(ctx context.Context, nic string) ([]models.Ticket, error) {
	tickets, err := s.repo.ListTicketsByNIC(ctx, nic)
	if err != nil {
		return nil, fmt.Errorf("error listing tickets: %w", err)
	}
	return tickets, nil
}

// GetByTrainID returns all tickets referencing a train
func (s *TicketService) GetByTrainID(ctx context.Context, trainID primitive.ObjectID) ([]models.Ticket, error) {
	tickets, err := s.repo.ListTicketsByTrain(ctx, trainID)
	if err != nil {
		return nil, fmt.Errorf("error listing tickets: %w", err)
	}
	return tickets, nil
}

func (s *TicketService) fromRequest(req models.TicketRequest) (*models.Ticket, error) {
	trainID, err := primitive.ObjectIDFromHex(req.TrainID)
	if err != nil {
		return nil, validationErr("Invalid train id.")
	}
	scheduleID, err := primitive.ObjectIDFromHex(req.ScheduleID)
	if err != nil {
		return nil, validationErr("Invalid schedule id.")
	}
	return &models.Ticket{
		TravelerNIC:     req.TravelerNIC,
		TrainID:         trainID,
		ScheduleID:      scheduleID,
		ReservationDate: req.ReservationDate,
		ReferenceID:     req.ReferenceID,
	}, nil
}

// Create validates the booking window and the per-reference quota,
// then persists the ticket. A missing reference ID gets a generated
// one so single bookings still carry a grouping key.
func (s *TicketService) Create(ctx context.Context, req models.TicketRequest) (*models.Ticket, error) {
	ticket, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}

	lead := ticket.ReservationDate.Sub(s.clock())
	if lead < 0 || lead > reservationWindow {
		return nil, validationErr("Reservation date must be within 30 days from the booking date.")
	}

	if ticket.ReferenceID == "" {
		ticket.ReferenceID = uuid.NewString()
	}

	unlock := s.locks.lock(ticket.ReferenceID)
	defer unlock()

	count, err := s.repo.CountTicketsByReference(ctx, ticket.ReferenceID)
	if err != nil {
		return nil, fmt.Errorf("error counting reservations: %w", err)
	}
	if count >= referenceQuota {
		return nil, quotaErr("Maximum 4 reservations per reference ID allowed.")
	}

	if err := s.repo.CreateTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("error creating ticket: %w", err)
	}
	return ticket, nil
}

// Update replaces a ticket. Allowed only while the stored reservation
// date is at least five days out, re-checked against the clock now.
func (s *TicketService) Update(ctx context.Context, id primitive.ObjectID, req models.TicketRequest) error {
	stored, err := s.repo.GetTicketByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting ticket: %w", err)
	}
	if stored == nil {
		return notFoundErr("Ticket not found.")
	}
	if stored.ReservationDate.Sub(s.clock()) < cancellationLead {
		return conflictErr("Reservations can only be updated at least 5 days before the reservation date.")
	}

	ticket, err := s.fromRequest(req)
	if err != nil {
		return err
	}
	ticket.ID = id
	if ticket.ReferenceID == "" {
		ticket.ReferenceID = stored.ReferenceID
	}
	if err := s.repo.ReplaceTicket(ctx, id, ticket); err != nil {
		return fmt.Errorf("error updating ticket: %w", err)
	}
	return nil
}

// Cancel deletes a ticket under the same five-day rule as Update
func (s *TicketService) Cancel(ctx context.Context, id primitive.ObjectID) error {
	stored, err := s.repo.GetTicketByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting ticket: %w", err)
	}
	if stored == nil {
		return notFoundErr("Ticket not found.")
	}
	if stored.ReservationDate.Sub(s.clock()) < cancellationLead {
		return conflictErr("Reservations can only be canceled at least 5 days before the reservation date.")
	}

	if err := s.repo.DeleteTicket(ctx, id); err != nil {
		return fmt.Errorf("error deleting ticket: %w", err)
	}
	return nil
}

// Delete removes a ticket unconditionally. Internal use only; the
// HTTP surface always goes through Cancel.
func (s *TicketService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.repo.DeleteTicket(ctx, id); err != nil {
		return fmt.Errorf("error deleting ticket: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/travelagency/booking-server/internal/models"
)

// ErrDuplicateKey is returned when a write violates a unique index,
// currently only the email index on the two account collections.
var ErrDuplicateKey = errors.New("duplicate key")

// Repository interface defines the methods that any storage implementation must satisfy
type Repository interface {
	// Traveler operations
	CreateTraveler(ctx context.Context, traveler *models.Traveler) error
	ListTravelers(ctx context.Context) ([]models.Traveler, error)
	GetTravelerByNIC(ctx context.Context, nic string) (*models.Traveler, error)
	GetTravelerByEmail(ctx context.Context, email string) (*models.Traveler, error)
	PatchTraveler(ctx context.Context, nic string, patch *models.TravelerPatch) error
	ReplaceTraveler(ctx context.Context, nic string, traveler *models.Traveler) error
	DeleteTraveler(ctx context.Context, nic string) error

	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ReplaceUser(ctx context.Context, id primitive.ObjectID, user *models.User) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error

	// Train operations
	CreateTrain(ctx context.Context, train *models.Train) error
	ListTrains(ctx context.Context) ([]models.Train, error)
	GetTrainByID(ctx context.Context, id primitive.ObjectID) (*models.Train, error)
	ReplaceTrain(ctx context.Context, id primitive.ObjectID, train *models.Train) error
	DeleteTrain(ctx context.Context, id primitive.ObjectID) error

	// Ticket operations
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	ListTickets(ctx context.Context) ([]models.Ticket, error)
	GetTicketByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error)
	ListTicketsByNIC(ctx context.Context, nic string) ([]models.Ticket, error)
	ListTicketsByTrain(ctx context.Context, trainID primitive.ObjectID) ([]models.Ticket, error)
	CountTicketsByReference(ctx context.Context, referenceID string) (int64, error)
	ReplaceTicket(ctx context.Context, id primitive.ObjectID, ticket *models.Ticket) error
	DeleteTicket(ctx context.Context, id primitive.ObjectID) error
}

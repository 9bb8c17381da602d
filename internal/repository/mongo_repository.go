package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/travelagency/booking-server/internal/models"
)

// MongoRepository implements the Repository interface over MongoDB
type MongoRepository struct {
	travelers *mongo.Collection
	users     *mongo.Collection
	trains    *mongo.Collection
	tickets   *mongo.Collection
}

// NewMongoRepository creates a new MongoDB repository
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		travelers: db.Collection("travelers"),
		users:     db.Collection("users"),
		trains:    db.Collection("trains"),
		tickets:   db.Collection("tickets"),
	}
}

func wrapWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}

// Traveler repository methods
func (r *MongoRepository) CreateTraveler(ctx context.Context, traveler *models.Traveler) error {
	if traveler.ID.IsZero() {
		traveler.ID = primitive.NewObjectID()
	}
	_, err := r.travelers.InsertOne(ctx, traveler)
	return wrapWriteErr(err)
}

func (r *MongoRepository) ListTravelers(ctx context.Context) ([]models.Traveler, error) {
	cur, err := r.travelers.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	travelers := []models.Traveler{}
	if err := cur.All(ctx, &travelers); err != nil {
		return nil, err
	}
	return travelers, nil
}

func (r *MongoRepository) GetTravelerByNIC(ctx context.Context, nic string) (*models.Traveler, error) {
	var traveler models.Traveler
	err := r.travelers.FindOne(ctx, bson.M{"nic": nic}).Decode(&traveler)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Traveler not found
		}
		return nil, err
	}
	return &traveler, nil
}

func (r *MongoRepository) GetTravelerByEmail(ctx context.Context, email string) (*models.Traveler, error) {
	var traveler models.Traveler
	err := r.travelers.FindOne(ctx, bson.M{"email": email}).Decode(&traveler)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &traveler, nil
}

// PatchTraveler applies only the fields set on the patch, in a single
// update so the read-modify-write stays within one document operation.
func (r *MongoRepository) PatchTraveler(ctx context.Context, nic string, patch *models.TravelerPatch) error {
	set := bson.M{}
	if patch.FirstName != nil {
		set["firstName"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["lastName"] = *patch.LastName
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Password != nil {
		set["password"] = *patch.Password
	}
	if patch.NIC != nil {
		set["nic"] = *patch.NIC
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
	}
	if len(set) == 0 {
		return nil
	}
	_, err := r.travelers.UpdateOne(ctx, bson.M{"nic": nic}, bson.M{"$set": set})
	return wrapWriteErr(err)
}

func (r *MongoRepository) ReplaceTraveler(ctx context.Context, nic string, traveler *models.Traveler) error {
	_, err := r.travelers.ReplaceOne(ctx, bson.M{"nic": nic}, traveler)
	return wrapWriteErr(err)
}

func (r *MongoRepository) DeleteTraveler(ctx context.Context, nic string) error {
	_, err := r.travelers.DeleteOne(ctx, bson.M{"nic": nic})
	return err
}

// User repository methods
func (r *MongoRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := r.users.InsertOne(ctx, user)
	return wrapWriteErr(err)
}

func (r *MongoRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // User not found
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *MongoRepository) ReplaceUser(ctx context.Context, id primitive.ObjectID, user *models.User) error {
	user.ID = id
	_, err := r.users.ReplaceOne(ctx, bson.M{"_id": id}, user)
	return wrapWriteErr(err)
}

func (r *MongoRepository) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Train repository methods
func (r *MongoRepository) CreateTrain(ctx context.Context, train *models.Train) error {
	if train.ID.IsZero() {
		train.ID = primitive.NewObjectID()
	}
	_, err := r.trains.InsertOne(ctx, train)
	return err
}

func (r *MongoRepository) ListTrains(ctx context.Context) ([]models.Train, error) {
	cur, err := r.trains.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	trains := []models.Train{}
	if err := cur.All(ctx, &trains); err != nil {
		return nil, err
	}
	return trains, nil
}

func (r *MongoRepository) GetTrainByID(ctx context.Context, id primitive.ObjectID) (*models.Train, error) {
	var train models.Train
	err := r.trains.FindOne(ctx, bson.M{"_id": id}).Decode(&train)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Train not found
		}
		return nil, err
	}
	return &train, nil
}

func (r *MongoRepository) ReplaceTrain(ctx context.Context, id primitive.ObjectID, train *models.Train) error {
	train.ID = id
	_, err := r.trains.ReplaceOne(ctx, bson.M{"_id": id}, train)
	return err
}

func (r *MongoRepository) DeleteTrain(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.trains.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Ticket repository methods
func (r *MongoRepository) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	if ticket.ID.IsZero() {
		ticket.ID = primitive.NewObjectID()
	}
	_, err := r.tickets.InsertOne(ctx, ticket)
	return err
}

func (r *MongoRepository) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	cur, err := r.tickets.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	tickets := []models.Ticket{}
	if err := cur.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *MongoRepository) GetTicketByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.tickets.FindOne(ctx, bson.M{"_id": id}).Decode(&ticket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Ticket not found
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *MongoRepository) ListTicketsByNIC(ctx context.Context, nic string) ([]models.Ticket, error) {
	cur, err := r.tickets.Find(ctx, bson.M{"travelerNic": nic})
	if err != nil {
		return nil, err
	}
	tickets := []models.Ticket{}
	if err := cur.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *MongoRepository) ListTicketsByTrain(ctx context.Context, trainID primitive.ObjectID) ([]models.Ticket, error) {
	cur, err := r.tickets.Find(ctx, bson.M{"trainId": trainID})
	if err != nil {
		return nil, err
	}
	tickets := []models.Ticket{}
	if err := cur.All(ctx, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *MongoRepository) CountTicketsByReference(ctx context.Context, referenceID string) (int64, error) {
	return r.tickets.CountDocuments(ctx, bson.M{"referenceId": referenceID})
}

func (r *MongoRepository) ReplaceTicket(ctx context.Context, id primitive.ObjectID, ticket *models.Ticket) error {
	ticket.ID = id
	_, err := r.tickets.ReplaceOne(ctx, bson.M{"_id": id}, ticket)
	return err
}

func (r *MongoRepository) DeleteTicket(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.tickets.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupDatabase connects to MongoDB and prepares collection indexes
func SetupDatabase(cfg *Config) (*mongo.Client, *mongo.Database, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetMaxPoolSize(100).
		SetMinPoolSize(5).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Mongo.Database)
	if err := createIndexes(ctx, db); err != nil {
		return nil, nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return client, db, nil
}

// createIndexes creates the necessary indexes in the database
func createIndexes(ctx context.Context, db *mongo.Database) error {
	// Account emails are unique at the storage layer, so concurrent
	// registrations cannot both pass the duplicate check.
	for _, name := range []string{"travelers", "users"} {
		_, err := db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique_idx"),
		})
		if err != nil {
			return err
		}
	}

	// Ticket lookups filter on reference ID, train and traveler NIC.
	ticketIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "referenceId", Value: 1}},
			Options: options.Index().SetName("reference_idx"),
		},
		{
			Keys:    bson.D{{Key: "trainId", Value: 1}},
			Options: options.Index().SetName("train_idx"),
		},
		{
			Keys:    bson.D{{Key: "travelerNic", Value: 1}},
			Options: options.Index().SetName("traveler_nic_idx"),
		},
	}
	if _, err := db.Collection("tickets").Indexes().CreateMany(ctx, ticketIndexes); err != nil {
		return err
	}
	return nil
}

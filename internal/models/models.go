package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainStatus represents the lifecycle state of a train.
type TrainStatus string

const (
	TrainInactive  TrainStatus = "Inactive"
	TrainActive    TrainStatus = "Active"
	TrainPublished TrainStatus = "Published"
)

// Valid reports whether the status is one of the known states.
func (s TrainStatus) Valid() bool {
	switch s {
	case TrainInactive, TrainActive, TrainPublished:
		return true
	}
	return false
}

// Traveler represents a traveler account in the system
type Traveler struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"` // Password hash, not returned in JSON
	NIC       string             `bson:"nic" json:"nic"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
}

// User represents a backoffice or travel-agent account
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	Role     string             `bson:"role" json:"role"` // "Backoffice" or "TravelAgent"
}

// ScheduleItem is one leg of a train's schedule, embedded in its train
type ScheduleItem struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	Origin          string             `bson:"origin" json:"origin"`
	OriginTime      time.Time          `bson:"originTime" json:"originTime"`
	Destination     string             `bson:"destination" json:"destination"`
	DestinationTime time.Time          `bson:"destinationTime" json:"destinationTime"`
}

// SameRoute reports whether two schedule items match by origin, origin
// time, destination and destination time, ignoring their ids.
func (s ScheduleItem) SameRoute(o ScheduleItem) bool {
	return s.Origin == o.Origin &&
		s.OriginTime.Equal(o.OriginTime) &&
		s.Destination == o.Destination &&
		s.DestinationTime.Equal(o.DestinationTime)
}

// Train represents a train and its embedded schedule
type Train struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainName string             `bson:"trainName" json:"trainName"`
	Schedule  []ScheduleItem     `bson:"schedule" json:"schedule"`
	Status    TrainStatus        `bson:"status" json:"status"`
}

// Ticket represents a reservation for one leg of a train's schedule.
// Tickets reference trains and schedule items by id only.
type Ticket struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TravelerNIC     string             `bson:"travelerNic" json:"travelerNic"`
	TrainID         primitive.ObjectID `bson:"trainId" json:"trainId"`
	ScheduleID      primitive.ObjectID `bson:"scheduleId" json:"scheduleId"`
	ReservationDate time.Time          `bson:"reservationDate" json:"reservationDate"`
	ReferenceID     string             `bson:"referenceId" json:"referenceId"`
}

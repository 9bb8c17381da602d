package models

import "time"

// Request models
type RegisterTravelerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	NIC       string `json:"nic" binding:"required"`
}

type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TravelerPatch is a sparse update: only non-nil fields are applied.
// Empty strings are treated as absent so callers can post partial
// documents without clearing stored values.
type TravelerPatch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	NIC       *string `json:"nic"`
	IsActive  *bool   `json:"isActive"`
}

type UserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type ScheduleItemRequest struct {
	ID              string    `json:"id"`
	Origin          string    `json:"origin"`
	OriginTime      time.Time `json:"originTime"`
	Destination     string    `json:"destination"`
	DestinationTime time.Time `json:"destinationTime"`
}

type TrainRequest struct {
	TrainName string                `json:"trainName" binding:"required"`
	Schedule  []ScheduleItemRequest `json:"schedule"`
	Status    TrainStatus           `json:"status"`
}

type TicketRequest struct {
	TravelerNIC     string    `json:"travelerNic" binding:"required"`
	TrainID         string    `json:"trainId" binding:"required"`
	ScheduleID      string    `json:"scheduleId" binding:"required"`
	ReservationDate time.Time `json:"reservationDate" binding:"required"`
	ReferenceID     string    `json:"referenceId"`
}

// Response models
type TravelerLoginResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	IsActive bool   `json:"isActive"`
	Token    string `json:"token"`
}

type UserLoginResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

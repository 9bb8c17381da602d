package repository

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/travelagency/booking-server/internal/models"
)

// MemoryRepository is an in-memory Repository used by the test suite.
// It mirrors MongoRepository's behavior, including the unique email
// constraint on both account collections.
type MemoryRepository struct {
	mu        sync.RWMutex
	travelers map[string]models.Traveler           // keyed by NIC
	users     map[primitive.ObjectID]models.User   // keyed by id
	trains    map[primitive.ObjectID]models.Train  // keyed by id
	tickets   map[primitive.ObjectID]models.Ticket // keyed by id
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		travelers: make(map[string]models.Traveler),
		users:     make(map[primitive.ObjectID]models.User),
		trains:    make(map[primitive.ObjectID]models.Train),
		tickets:   make(map[primitive.ObjectID]models.Ticket),
	}
}

func copyTrain(t models.Train) models.Train {
	out := t
	out.Schedule = append([]models.ScheduleItem(nil), t.Schedule...)
	return out
}

func (r *MemoryRepository) travelerEmailTaken(email string, exceptNIC string) bool {
	for nic, t := range r.travelers {
		if t.Email == email && nic != exceptNIC {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) userEmailTaken(email string, exceptID primitive.ObjectID) bool {
	for id, u := range r.users {
		if u.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

// Traveler repository methods
func (r *MemoryRepository) CreateTraveler(ctx context.Context, traveler *models.Traveler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if traveler.ID.IsZero() {
		traveler.ID = primitive.NewObjectID()
	}
	if r.travelerEmailTaken(traveler.Email, traveler.NIC) {
		return ErrDuplicateKey
	}
	r.travelers[traveler.NIC] = *traveler
	return nil
}

func (r *MemoryRepository) ListTravelers(ctx context.Context) ([]models.Traveler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	travelers := []models.Traveler{}
	for _, t := range r.travelers {
		travelers = append(travelers, t)
	}
	return travelers, nil
}

func (r *MemoryRepository) GetTravelerByNIC(ctx context.Context, nic string) (*models.Traveler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.travelers[nic]; ok {
		return &t, nil
	}
	return nil, nil
}

func (r *MemoryRepository) GetTravelerByEmail(ctx context.Context, email string) (*models.Traveler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.travelers {
		if t.Email == email {
			out := t
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) PatchTraveler(ctx context.Context, nic string, patch *models.TravelerPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.travelers[nic]
	if !ok {
		return nil
	}
	if patch.Email != nil && r.travelerEmailTaken(*patch.Email, nic) {
		return ErrDuplicateKey
	}
	if patch.FirstName != nil {
		t.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		t.LastName = *patch.LastName
	}
	if patch.Email != nil {
		t.Email = *patch.Email
	}
	if patch.Password != nil {
		t.Password = *patch.Password
	}
	if patch.IsActive != nil {
		t.IsActive = *patch.IsActive
	}
	if patch.NIC != nil {
		delete(r.travelers, nic)
		t.NIC = *patch.NIC
	}
	r.travelers[t.NIC] = t
	return nil
}

func (r *MemoryRepository) ReplaceTraveler(ctx context.Context, nic string, traveler *models.Traveler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.travelers[nic]; !ok {
		return nil
	}
	if r.travelerEmailTaken(traveler.Email, nic) {
		return ErrDuplicateKey
	}
	delete(r.travelers, nic)
	r.travelers[traveler.NIC] = *traveler
	return nil
}

func (r *MemoryRepository) DeleteTraveler(ctx context.Context, nic string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.travelers, nic)
	return nil
}

// User repository methods
func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if r.userEmailTaken(user.Email, user.ID) {
		return ErrDuplicateKey
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := []models.User{}
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) ReplaceUser(ctx context.Context, id primitive.ObjectID, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return nil
	}
	if r.userEmailTaken(user.Email, id) {
		return ErrDuplicateKey
	}
	user.ID = id
	r.users[id] = *user
	return nil
}

func (r *MemoryRepository) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

// Train repository methods
func (r *MemoryRepository) CreateTrain(ctx context.Context, train *models.Train) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if train.ID.IsZero() {
		train.ID = primitive.NewObjectID()
	}
	r.trains[train.ID] = copyTrain(*train)
	return nil
}

func (r *MemoryRepository) ListTrains(ctx context.Context) ([]models.Train, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	trains := []models.Train{}
	for _, t := range r.trains {
		trains = append(trains, copyTrain(t))
	}
	return trains, nil
}

func (r *MemoryRepository) GetTrainByID(ctx context.Context, id primitive.ObjectID) (*models.Train, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.trains[id]; ok {
		out := copyTrain(t)
		return &out, nil
	}
	return nil, nil
}

func (r *MemoryRepository) ReplaceTrain(ctx context.Context, id primitive.ObjectID, train *models.Train) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.trains[id]; !ok {
		return nil
	}
	train.ID = id
	r.trains[id] = copyTrain(*train)
	return nil
}

func (r *MemoryRepository) DeleteTrain(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trains, id)
	return nil
}

// Ticket repository methods
func (r *MemoryRepository) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ticket.ID.IsZero() {
		ticket.ID = primitive.NewObjectID()
	}
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *MemoryRepository) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tickets := []models.Ticket{}
	for _, t := range r.tickets {
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func (r *MemoryRepository) GetTicketByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.tickets[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (r *MemoryRepository) ListTicketsByNIC(ctx context.Context, nic string) ([]models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tickets := []models.Ticket{}
	for _, t := range r.tickets {
		if t.TravelerNIC == nic {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}

func (r *MemoryRepository) ListTicketsByTrain(ctx context.Context, trainID primitive.ObjectID) ([]models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tickets := []models.Ticket{}
	for _, t := range r.tickets {
		if t.TrainID == trainID {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}

func (r *MemoryRepository) CountTicketsByReference(ctx context.Context, referenceID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, t := range r.tickets {
		if t.ReferenceID == referenceID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) ReplaceTicket(ctx context.Context, id primitive.ObjectID, ticket *models.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return nil
	}
	ticket.ID = id
	r.tickets[id] = *ticket
	return nil
}

func (r *MemoryRepository) DeleteTicket(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tickets, id)
	return nil
}

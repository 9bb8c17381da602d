package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/travelagency/booking-server/internal/models"
	"github.com/travelagency/booking-server/internal/repository"
)

const (
	RoleBackoffice  = "Backoffice"
	RoleTravelAgent = "TravelAgent"
)

// UserService implements backoffice/travel-agent account operations
type UserService struct {
	repo repository.Repository
}

// NewUserService creates a new UserService
func NewUserService(repo repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// List returns all users
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// GetByID returns the user with the given id
func (s *UserService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return nil, notFoundErr("User not found.")
	}
	return user, nil
}

// Register validates and creates a new user account. Role is limited
// to the two backoffice roles.
func (s *UserService) Register(ctx context.Context, req models.RegisterUserRequest) (*models.User, error) {
	if !emailPattern.MatchString(req.Email) {
		return nil, validationErr("Invalid email format")
	}

	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}
	if existing != nil {
		return nil, duplicateErr("Email already registered")
	}

	if req.Role != RoleBackoffice && req.Role != RoleTravelAgent {
		return nil, validationErr("Invalid role. Role must be either 'Backoffice' or 'TravelAgent'.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     req.Role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, duplicateErr("Email already registered")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Create persists a user without the registration format checks
func (s *UserService) Create(ctx context.Context, req models.UserRequest) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     req.Role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, duplicateErr("Email already registered")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Update replaces the user document. An omitted password keeps the
// stored hash; a supplied one is re-hashed.
func (s *UserService) Update(ctx context.Context, id primitive.ObjectID, req models.UserRequest) error {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return notFoundErr("User not found.")
	}

	password := user.Password
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}
		password = string(hashedPassword)
	}

	role := user.Role
	if req.Role != "" {
		if req.Role != RoleBackoffice && req.Role != RoleTravelAgent {
			return validationErr("Invalid role. Role must be either 'Backoffice' or 'TravelAgent'.")
		}
		role = req.Role
	}

	replacement := &models.User{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Password: password,
		Role:     role,
	}
	if err := s.repo.ReplaceUser(ctx, id, replacement); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return duplicateErr("Email already registered")
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

// Delete removes the user with the given id
func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return notFoundErr("User not found.")
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

// Authenticate looks up a user by email and verifies the password.
// Returns (nil, nil) when the account is missing or the hash does not
// match.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return nil, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil
	}
	return user, nil
}

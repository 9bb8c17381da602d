package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/travelagency/booking-server/internal/models"
	"github.com/travelagency/booking-server/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)

// TravelerService implements traveler account operations
type TravelerService struct {
	repo repository.Repository
}

// NewTravelerService creates a new TravelerService
func NewTravelerService(repo repository.Repository) *TravelerService {
	return &TravelerService{repo: repo}
}

// List returns all travelers
func (s *TravelerService) List(ctx context.Context) ([]models.Traveler, error) {
	travelers, err := s.repo.ListTravelers(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing travelers: %w", err)
	}
	return travelers, nil
}

// GetByNIC returns the traveler with the given NIC
func (s *TravelerService) GetByNIC(ctx context.Context, nic string) (*models.Traveler, error) {
	traveler, err := s.repo.GetTravelerByNIC(ctx, nic)
	if err != nil {
		return nil, fmt.Errorf("error getting traveler: %w", err)
	}
	if traveler == nil {
		return nil, notFoundErr("There is no traveler with this NIC: %s", nic)
	}
	return traveler, nil
}

// Register validates and creates a new traveler account. The password
// is stored as a bcrypt hash and new accounts start active.
func (s *TravelerService) Register(ctx context.Context, req models.RegisterTravelerRequest) (*models.Traveler, error) {
	if !emailPattern.MatchString(req.Email) {
		return nil, validationErr("Invalid email format")
	}

	existing, err := s.repo.GetTravelerByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("error checking traveler existence: %w", err)
	}
	if existing != nil {
		return nil, duplicateErr("Email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	traveler := &models.Traveler{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashedPassword),
		NIC:       req.NIC,
		IsActive:  true,
	}

	if err := s.repo.CreateTraveler(ctx, traveler); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, duplicateErr("Email already registered")
		}
		return nil, fmt.Errorf("error creating traveler: %w", err)
	}
	return traveler, nil
}

// Create persists a traveler without the registration format checks.
// The password is still hashed and the unique email index still holds.
func (s *TravelerService) Create(ctx context.Context, req models.RegisterTravelerRequest) (*models.Traveler, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	traveler := &models.Traveler{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashedPassword),
		NIC:       req.NIC,
		IsActive:  true,
	}
	if err := s.repo.CreateTraveler(ctx, traveler); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, duplicateErr("Email already registered")
		}
		return nil, fmt.Errorf("error creating traveler: %w", err)
	}
	return traveler, nil
}

// Update applies a sparse patch to the traveler with the given NIC.
// Only supplied, non-empty fields are written; a supplied password is
// re-hashed before storage.
func (s *TravelerService) Update(ctx context.Context, nic string, patch models.TravelerPatch) error {
	if patch.Email != nil && *patch.Email != "" {
		existing, err := s.repo.GetTravelerByEmail(ctx, *patch.Email)
		if err != nil {
			return fmt.Errorf("error checking traveler email: %w", err)
		}
		if existing != nil {
			return duplicateErr("Email Already exists!")
		}
	}

	traveler, err := s.repo.GetTravelerByNIC(ctx, nic)
	if err != nil {
		return fmt.Errorf("error getting traveler: %w", err)
	}
	if traveler == nil {
		return notFoundErr("There is no traveler with this NIC: %s", nic)
	}

	normalizePatch(&patch)
	if patch.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}
		hash := string(hashedPassword)
		patch.Password = &hash
	}

	if err := s.repo.PatchTraveler(ctx, nic, &patch); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return duplicateErr("Email Already exists!")
		}
		return fmt.Errorf("error updating traveler: %w", err)
	}
	return nil
}

// normalizePatch drops empty-string fields so they read as absent.
func normalizePatch(patch *models.TravelerPatch) {
	clear := func(p **string) {
		if *p != nil && **p == "" {
			*p = nil
		}
	}
	clear(&patch.FirstName)
	clear(&patch.LastName)
	clear(&patch.Email)
	clear(&patch.Password)
	clear(&patch.NIC)
}

// Delete removes the traveler with the given NIC
func (s *TravelerService) Delete(ctx context.Context, nic string) error {
	traveler, err := s.repo.GetTravelerByNIC(ctx, nic)
	if err != nil {
		return fmt.Errorf("error getting traveler: %w", err)
	}
	if traveler == nil {
		return notFoundErr("There is no traveler with this NIC: %s", nic)
	}
	if err := s.repo.DeleteTraveler(ctx, nic); err != nil {
		return fmt.Errorf("error deleting traveler: %w", err)
	}
	return nil
}

// SetActive toggles a traveler's activation flag. A missing NIC is a
// no-op, matching the activation endpoint's fire-and-forget contract.
func (s *TravelerService) SetActive(ctx context.Context, nic string, active bool) error {
	traveler, err := s.repo.GetTravelerByNIC(ctx, nic)
	if err != nil {
		return fmt.Errorf("error getting traveler: %w", err)
	}
	if traveler == nil {
		return nil
	}
	traveler.IsActive = active
	if err := s.repo.ReplaceTraveler(ctx, nic, traveler); err != nil {
		return fmt.Errorf("error updating traveler: %w", err)
	}
	return nil
}

// Authenticate looks up a traveler by email and verifies the password.
// A missing account or a failed hash comparison returns (nil, nil):
// authentication failure is an outcome, not an error.
func (s *TravelerService) Authenticate(ctx context.Context, email, password string) (*models.Traveler, error) {
	traveler, err := s.repo.GetTravelerByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error getting traveler: %w", err)
	}
	if traveler == nil {
		return nil, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(traveler.Password), []byte(password)); err != nil {
		return nil, nil
	}
	return traveler, nil
}

package service

import (
	"fmt"

	"github.com/clearharbor/bond-platform-backend/internal/api/request"
	"github.com/clearharbor/bond-platform-backend/internal/clock"
	"github.com/clearharbor/bond-platform-backend/internal/model"
	"github.com/clearharbor/bond-platform-backend/internal/repository"
)

// UserService handles investor record operations. Authentication lives
// upstream; the service only maintains the ownership anchor and the account
// type lock.
type UserService struct {
	userRepo    *repository.UserRepository
	counterRepo *repository.CounterRepository
	clock       clock.Clock
}

// NewUserService creates a new UserService with the provided repository dependencies.
func NewUserService(
	userRepo *repository.UserRepository,
	counterRepo *repository.CounterRepository,
	clk clock.Clock,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		counterRepo: counterRepo,
		clock:       clk,
	}
}

// CreateUser registers a new investor record with a sequential USR- ID.
func (s *UserService) CreateUser(req request.CreateUserRequest) (model.User, error) {
	id, err := s.counterRepo.NextID(repository.CounterUser)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to allocate user id: %w", err)
	}

	now := s.clock.Now()
	user := model.User{
		ID:        id,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsAdmin:   req.IsAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		return model.User{}, err
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(userID string) (model.User, error) {
	return s.userRepo.GetUserOnID(userID)
}

// GetUsers retrieves all users.
func (s *UserService) GetUsers() ([]model.User, error) {
	return s.userRepo.GetUsers()
}

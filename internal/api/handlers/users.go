package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clearharbor/bond-platform-backend/internal/api/request"
	"github.com/clearharbor/bond-platform-backend/internal/model"
	"github.com/clearharbor/bond-platform-backend/internal/repository"
	"github.com/clearharbor/bond-platform-backend/internal/service"
	"github.com/clearharbor/bond-platform-backend/internal/validation"
)

// UserHandler handles investor record HTTP requests
type UserHandler struct {
	userService  *service.UserService
	activityRepo *repository.ActivityRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService, activityRepo *repository.ActivityRepository) *UserHandler {
	return &UserHandler{
		userService:  userService,
		activityRepo: activityRepo,
	}
}

// Create registers a new investor record.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateUser(req); err != nil {
		respondServiceError(w, err)
		return
	}

	user, err := h.userService.CreateUser(req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// List retrieves all users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetUsers()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

// Get retrieves a user by ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUser(chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Activity returns a user's audit trail, newest first.
func (h *UserHandler) Activity(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if _, err := h.userService.GetUser(userID); err != nil {
		respondServiceError(w, err)
		return
	}

	events, err := h.activityRepo.GetEventsOnUserID(userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

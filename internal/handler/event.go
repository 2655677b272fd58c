package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"taskgame_service/internal/domain"
	"taskgame_service/internal/service"
)

// EventHandler exposes the admin surface: event CRUD with the cascade
// teardown, and user management.
type EventHandler struct {
	events *service.EventService
	users  *service.UserService
}

func NewEventHandler(events *service.EventService, users *service.UserService) *EventHandler {
	return &EventHandler{events: events, users: users}
}

func (h *EventHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Route("/events", func(r chi.Router) {
			r.Post("/", h.createEvent)
			r.Get("/", h.listEvents)
			r.Get("/{eventID}", h.getEvent)
			r.Put("/{eventID}", h.updateEvent)
			r.Patch("/{eventID}/active", h.setEventActive)
			r.Delete("/{eventID}", h.deleteEvent)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Get("/{userID}", h.getUser)
			r.Patch("/{userID}", h.updateUser)
		})
	})
}

type createEventRequest struct {
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	MaxTasksPerUser int       `json:"max_tasks_per_user"`
	UserIDs         []string  `json:"user_ids"`
}

type eventResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	IsActive        bool      `json:"is_active"`
	MaxTasksPerUser int       `json:"max_tasks_per_user"`
}

func toEventResponse(event *domain.Event) *eventResponse {
	return &eventResponse{
		ID:              event.ID.String(),
		Name:            event.Name,
		Description:     event.Description,
		StartDate:       event.StartDate,
		EndDate:         event.EndDate,
		CreatedBy:       event.CreatedByUserID.String(),
		CreatedAt:       event.CreatedAt,
		IsActive:        event.IsActive,
		MaxTasksPerUser: event.MaxTasksPerUser,
	}
}

func (h *EventHandler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	userIDs := make([]uuid.UUID, 0, len(req.UserIDs))
	for _, raw := range req.UserIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, r, fmt.Errorf("invalid user id %q: %w", raw, service.ErrInvalidArgument))
			return
		}
		userIDs = append(userIDs, id)
	}

	event, err := h.events.Create(r.Context(), &service.CreateEventInput{
		Name:            req.Name,
		Description:     req.Description,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		MaxTasksPerUser: req.MaxTasksPerUser,
		UserIDs:         userIDs,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

type eventSummaryResponse struct {
	eventResponse
	InvitedCount  int `json:"invited_count"`
	AcceptedCount int `json:"accepted_count"`
}

func (h *EventHandler) listEvents(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.events.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]*eventSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		resp = append(resp, &eventSummaryResponse{
			eventResponse: *toEventResponse(&summary.Event),
			InvitedCount:  summary.InvitedCount,
			AcceptedCount: summary.AcceptedCount,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type eventDetailResponse struct {
	eventResponse
	Invitations []*invitationResponse `json:"invitations"`
	TaskCount   int                   `json:"task_count"`
}

func (h *EventHandler) getEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parsePathUUID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	detail, err := h.events.Get(r.Context(), eventID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	invitations := make([]*invitationResponse, 0, len(detail.Invitations))
	for _, invitation := range detail.Invitations {
		invitations = append(invitations, toInvitationResponse(invitation))
	}

	writeJSON(w, http.StatusOK, &eventDetailResponse{
		eventResponse: *toEventResponse(&detail.Event),
		Invitations:   invitations,
		TaskCount:     detail.TaskCount,
	})
}

type updateEventRequest struct {
	Name            string    `json:"name"`
	Description     *string   `json:"description,omitempty"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	MaxTasksPerUser int       `json:"max_tasks_per_user"`
	IsActive        bool      `json:"is_active"`
}

func (h *EventHandler) updateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parsePathUUID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateEventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	event, err := h.events.Update(r.Context(), eventID, &service.UpdateEventInput{
		Name:            req.Name,
		Description:     req.Description,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		MaxTasksPerUser: req.MaxTasksPerUser,
		IsActive:        req.IsActive,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}

type setActiveRequest struct {
	IsActive bool `json:"is_active"`
}

func (h *EventHandler) setEventActive(w http.ResponseWriter, r *http.Request) {
	eventID, err := parsePathUUID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req setActiveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.events.SetActive(r.Context(), eventID, req.IsActive); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"is_active": req.IsActive})
}

func (h *EventHandler) deleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parsePathUUID(r, "eventID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.events.Delete(r.Context(), eventID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]*userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserResponse(user))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *EventHandler) getUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parsePathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type updateUserRequest struct {
	IsActive *bool `json:"is_active,omitempty"`
	IsAdmin  *bool `json:"is_admin,omitempty"`
}

func (h *EventHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parsePathUUID(r, "userID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.users.UpdateFlags(r.Context(), userID, &service.UpdateUserInput{
		IsActive: req.IsActive,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

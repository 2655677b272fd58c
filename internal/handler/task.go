package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"taskgame_service/internal/domain"
	"taskgame_service/internal/service"
)

type TaskHandler struct {
	tasks       *service.TaskService
	assignments *service.AssignmentService
}

func NewTaskHandler(tasks *service.TaskService, assignments *service.AssignmentService) *TaskHandler {
	return &TaskHandler{tasks: tasks, assignments: assignments}
}

func (h *TaskHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", h.create)
			r.Get("/my", h.listCreated)
			r.Post("/{taskID}/assign", h.reassign)
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Get("/my", h.listAssignments)
			r.Patch("/{assignmentID}/status", h.updateStatus)
		})
	})
}

type createTaskRequest struct {
	EventID             string     `json:"event_id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	DueDate             *time.Time `json:"due_date,omitempty"`
	Priority            int        `json:"priority"`
	MaxDailyAssignments int        `json:"max_daily_assignments,omitempty"`
}

type taskResponse struct {
	ID                  string     `json:"id"`
	EventID             *string    `json:"event_id,omitempty"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	DueDate             *time.Time `json:"due_date,omitempty"`
	Priority            int        `json:"priority"`
	CreatedBy           string     `json:"created_by"`
	CreatedAt           time.Time  `json:"created_at"`
	MaxDailyAssignments int        `json:"max_daily_assignments"`
}

func toTaskResponse(task *domain.Task) *taskResponse {
	resp := &taskResponse{
		ID:                  task.ID.String(),
		Title:               task.Title,
		Description:         task.Description,
		DueDate:             task.DueDate,
		Priority:            int(task.Priority),
		CreatedBy:           task.CreatedByUserID.String(),
		CreatedAt:           task.CreatedAt,
		MaxDailyAssignments: task.MaxDailyAssignments,
	}
	if task.EventID != nil {
		eventID := task.EventID.String()
		resp.EventID = &eventID
	}
	return resp
}

type assignmentResponse struct {
	ID          string     `json:"id"`
	TaskID      string     `json:"task_id"`
	AssignedTo  string     `json:"assigned_to"`
	AssignedAt  time.Time  `json:"assigned_at"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func toAssignmentResponse(assignment *domain.Assignment) *assignmentResponse {
	return &assignmentResponse{
		ID:          assignment.ID.String(),
		TaskID:      assignment.TaskID.String(),
		AssignedTo:  assignment.AssignedToUserID.String(),
		AssignedAt:  assignment.AssignedAt,
		Status:      string(assignment.Status),
		CompletedAt: assignment.CompletedAt,
	}
}

type createTaskResponse struct {
	Task       *taskResponse       `json:"task"`
	Assignment *assignmentResponse `json:"assignment,omitempty"`
}

func (h *TaskHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	eventID, err := parseUUIDField(req.EventID, "event_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	task, assignment, err := h.tasks.Create(r.Context(), &service.CreateTaskInput{
		EventID:             eventID,
		Title:               req.Title,
		Description:         req.Description,
		DueDate:             req.DueDate,
		Priority:            domain.TaskPriority(req.Priority),
		MaxDailyAssignments: req.MaxDailyAssignments,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := &createTaskResponse{Task: toTaskResponse(task)}
	if assignment != nil {
		resp.Assignment = toAssignmentResponse(assignment)
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *TaskHandler) listCreated(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListCreated(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]*taskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, toTaskResponse(task))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *TaskHandler) reassign(w http.ResponseWriter, r *http.Request) {
	taskID, err := parsePathUUID(r, "taskID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	assignment, err := h.assignments.Reassign(r.Context(), taskID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAssignmentResponse(assignment))
}

type assignmentDetailResponse struct {
	assignmentResponse
	TaskTitle       string     `json:"task_title"`
	TaskDescription string     `json:"task_description"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	Priority        int        `json:"priority"`
	EventID         *string    `json:"event_id,omitempty"`
	EventName       string     `json:"event_name,omitempty"`
}

func (h *TaskHandler) listAssignments(w http.ResponseWriter, r *http.Request) {
	details, err := h.assignments.ListMine(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]*assignmentDetailResponse, 0, len(details))
	for _, detail := range details {
		item := &assignmentDetailResponse{
			assignmentResponse: *toAssignmentResponse(&detail.Assignment),
			TaskTitle:          detail.TaskTitle,
			TaskDescription:    detail.TaskDescription,
			DueDate:            detail.DueDate,
			Priority:           int(detail.Priority),
			EventName:          detail.EventName,
		}
		if detail.EventID != nil {
			eventID := detail.EventID.String()
			item.EventID = &eventID
		}
		resp = append(resp, item)
	}

	writeJSON(w, http.StatusOK, resp)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *TaskHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := parsePathUUID(r, "assignmentID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.assignments.UpdateStatus(r.Context(), assignmentID, req.Status); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

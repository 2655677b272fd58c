package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"taskgame_service/internal/domain"
	"taskgame_service/internal/service"
)

const maxSubmissionSize = 50 << 20 // 50 MB across all files

type SubmissionHandler struct {
	submissions *service.SubmissionService
}

func NewSubmissionHandler(submissions *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/assignments/{assignmentID}/submission", h.submit)
		r.Get("/submissions/completed", h.listCompleted)
		r.Get("/submissions/{submissionID}", h.get)
		r.Get("/submissions/files/{fileID}/url", h.fileURL)
	})
}

type submissionFileResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType *string   `json:"content_type,omitempty"`
	FileSize    int64     `json:"file_size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type submissionResponse struct {
	ID           string                    `json:"id"`
	AssignmentID string                    `json:"assignment_id"`
	SubmittedBy  string                    `json:"submitted_by"`
	Notes        *string                   `json:"notes,omitempty"`
	SubmittedAt  time.Time                 `json:"submitted_at"`
	Files        []*submissionFileResponse `json:"files"`
}

func toSubmissionResponse(submission *domain.Submission) *submissionResponse {
	files := make([]*submissionFileResponse, 0, len(submission.Files))
	for _, file := range submission.Files {
		files = append(files, &submissionFileResponse{
			ID:          file.ID.String(),
			FileName:    file.FileName,
			ContentType: file.ContentType,
			FileSize:    file.FileSize,
			UploadedAt:  file.UploadedAt,
		})
	}

	return &submissionResponse{
		ID:           submission.ID.String(),
		AssignmentID: submission.AssignmentID.String(),
		SubmittedBy:  submission.SubmittedByUserID.String(),
		Notes:        submission.Notes,
		SubmittedAt:  submission.SubmittedAt,
		Files:        files,
	}
}

// submit reads a multipart form: an optional "notes" field plus any
// number of "files" parts.
func (h *SubmissionHandler) submit(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := parsePathUUID(r, "assignmentID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxSubmissionSize); err != nil {
		writeError(w, r, fmt.Errorf("invalid multipart form: %w", service.ErrInvalidArgument))
		return
	}

	input := &service.SubmitWorkInput{AssignmentID: assignmentID}
	if notes := r.FormValue("notes"); notes != "" {
		input.Notes = &notes
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			file, err := header.Open()
			if err != nil {
				writeError(w, r, fmt.Errorf("failed to open uploaded file %s: %w", header.Filename, service.ErrInvalidArgument))
				return
			}
			defer file.Close()

			input.Files = append(input.Files, service.UploadedFile{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Content:     file,
			})
		}
	}

	submission, err := h.submissions.SubmitWork(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSubmissionResponse(submission))
}

func (h *SubmissionHandler) get(w http.ResponseWriter, r *http.Request) {
	submissionID, err := parsePathUUID(r, "submissionID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	submission, err := h.submissions.Get(r.Context(), submissionID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubmissionResponse(submission))
}

type completedTaskResponse struct {
	SubmissionID        string                    `json:"submission_id"`
	TaskTitle           string                    `json:"task_title"`
	TaskDescription     string                    `json:"task_description"`
	SubmittedAt         time.Time                 `json:"submitted_at"`
	Notes               *string                   `json:"notes,omitempty"`
	EventName           *string                   `json:"event_name,omitempty"`
	EventEndDate        *time.Time                `json:"event_end_date,omitempty"`
	SubmittedByUsername string                    `json:"submitted_by_username"`
	CreatedByUsername   string                    `json:"created_by_username"`
	Files               []*submissionFileResponse `json:"files"`
}

func (h *SubmissionHandler) listCompleted(w http.ResponseWriter, r *http.Request) {
	completed, err := h.submissions.ListCompleted(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]*completedTaskResponse, 0, len(completed))
	for _, item := range completed {
		files := make([]*submissionFileResponse, 0, len(item.Files))
		for _, file := range item.Files {
			files = append(files, &submissionFileResponse{
				ID:          file.ID.String(),
				FileName:    file.FileName,
				ContentType: file.ContentType,
				FileSize:    file.FileSize,
				UploadedAt:  file.UploadedAt,
			})
		}

		resp = append(resp, &completedTaskResponse{
			SubmissionID:        item.SubmissionID.String(),
			TaskTitle:           item.TaskTitle,
			TaskDescription:     item.TaskDescription,
			SubmittedAt:         item.SubmittedAt,
			Notes:               item.Notes,
			EventName:           item.EventName,
			EventEndDate:        item.EventEndDate,
			SubmittedByUsername: item.SubmittedByUsername,
			CreatedByUsername:   item.CreatedByUsername,
			Files:               files,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *SubmissionHandler) fileURL(w http.ResponseWriter, r *http.Request) {
	fileID, err := parsePathUUID(r, "fileID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	url, err := h.submissions.FileDownloadURL(r.Context(), fileID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

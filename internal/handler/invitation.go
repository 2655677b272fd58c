package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"taskgame_service/internal/domain"
	"taskgame_service/internal/service"
)

type InvitationHandler struct {
	roleGraph *service.RoleGraphService
}

func NewInvitationHandler(roleGraph *service.RoleGraphService) *InvitationHandler {
	return &InvitationHandler{roleGraph: roleGraph}
}

func (h *InvitationHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/my", h.listMine)
		r.Get("/{invitationID}", h.get)
		r.Post("/{invitationID}/respond", h.respond)
	})
}

type invitationResponse struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	UserID      string     `json:"user_id"`
	Benefactor  string     `json:"benefactor_user_id"`
	Beneficiary string     `json:"beneficiary_user_id"`
	InvitedAt   time.Time  `json:"invited_at"`
	Status      string     `json:"status"`
	ResponseAt  *time.Time `json:"response_at,omitempty"`
}

func toInvitationResponse(invitation *domain.Invitation) *invitationResponse {
	return &invitationResponse{
		ID:          invitation.ID.String(),
		EventID:     invitation.EventID.String(),
		UserID:      invitation.UserID.String(),
		Benefactor:  invitation.BenefactorUserID.String(),
		Beneficiary: invitation.BeneficiaryUserID.String(),
		InvitedAt:   invitation.InvitedAt,
		Status:      string(invitation.Status),
		ResponseAt:  invitation.ResponseAt,
	}
}

func (h *InvitationHandler) listMine(w http.ResponseWriter, r *http.Request) {
	pendingOnly := r.URL.Query().Get("pending") == "true"

	invitations, err := h.roleGraph.ListMine(r.Context(), pendingOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]*invitationResponse, 0, len(invitations))
	for _, invitation := range invitations {
		resp = append(resp, toInvitationResponse(invitation))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *InvitationHandler) get(w http.ResponseWriter, r *http.Request) {
	invitationID, err := parsePathUUID(r, "invitationID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	invitation, err := h.roleGraph.Get(r.Context(), invitationID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toInvitationResponse(invitation))
}

type respondRequest struct {
	Accept bool `json:"accept"`
}

func (h *InvitationHandler) respond(w http.ResponseWriter, r *http.Request) {
	invitationID, err := parsePathUUID(r, "invitationID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req respondRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	invitation, err := h.roleGraph.Respond(r.Context(), invitationID, req.Accept)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toInvitationResponse(invitation))
}

package handler

import (
	"errors"
	"net/http"

	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/LOAD-13/boc-forms-backend/internal/response"
	"github.com/LOAD-13/boc-forms-backend/internal/service"
	"github.com/LOAD-13/boc-forms-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RespondHandler handles the respondent-facing flow: resolving a form,
// starting a response, autosaving and submitting.
type RespondHandler struct {
	formService       *service.FormService
	submissionService *service.SubmissionService
}

// NewRespondHandler creates a new RespondHandler.
func NewRespondHandler(formService *service.FormService, submissionService *service.SubmissionService) *RespondHandler {
	return &RespondHandler{
		formService:       formService,
		submissionService: submissionService,
	}
}

func failSubmissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrFormNotAvailable), errors.Is(err, service.ErrFormNotPublished):
		response.Fail(c, http.StatusConflict, response.ErrFormNotAvailable)
	case errors.Is(err, service.ErrLoginRequired):
		response.Fail(c, http.StatusUnauthorized, response.ErrLoginRequired)
	case errors.Is(err, service.ErrMultipleNotAllowed):
		response.Fail(c, http.StatusConflict, response.ErrMultipleNotAllowed)
	case errors.Is(err, service.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, service.ErrAssignmentExpired):
		response.Fail(c, http.StatusForbidden, response.ErrAssignmentExpired)
	case errors.Is(err, service.ErrNotYourResponse):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrRequiredUnanswered):
		response.Fail(c, http.StatusBadRequest, response.ErrRequiredUnanswered)
	case errors.Is(err, service.ErrNotFinished):
		response.Fail(c, http.StatusConflict, response.ErrResponseNotFinished)
	case errors.Is(err, service.ErrNotFormOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotFormOwner)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// optionalUserID returns the caller's id when a valid token was presented.
func optionalUserID(c *gin.Context) *uuid.UUID {
	if id, ok := claimsUserID(c); ok {
		return &id
	}
	return nil
}

// responseIDParam parses the :response_id path parameter.
func responseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("response_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// ResolveInvitation godoc
// GET /api/v1/respond/invitations/:token
// Maps a public invitation token to its form payload.
func (h *RespondHandler) ResolveInvitation(c *gin.Context) {
	token := c.Param("token")
	inv, err := h.formService.ResolveInvitation(c.Request.Context(), token)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrInvalidInvitation)
		return
	}

	payload, err := h.formService.GetFormPayload(c.Request.Context(), inv.FormID)
	if err != nil {
		failSubmissionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"form": payload, "invitation_id": inv.ID})
}

// GetFormPayload godoc
// GET /api/v1/respond/forms/:form_id
// Serves the cached respondent payload. Never contains correct answers.
func (h *RespondHandler) GetFormPayload(c *gin.Context) {
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	payload, err := h.formService.GetFormPayload(c.Request.Context(), formID)
	if err != nil {
		failSubmissionError(c, err)
		return
	}

	if payload.RequiresLogin && optionalUserID(c) == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrLoginRequired)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"form": payload})
}

// StartResponse godoc
// POST /api/v1/respond/forms/:form_id/start
// Opens (or resumes) a response on a published form.
func (h *RespondHandler) StartResponse(c *gin.Context) {
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	var req model.StartRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	var invitationID *uuid.UUID
	if req.InvitationToken != "" {
		inv, err := h.formService.ResolveInvitation(c.Request.Context(), req.InvitationToken)
		if err != nil || inv.FormID != formID {
			response.Fail(c, http.StatusNotFound, response.ErrInvalidInvitation)
			return
		}
		invitationID = &inv.ID
	}

	resp, err := h.submissionService.Start(c.Request.Context(), formID, optionalUserID(c), invitationID)
	if err != nil {
		failSubmissionError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"response": resp})
}

// Autosave godoc
// PUT /api/v1/respond/responses/:response_id/answers
// Saves one in-progress answer. Redis-only on the request path.
func (h *RespondHandler) Autosave(c *gin.Context) {
	responseID, ok := responseIDParam(c)
	if !ok {
		return
	}

	var req model.AutosaveRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.submissionService.Autosave(c.Request.Context(), responseID, optionalUserID(c), &req); err != nil {
		failSubmissionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "saved"})
}

// GetState godoc
// GET /api/v1/respond/responses/:response_id/state
// Returns autosaved answers and the start time for resuming.
func (h *RespondHandler) GetState(c *gin.Context) {
	responseID, ok := responseIDParam(c)
	if !ok {
		return
	}

	state, err := h.submissionService.GetState(c.Request.Context(), responseID, optionalUserID(c))
	if err != nil {
		failSubmissionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"state": state})
}

// Submit godoc
// POST /api/v1/respond/responses/:response_id/submit
// Grades the submitted answers and closes the response. At most one
// submit per response ever succeeds.
func (h *RespondHandler) Submit(c *gin.Context) {
	responseID, ok := responseIDParam(c)
	if !ok {
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	eval, err := h.submissionService.Submit(c.Request.Context(), responseID, optionalUserID(c), &req)
	if err != nil {
		failSubmissionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"evaluation": eval})
}

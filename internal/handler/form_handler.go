package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/LOAD-13/boc-forms-backend/internal/response"
	"github.com/LOAD-13/boc-forms-backend/internal/service"
	"github.com/LOAD-13/boc-forms-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// FormHandler handles form management endpoints.
type FormHandler struct {
	formService *service.FormService
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(formService *service.FormService) *FormHandler {
	return &FormHandler{formService: formService}
}

// failFormError maps form service errors onto the response envelope.
func failFormError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotFormOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotFormOwner)
	case errors.Is(err, service.ErrFormNotDraft):
		response.Fail(c, http.StatusConflict, response.ErrFormNotDraft)
	case errors.Is(err, service.ErrFormNotPublished):
		response.Fail(c, http.StatusConflict, response.ErrFormNotPublished)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusBadRequest, response.ErrNoQuestions)
	case errors.Is(err, service.ErrQuestionsLocked):
		response.Fail(c, http.StatusConflict, response.ErrQuestionsLocked)
	case errors.Is(err, service.ErrUnknownQuestionType),
		errors.Is(err, service.ErrOptionsRequired),
		errors.Is(err, service.ErrCorrectRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// formIDParam parses the :form_id path parameter.
func formIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("form_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// ListForms godoc
// GET /api/v1/admin/forms
// Lists the caller's forms with pagination and optional ?status filter.
func (h *FormHandler) ListForms(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	var status *model.FormStatus
	if raw := c.Query("status"); raw != "" {
		st := model.FormStatus(raw)
		status = &st
	}

	forms, pagination, err := h.formService.ListByOwner(c.Request.Context(), ownerID, status, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"forms": forms}, pagination)
}

// CreateForm godoc
// POST /api/v1/admin/forms
// Creates a new draft form.
func (h *FormHandler) CreateForm(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.CreateFormRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	form, err := h.formService.Create(c.Request.Context(), ownerID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"form": form})
}

// GetForm godoc
// GET /api/v1/admin/forms/:form_id
func (h *FormHandler) GetForm(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	form, err := h.formService.GetOwned(c.Request.Context(), formID, ownerID)
	if err != nil {
		failFormError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"form": form})
}

// UpdateForm godoc
// PATCH /api/v1/admin/forms/:form_id
func (h *FormHandler) UpdateForm(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	var req model.UpdateFormRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	form, err := h.formService.Update(c.Request.Context(), formID, ownerID, &req)
	if err != nil {
		failFormError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"form": form})
}

// DeleteForm godoc
// DELETE /api/v1/admin/forms/:form_id
// Deletes a DRAFT form.
func (h *FormHandler) DeleteForm(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	if err := h.formService.Delete(c.Request.Context(), formID, ownerID); err != nil {
		failFormError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// PublishForm godoc
// POST /api/v1/admin/forms/:form_id/publish
// Publishes a form: caches the respondent payload to Redis, changes status.
func (h *FormHandler) PublishForm(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	if err := h.formService.Publish(c.Request.Context(), formID, ownerID); err != nil {
		failFormError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "form published successfully"})
}

// ArchiveForm godoc
// POST /api/v1/admin/forms/:form_id/archive
func (h *FormHandler) ArchiveForm(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	if err := h.formService.Archive(c.Request.Context(), formID, ownerID); err != nil {
		failFormError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "form archived successfully"})
}

// CloneForm godoc
// POST /api/v1/admin/forms/:form_id/clone
// Copies the form and its questions into a fresh DRAFT.
func (h *FormHandler) CloneForm(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	clone, err := h.formService.Clone(c.Request.Context(), formID, ownerID)
	if err != nil {
		failFormError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"form": clone})
}

// GetQuestions godoc
// GET /api/v1/admin/forms/:form_id/questions
// Returns the full question set including correctness flags.
func (h *FormHandler) GetQuestions(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	questions, err := h.formService.GetQuestions(c.Request.Context(), formID, ownerID)
	if err != nil {
		failFormError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// ReplaceQuestions godoc
// PUT /api/v1/admin/forms/:form_id/questions
// Replaces the form's entire question set in one transaction.
func (h *FormHandler) ReplaceQuestions(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	var req model.ReplaceQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions, err := h.formService.ReplaceQuestions(c.Request.Context(), formID, ownerID, &req)
	if err != nil {
		failFormError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// CreateInvitation godoc
// POST /api/v1/admin/forms/:form_id/invitations
func (h *FormHandler) CreateInvitation(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	inv, err := h.formService.CreateInvitation(c.Request.Context(), formID, ownerID)
	if err != nil {
		failFormError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"invitation": inv})
}

// ListInvitations godoc
// GET /api/v1/admin/forms/:form_id/invitations
func (h *FormHandler) ListInvitations(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	invitations, err := h.formService.ListInvitations(c.Request.Context(), formID, ownerID)
	if err != nil {
		failFormError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"invitations": invitations})
}

// RevokeInvitation godoc
// DELETE /api/v1/admin/forms/:form_id/invitations/:invitation_id
func (h *FormHandler) RevokeInvitation(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}
	invitationID, err := uuid.Parse(c.Param("invitation_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.formService.RevokeInvitation(c.Request.Context(), formID, ownerID, invitationID); err != nil {
		failFormError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

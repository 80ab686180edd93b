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

// AssignmentHandler handles form assignment endpoints.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

func failAssignmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotFormOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotFormOwner)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// AssignUsers godoc
// POST /api/v1/admin/forms/:form_id/assignments
// Bulk-assigns the form to users; duplicates are skipped silently.
func (h *AssignmentHandler) AssignUsers(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	var req model.AssignUsersRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	created, err := h.assignmentService.Assign(c.Request.Context(), formID, ownerID, &req)
	if err != nil {
		failAssignmentError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"assigned": created})
}

// ListAssignments godoc
// GET /api/v1/admin/forms/:form_id/assignments
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentService.ListByForm(c.Request.Context(), formID, ownerID)
	if err != nil {
		failAssignmentError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignments": assignments})
}

// RemoveAssignment godoc
// DELETE /api/v1/admin/forms/:form_id/assignments/:user_id
func (h *AssignmentHandler) RemoveAssignment(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.assignmentService.Remove(c.Request.Context(), formID, ownerID, userID); err != nil {
		failAssignmentError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// MyAssignments godoc
// GET /api/v1/assignments
// Returns the caller's pending tasks with form titles.
func (h *AssignmentHandler) MyAssignments(c *gin.Context) {
	userID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	tasks, err := h.assignmentService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignments": tasks})
}

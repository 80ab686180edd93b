package handler

import (
	"net/http"
	"strconv"

	"github.com/LOAD-13/boc-forms-backend/internal/repository"
	"github.com/LOAD-13/boc-forms-backend/internal/response"
	"github.com/LOAD-13/boc-forms-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ResultsHandler handles owner-facing results and review endpoints.
type ResultsHandler struct {
	submissionService *service.SubmissionService
}

// NewResultsHandler creates a new ResultsHandler.
func NewResultsHandler(submissionService *service.SubmissionService) *ResultsHandler {
	return &ResultsHandler{submissionService: submissionService}
}

// ListResults godoc
// GET /api/v1/admin/forms/:form_id/results
// Paginated response listing with scores, finished first.
func (h *ResultsHandler) ListResults(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	formID, ok := formIDParam(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	results, pagination, err := h.submissionService.ListResults(c.Request.Context(), formID, ownerID, page, perPage)
	if err != nil {
		failSubmissionError(c, err)
		return
	}
	if results == nil {
		results = []repository.FormResult{}
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"results": results}, pagination)
}

// ReviewResponse godoc
// GET /api/v1/admin/responses/:response_id/review
// Full review of one finished response: stored details, correctness,
// and the evaluation summary.
func (h *ResultsHandler) ReviewResponse(c *gin.Context) {
	ownerID, ok := claimsUserID(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	responseID, ok := responseIDParam(c)
	if !ok {
		return
	}

	resp, details, eval, err := h.submissionService.Review(c.Request.Context(), responseID, ownerID)
	if err != nil {
		failSubmissionError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"response":   resp,
		"details":    details,
		"evaluation": eval,
	})
}

package service

import (
	"context"

	"github.com/LOAD-13/boc-forms-backend/internal/model"
	"github.com/LOAD-13/boc-forms-backend/internal/repository"
	"github.com/google/uuid"
)

// DashboardSummary aggregates an owner's metrics for the admin landing page.
type DashboardSummary struct {
	TotalForms       int                                    `json:"total_forms"`
	TotalQuestions   int                                    `json:"total_questions"`
	TotalResponses   int                                    `json:"total_responses"`
	TotalAssignments int                                    `json:"total_assignments"`
	StatusCounts     map[model.FormStatus]int               `json:"status_counts"`
	RecentResults    []repository.DashboardRecentFormResult `json:"recent_results"`
}

// DashboardService handles admin dashboard aggregation.
type DashboardService struct {
	dashboardRepo *repository.DashboardRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(dashboardRepo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// GetSummary assembles the dashboard payload for one owner.
func (s *DashboardService) GetSummary(ctx context.Context, ownerID uuid.UUID) (*DashboardSummary, error) {
	totalForms, totalQuestions, totalResponses, totalAssignments, err := s.dashboardRepo.GetSummaryCounts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	statusCounts, err := s.dashboardRepo.GetFormStatusCounts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	recent, err := s.dashboardRepo.GetRecentFormResults(ctx, ownerID, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		TotalForms:       totalForms,
		TotalQuestions:   totalQuestions,
		TotalResponses:   totalResponses,
		TotalAssignments: totalAssignments,
		StatusCounts:     statusCounts,
		RecentResults:    recent,
	}, nil
}

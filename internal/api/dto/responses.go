package dto

import (
	"time"

	"github.com/eshaffer321/ledgerclean/internal/application/clean"
	"github.com/eshaffer321/ledgerclean/internal/application/review"
	"github.com/eshaffer321/ledgerclean/internal/domain/dedupe"
	"github.com/eshaffer321/ledgerclean/internal/infrastructure/runstore"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Runs      int    `json:"runs"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ReviewState is the restore/undo state of a run.
type ReviewState struct {
	Restored []int `json:"restored"`
	CanUndo  bool  `json:"can_undo"`
	CanRedo  bool  `json:"can_redo"`
}

// RunResponse summarizes one cleaning run.
type RunResponse struct {
	ID         string        `json:"id"`
	SourceName string        `json:"source_name"`
	Encoding   string        `json:"encoding"`
	Format     string        `json:"format"`
	CreatedAt  string        `json:"created_at"`
	Options    clean.Options `json:"options"`
	Info       clean.Info    `json:"info"`
	Review     ReviewState   `json:"review"`
}

// RunDetailResponse is a run summary plus its duplicate groups.
type RunDetailResponse struct {
	RunResponse
	Groups []dedupe.Group `json:"groups"`
}

// RunListResponse is returned when listing runs.
type RunListResponse struct {
	Runs  []RunResponse `json:"runs"`
	Count int           `json:"count"`
}

// GroupsResponse is returned by the filtered groups endpoint.
type GroupsResponse struct {
	review.FilteredGroups
	Review ReviewState `json:"review"`
}

// NewReviewState reads the current review state of a session.
func NewReviewState(s *review.Session) ReviewState {
	return ReviewState{
		Restored: s.Restored(),
		CanUndo:  s.CanUndo(),
		CanRedo:  s.CanRedo(),
	}
}

// NewRunResponse converts a stored run to its API summary. Info reflects
// restored rows.
func NewRunResponse(run *runstore.Run) RunResponse {
	return RunResponse{
		ID:         run.ID,
		SourceName: run.SourceName,
		Encoding:   run.Encoding,
		Format:     run.Format,
		CreatedAt:  run.CreatedAt.UTC().Format(time.RFC3339),
		Options:    run.Result.Options,
		Info:       run.Session.Info(),
		Review:     NewReviewState(run.Session),
	}
}

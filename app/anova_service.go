package app

import (
	"context"

	"goanova/domain/dataset"
	"goanova/domain/design"
	"goanova/internal"
	"goanova/internal/analysis/anova"
	apperrors "goanova/internal/errors"
	"goanova/models"
	"goanova/ports"
)

// AnalysisRequest names the columns of a data frame to analyze and how to
// interpret each factor.
type AnalysisRequest struct {
	Source       string   `json:"source"`
	Response     string   `json:"response"`
	Factors      []string `json:"factors"`
	Kinds        []string `json:"kinds,omitempty"`
	Names        []string `json:"names,omitempty"`
	NoReplicates bool     `json:"no_replicates,omitempty"`
}

// AnovaService runs analyses against tabular data and optionally persists
// the resulting runs.
type AnovaService struct {
	runs   ports.RunRepository // nil disables persistence
	logger *internal.Logger
}

// NewAnovaService creates an analysis service. A nil repository disables
// run persistence.
func NewAnovaService(runs ports.RunRepository) *AnovaService {
	return &AnovaService{
		runs:   runs,
		logger: internal.NewDefaultLogger("AnovaService"),
	}
}

// AnalyzeFrame projects the requested columns out of a frame, runs the
// analysis, and records the run when persistence is configured.
func (s *AnovaService) AnalyzeFrame(ctx context.Context, frame *dataset.Frame, req AnalysisRequest) (*models.Run, error) {
	if req.Response == "" {
		return nil, apperrors.InvalidInput("response column is required")
	}
	if len(req.Factors) == 0 {
		return nil, apperrors.InvalidInput("at least one factor column is required")
	}

	obs, assignments, err := frame.Project(req.Response, req.Factors)
	if err != nil {
		return nil, err
	}

	kinds, err := parseKinds(req.Kinds)
	if err != nil {
		return nil, err
	}

	names := req.Names
	if len(names) == 0 {
		names = req.Factors
	}

	table, err := anova.AnovaObservations(obs, assignments, anova.Options{
		Kinds:        kinds,
		Names:        names,
		NoReplicates: req.NoReplicates,
	})
	if err != nil {
		return nil, err
	}

	run := models.NewRun(req.Source, req.Response, req.Factors, table)
	s.logger.Info("analyzed %s by %v: %d effects", req.Response, req.Factors, len(run.Effects))

	if s.runs != nil {
		if err := s.runs.Create(ctx, run); err != nil {
			return nil, err
		}
		s.logger.Debug("persisted run %s", run.ID)
	}
	return run, nil
}

// GetRun loads a persisted run by ID.
func (s *AnovaService) GetRun(ctx context.Context, id string) (*models.Run, error) {
	if s.runs == nil {
		return nil, apperrors.New(apperrors.CodeConfigInvalid, "run persistence is not configured")
	}
	return s.runs.GetByID(ctx, id)
}

// ListRuns returns the most recent persisted runs.
func (s *AnovaService) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	if s.runs == nil {
		return nil, apperrors.New(apperrors.CodeConfigInvalid, "run persistence is not configured")
	}
	return s.runs.List(ctx, limit)
}

func parseKinds(raw []string) ([]design.FactorKind, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	kinds := make([]design.FactorKind, len(raw))
	for i, s := range raw {
		k, err := design.ParseKind(s)
		if err != nil {
			return nil, err
		}
		kinds[i] = k
	}
	return kinds, nil
}

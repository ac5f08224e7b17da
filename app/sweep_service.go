package app

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"goanova/domain/dataset"
	"goanova/internal"
	apperrors "goanova/internal/errors"
	"goanova/models"
)

// SweepRequest analyzes several response columns against the same factor
// layout in one pass.
type SweepRequest struct {
	Source       string   `json:"source"`
	Responses    []string `json:"responses"`
	Factors      []string `json:"factors"`
	Kinds        []string `json:"kinds,omitempty"`
	NoReplicates bool     `json:"no_replicates,omitempty"`
}

// SweepOutcome is the per-response result of a sweep. Exactly one of Run
// and Err is set.
type SweepOutcome struct {
	Response string      `json:"response"`
	Run      *models.Run `json:"run,omitempty"`
	Err      string      `json:"error,omitempty"`
}

// SweepService fans an analysis out over many response columns with bounded
// concurrency.
type SweepService struct {
	anova  *AnovaService
	sem    *semaphore.Weighted
	logger *internal.Logger
}

// NewSweepService creates a sweep service running at most maxConcurrent
// analyses at a time.
func NewSweepService(anovaService *AnovaService, maxConcurrent int64) *SweepService {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &SweepService{
		anova:  anovaService,
		sem:    semaphore.NewWeighted(maxConcurrent),
		logger: internal.NewDefaultLogger("SweepService"),
	}
}

// Sweep runs one analysis per response column. Failures of individual
// responses are reported in their outcome rather than aborting the sweep.
func (s *SweepService) Sweep(ctx context.Context, frame *dataset.Frame, req SweepRequest) ([]SweepOutcome, error) {
	if len(req.Responses) == 0 {
		return nil, apperrors.InvalidInput("at least one response column is required")
	}

	s.logger.Info("sweeping %d responses by %v", len(req.Responses), req.Factors)

	outcomes := make([]SweepOutcome, len(req.Responses))
	var wg sync.WaitGroup
	for i, response := range req.Responses {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		wg.Add(1)
		go func(i int, response string) {
			defer wg.Done()
			defer s.sem.Release(1)

			run, err := s.anova.AnalyzeFrame(ctx, frame, AnalysisRequest{
				Source:       req.Source,
				Response:     response,
				Factors:      req.Factors,
				Kinds:        req.Kinds,
				NoReplicates: req.NoReplicates,
			})
			if err != nil {
				outcomes[i] = SweepOutcome{Response: response, Err: err.Error()}
				return
			}
			outcomes[i] = SweepOutcome{Response: response, Run: run}
		}(i, response)
	}
	wg.Wait()
	return outcomes, nil
}

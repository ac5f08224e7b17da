package app

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goanova/domain/dataset"
	apperrors "goanova/internal/errors"
	"goanova/models"
)

type memoryRunRepository struct {
	mu   sync.Mutex
	runs map[string]*models.Run
}

func newMemoryRunRepository() *memoryRunRepository {
	return &memoryRunRepository{runs: make(map[string]*models.Run)}
}

func (r *memoryRunRepository) EnsureSchema(ctx context.Context) error { return nil }

func (r *memoryRunRepository) Create(ctx context.Context, run *models.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
	return nil
}

func (r *memoryRunRepository) GetByID(ctx context.Context, id string) (*models.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, apperrors.NotFound("run")
	}
	return run, nil
}

func (r *memoryRunRepository) List(ctx context.Context, limit int) ([]*models.Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Run
	for _, run := range r.runs {
		out = append(out, run)
	}
	return out, nil
}

func yieldFrame() *dataset.Frame {
	return &dataset.Frame{
		Headers: []string{"Yield", "Purity", "Treatment"},
		Rows: [][]string{
			{"1", "2", "low"},
			{"3", "4", "low"},
			{"5", "3", "high"},
			{"7", "5", "high"},
		},
	}
}

func TestAnalyzeFramePersistsRun(t *testing.T) {
	repo := newMemoryRunRepository()
	svc := NewAnovaService(repo)

	run, err := svc.AnalyzeFrame(context.Background(), yieldFrame(), AnalysisRequest{
		Source:   "yield.csv",
		Response: "Yield",
		Factors:  []string{"Treatment"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Yield", run.Response)
	assert.Equal(t, []string{"Treatment"}, run.FactorNames())

	labels := make([]string, len(run.Effects))
	for i, e := range run.Effects {
		labels[i] = e.Name
	}
	assert.Equal(t, []string{"Total", "Treatment", "Error"}, labels)

	stored, err := svc.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, stored.ID)
}

func TestAnalyzeFrameWithoutRepository(t *testing.T) {
	svc := NewAnovaService(nil)

	run, err := svc.AnalyzeFrame(context.Background(), yieldFrame(), AnalysisRequest{
		Source:   "yield.csv",
		Response: "Yield",
		Factors:  []string{"Treatment"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)

	_, err = svc.GetRun(context.Background(), run.ID)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
}

func TestAnalyzeFrameValidation(t *testing.T) {
	svc := NewAnovaService(nil)

	_, err := svc.AnalyzeFrame(context.Background(), yieldFrame(), AnalysisRequest{
		Factors: []string{"Treatment"},
	})
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))

	_, err = svc.AnalyzeFrame(context.Background(), yieldFrame(), AnalysisRequest{
		Response: "Yield",
	})
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))

	_, err = svc.AnalyzeFrame(context.Background(), yieldFrame(), AnalysisRequest{
		Response: "Yield",
		Factors:  []string{"Treatment"},
		Kinds:    []string{"bogus"},
	})
	assert.Error(t, err)
}

func TestSweepRunsAllResponses(t *testing.T) {
	svc := NewSweepService(NewAnovaService(nil), 2)

	outcomes, err := svc.Sweep(context.Background(), yieldFrame(), SweepRequest{
		Source:    "yield.csv",
		Responses: []string{"Yield", "Purity", "Missing"},
		Factors:   []string{"Treatment"},
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	assert.Equal(t, "Yield", outcomes[0].Response)
	require.NotNil(t, outcomes[0].Run)
	assert.NotNil(t, outcomes[1].Run)

	assert.Nil(t, outcomes[2].Run)
	assert.NotEmpty(t, outcomes[2].Err)
}

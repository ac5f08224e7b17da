package ports

import (
	"context"

	"goanova/models"
)

// RunRepository persists completed analysis runs and their effect rows.
type RunRepository interface {
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, run *models.Run) error
	GetByID(ctx context.Context, id string) (*models.Run, error)
	List(ctx context.Context, limit int) ([]*models.Run, error)
}

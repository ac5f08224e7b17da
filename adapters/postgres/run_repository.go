package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	apperrors "goanova/internal/errors"
	"goanova/models"
	"goanova/ports"
)

// Connect opens a postgres connection pool and verifies it with a ping.
func Connect(ctx context.Context, url string, maxOpenConns int) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, dbError(err, "failed to open database")
	}
	db.SetMaxOpenConns(maxOpenConns)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, dbError(err, "failed to ping database")
	}
	return db, nil
}

func dbError(err error, message string) error {
	return &apperrors.AppError{Code: apperrors.CodeDatabaseError, Message: message, Cause: err}
}

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new analysis run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS anova_runs (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	response TEXT NOT NULL,
	factors TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS anova_effects (
	run_id TEXT NOT NULL REFERENCES anova_runs(id) ON DELETE CASCADE,
	position INT NOT NULL,
	name TEXT NOT NULL,
	ss DOUBLE PRECISION NOT NULL,
	df DOUBLE PRECISION NOT NULL,
	ms DOUBLE PRECISION,
	f DOUBLE PRECISION,
	p DOUBLE PRECISION,
	PRIMARY KEY (run_id, position)
);
`

// EnsureSchema creates the run tables if they do not exist
func (r *runRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return dbError(err, "failed to create schema")
	}
	return nil
}

// Create inserts a run and its effect rows in one transaction
func (r *runRepository) Create(ctx context.Context, run *models.Run) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return dbError(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO anova_runs (id, source, response, factors, created_at) VALUES ($1, $2, $3, $4, $5)`,
		run.ID, run.Source, run.Response, run.Factors, run.CreatedAt,
	)
	if err != nil {
		return dbError(err, "failed to insert run")
	}

	for _, e := range run.Effects {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO anova_effects (run_id, position, name, ss, df, ms, f, p)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			run.ID, e.Position, e.Name, e.SS, e.DF, e.MS, e.F, e.P,
		)
		if err != nil {
			return dbError(err, "failed to insert effect row")
		}
	}

	if err := tx.Commit(); err != nil {
		return dbError(err, "failed to commit run")
	}
	return nil
}

// GetByID retrieves a run with its effect rows in table order
func (r *runRepository) GetByID(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	err := r.db.GetContext(ctx, &run,
		`SELECT id, source, response, factors, created_at FROM anova_runs WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("run not found: %s", id))
		}
		return nil, dbError(err, "failed to get run")
	}

	err = r.db.SelectContext(ctx, &run.Effects,
		`SELECT run_id, position, name, ss, df, ms, f, p
		 FROM anova_effects WHERE run_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, dbError(err, "failed to get effect rows")
	}
	return &run, nil
}

// List returns the most recent runs without their effect rows
func (r *runRepository) List(ctx context.Context, limit int) ([]*models.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []*models.Run
	err := r.db.SelectContext(ctx, &runs,
		`SELECT id, source, response, factors, created_at
		 FROM anova_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, dbError(err, "failed to list runs")
	}
	return runs, nil
}

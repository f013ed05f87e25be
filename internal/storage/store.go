package storage

import (
	"context"

	"aethelgard/internal/model"
)

// Store defines persistence operations for solver run records and their
// evolution histories.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
	ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error)
	LatestRun(ctx context.Context) (model.RunRecord, bool, error)
	SaveHistory(ctx context.Context, runID string, steps []model.StepSummary) error
	GetHistory(ctx context.Context, runID string) ([]model.StepSummary, bool, error)
}

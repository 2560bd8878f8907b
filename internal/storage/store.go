package storage

import (
	"context"

	"snnverify/internal/model"
)

// Store persists per-run, per-variant consensus results and validation
// outcomes.
type Store interface {
	Init(ctx context.Context) error
	SaveRunResult(ctx context.Context, result model.RunResult) error
	GetRunResult(ctx context.Context, runID, variant string) (model.RunResult, bool, error)
	ListRunResults(ctx context.Context, runID string) ([]model.RunResult, error)
	SaveValidation(ctx context.Context, record model.ValidationRecord) error
	GetValidation(ctx context.Context, runID, variant string) (model.ValidationRecord, bool, error)
}

package interfaces

import (
	"context"

	"github.com/ternarybob/optionsintel/internal/models"
)

// OrchestratorService is the top-level entry point: it fans out to the
// pattern store, the cached external intelligence path, and web research
// in parallel, then merges the branches into one unified report.
type OrchestratorService interface {
	// QueryMultiSource assembles a unified report for one symbol. Branch
	// failures and timeouts degrade confidence; they never surface as
	// request-level errors.
	QueryMultiSource(ctx context.Context, query models.MultiSourceQuery) (*models.MultiSourceResult, error)

	// BatchQueryMultiSource runs all queries concurrently and returns a
	// lookup keyed by symbol. Results are identical to calling
	// QueryMultiSource individually; one symbol's failure never affects
	// another's result.
	BatchQueryMultiSource(ctx context.Context, queries []models.MultiSourceQuery) (map[string]*models.MultiSourceResult, error)
}

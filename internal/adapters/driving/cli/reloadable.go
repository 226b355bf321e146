package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/lexdraft-cli/internal/core/domain"
	"github.com/custodia-labs/lexdraft-cli/internal/core/ports/driving"
)

// Ensure reloadableRetrieval implements the interface.
var _ driving.RetrievalService = (*reloadableRetrieval)(nil)

// reloadableRetrieval wraps the retrieval pipeline so the config watcher
// can swap in a rebuilt one when provider keys change on disk. Long-running
// commands keep a stable reference while the inner pipeline is replaced.
type reloadableRetrieval struct {
	mu    sync.RWMutex
	inner driving.RetrievalService
}

// Set replaces the wrapped pipeline.
func (r *reloadableRetrieval) Set(inner driving.RetrievalService) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inner = inner
}

// Retrieve delegates to the current pipeline.
func (r *reloadableRetrieval) Retrieve(
	ctx context.Context, query string, topN int, mode domain.SearchMode, countryHint string,
) ([]domain.RankedResult, error) {
	r.mu.RLock()
	inner := r.inner
	r.mu.RUnlock()

	if inner == nil {
		return nil, fmt.Errorf("retrieval: %w", domain.ErrSearchUnavailable)
	}
	return inner.Retrieve(ctx, query, topN, mode, countryHint)
}

// reloadRetrieval rebuilds the pipeline from the freshly loaded config.
// Used as the config watcher callback.
func reloadRetrieval() {
	svc, err := buildRetrieval()
	if err != nil {
		return
	}
	retrievalService.Set(svc)
}

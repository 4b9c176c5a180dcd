package recon

import (
	"context"
	"sync"
	"time"

	"github.com/reconkit/reconkit/internal/metrics"
)

// runInBatches invokes probe for every index from 0 to total-1 in
// consecutive batches of batchSize. Probes within a batch run concurrently;
// the next batch starts only after every probe of the current one has
// returned. Probes write into caller-owned slots keyed by index, so no
// result locking is needed. Remaining batches are skipped once ctx is done.
func runInBatches(ctx context.Context, kind string, total, batchSize int, probe func(ctx context.Context, idx int)) {
	if batchSize < 1 {
		batchSize = 1
	}
	for start := 0; start < total; start += batchSize {
		if ctx.Err() != nil {
			return
		}
		end := start + batchSize
		if end > total {
			end = total
		}
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				probeStart := time.Now()
				probe(ctx, idx)
				metrics.GetGlobalMetrics().RecordProbeDuration(kind, time.Since(probeStart))
			}(i)
		}
		wg.Wait()
		metrics.GetGlobalMetrics().IncrementBatches(kind)
	}
}

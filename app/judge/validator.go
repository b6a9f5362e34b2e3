package judge

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/novikoff/brandpulse/app/brand"
	"github.com/novikoff/brandpulse/app/ingest"
)

// Validator judges a batch of items with bounded concurrency. Each call
// is independent; one failed judgment never blocks the rest of the batch.
// The run-level timeout cuts off outstanding calls so ranking can proceed
// with whatever completed.
type Validator struct {
	provider    Provider
	concurrency int
	timeout     time.Duration
}

func NewValidator(provider Provider, concurrency int, timeout time.Duration) *Validator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Validator{
		provider:    provider,
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// Run judges all items for a brand and partitions them into pools.
// Partitioning preserves input order, which keeps downstream ranking
// tie-breaks reproducible.
func (v *Validator) Run(ctx context.Context, config *brand.Config, items []ingest.RawItem) Pools {
	if len(items) == 0 {
		return Pools{}
	}

	runCtx := ctx
	if v.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	judgments := make([]Judgment, len(items))

	g := new(errgroup.Group)
	g.SetLimit(v.concurrency)
	for i, item := range items {
		g.Go(func() error {
			if runCtx.Err() != nil {
				judgments[i] = Fallback("judgment cancelled: run timeout exceeded")
				return nil
			}
			judgments[i] = v.provider.Judge(runCtx, item, config)
			return nil
		})
	}
	g.Wait()

	var pools Pools
	for i, item := range items {
		judged := JudgedItem{Item: item, Judgment: judgments[i]}
		switch judgments[i].Relevance {
		case RelevanceYes:
			pools.Relevant = append(pools.Relevant, judged)
		case RelevanceNo:
			pools.Irrelevant = append(pools.Irrelevant, judged)
		default:
			pools.Errors = append(pools.Errors, judged)
		}
	}

	slog.Info("Judgment completed",
		"brand", config.Name,
		"total", len(items),
		"relevant", len(pools.Relevant),
		"irrelevant", len(pools.Irrelevant),
		"errors", len(pools.Errors))

	return pools
}

package ingest

import (
	"context"
	"log/slog"

	"github.com/novikoff/brandpulse/app/brand"
)

// Orchestrator drives the configured source adapters across sub-sources,
// strategies and matching phases, applying the relevance filter and the
// deduplicator, and capping per-brand totals. A single unreachable
// sub-source never aborts ingestion for the others.
type Orchestrator struct {
	adapters []Adapter
}

func NewOrchestrator(adapters ...Adapter) *Orchestrator {
	return &Orchestrator{adapters: adapters}
}

// Ingest collects raw items for each brand. Item ordering within a brand
// is not significant; ranking establishes order later.
func (o *Orchestrator) Ingest(ctx context.Context, configs []*brand.Config) map[string][]RawItem {
	dedup := NewDeduplicator()

	results := make(map[string][]RawItem, len(configs))
	for _, config := range configs {
		results[config.Name] = o.ingestBrand(ctx, config, dedup)
	}
	return results
}

// IngestBrand collects raw items for a single brand with a fresh
// deduplication scope.
func (o *Orchestrator) IngestBrand(ctx context.Context, config *brand.Config) []RawItem {
	return o.ingestBrand(ctx, config, NewDeduplicator())
}

func (o *Orchestrator) ingestBrand(ctx context.Context, config *brand.Config, dedup *Deduplicator) []RawItem {
	matcher := NewMatcher(config)
	limit := config.Settings.Limit
	cutoff := config.Cutoff()

	var items []RawItem

	for _, phase := range matcher.Phases(config) {
		if len(items) >= limit {
			break
		}

		slog.Debug("Ingestion phase started", "brand", config.Name, "phase", phase.String(), "collected", len(items))

		for _, adapter := range o.adapters {
			if len(items) >= limit {
				break
			}

			for _, req := range adapter.Requests(config) {
				if len(items) >= limit {
					break
				}
				if ctx.Err() != nil {
					slog.Warn("Ingestion cancelled", "brand", config.Name, "error", ctx.Err())
					return items
				}

				for _, item := range adapter.Fetch(ctx, req) {
					if len(items) >= limit {
						break
					}
					if item.CreatedAt.Before(cutoff) {
						continue
					}
					if !matcher.Match(item.Text, phase) {
						continue
					}
					// Admit last: a phase-1 rejection must stay
					// eligible for phase 2.
					if !dedup.Admit(config.Name, item.QualifiedID()) {
						continue
					}
					items = append(items, item)
				}
			}
		}
	}

	slog.Info("Ingestion completed", "brand", config.Name, "items", len(items), "limit", limit)

	return items
}

package domain

import (
	"context"
	"time"
)

// UpsertPolicy decides what an append does when a row already exists for
// the same natural key. One policy is configured for the whole store so
// the behavior is consistent across every series.
type UpsertPolicy string

const (
	// UpsertReplace silently replaces the prior row (insert-or-replace).
	UpsertReplace UpsertPolicy = "replace"
	// UpsertReject fails the append with a DuplicateError.
	UpsertReject UpsertPolicy = "reject"
)

func (p UpsertPolicy) IsValid() bool {
	return p == UpsertReplace || p == UpsertReject
}

// AssetRepository is the canonical reference table of instruments.
type AssetRepository interface {
	// Upsert inserts or replaces the full snapshot keyed by symbol.
	Upsert(ctx context.Context, a *Asset) error
	// Deactivate soft-deletes without removing history.
	Deactivate(ctx context.Context, symbol string) error
	Get(ctx context.Context, symbol string) (*Asset, error)
	// ListActive returns active assets ordered by market capitalization
	// descending, nulls last.
	ListActive(ctx context.Context) ([]Asset, error)
	// Delete hard-deletes the asset and cascades over every dependent
	// time-series row in a single transaction.
	Delete(ctx context.Context, symbol string) error
}

// TimeSeriesRepository is the generic contract every date-indexed,
// symbol-scoped observation table satisfies. A zero from/to bound leaves
// that side of the range open.
type TimeSeriesRepository[T any] interface {
	Append(ctx context.Context, obs *T) error
	RangeQuery(ctx context.Context, symbol string, from, to time.Time) ([]T, error)
	// Latest returns the observation with the maximum date, breaking
	// ties toward the most recently inserted row.
	Latest(ctx context.Context, symbol string) (*T, error)
}

// IndicatorRepository has the TimeSeriesRepository shape but is keyed by
// indicator name and carries no asset reference.
type IndicatorRepository interface {
	Append(ctx context.Context, obs *EconomicIndicator) error
	RangeQuery(ctx context.Context, name string, from, to time.Time) ([]EconomicIndicator, error)
	Latest(ctx context.Context, name string) (*EconomicIndicator, error)
}

// SectorPerformanceRepository stores per-sector aggregate observations.
type SectorPerformanceRepository interface {
	Append(ctx context.Context, obs *SectorPerformance) error
	RangeQuery(ctx context.Context, sector string, from, to time.Time) ([]SectorPerformance, error)
}

// AnalyticsRepository serves the read-only derived views. Every call
// recomputes from current base rows; nothing is materialized.
type AnalyticsRepository interface {
	AssetOverview(ctx context.Context) ([]AssetOverview, error)
	LatestPrices(ctx context.Context) ([]LatestAssetPrice, error)
	SectorAnalysis(ctx context.Context) ([]SectorStats, error)
}

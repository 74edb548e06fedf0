package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finmarkets/marketstore/internal/domain"
)

// IngestService is the write boundary. External collectors hand it
// fully-typed records; it validates them and forwards to the
// repositories. Malformed enumerations and out-of-range values are
// rejected here, before any row is touched.
type IngestService struct {
	assets     domain.AssetRepository
	prices     domain.TimeSeriesRepository[domain.DailyPrice]
	indices    domain.TimeSeriesRepository[domain.MarketIndex]
	volatility domain.TimeSeriesRepository[domain.VolatilityObservation]
	indicators domain.IndicatorRepository
	sectors    domain.SectorPerformanceRepository
}

func NewIngestService(
	assets domain.AssetRepository,
	prices domain.TimeSeriesRepository[domain.DailyPrice],
	indices domain.TimeSeriesRepository[domain.MarketIndex],
	volatility domain.TimeSeriesRepository[domain.VolatilityObservation],
	indicators domain.IndicatorRepository,
	sectors domain.SectorPerformanceRepository,
) *IngestService {
	return &IngestService{
		assets:     assets,
		prices:     prices,
		indices:    indices,
		volatility: volatility,
		indicators: indicators,
		sectors:    sectors,
	}
}

// UpsertAsset registers an instrument or replaces the full snapshot of
// an existing one.
func (s *IngestService) UpsertAsset(ctx context.Context, a *domain.Asset) error {
	a.Normalize()
	if err := a.Validate(); err != nil {
		return err
	}
	if err := s.assets.Upsert(ctx, a); err != nil {
		return fmt.Errorf("failed to upsert asset: %w", err)
	}
	return nil
}

// DeactivateAsset soft-deletes: history stays, the asset drops out of
// the active views.
func (s *IngestService) DeactivateAsset(ctx context.Context, symbol string) error {
	return s.assets.Deactivate(ctx, symbol)
}

// DeleteAsset hard-deletes the asset and all of its price, index and
// volatility history in one transaction.
func (s *IngestService) DeleteAsset(ctx context.Context, symbol string) error {
	if err := s.assets.Delete(ctx, symbol); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Deleted asset with cascade", "symbol", domain.NormalizeSymbol(symbol))
	return nil
}

func (s *IngestService) AppendDailyPrice(ctx context.Context, p *domain.DailyPrice) error {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	return s.prices.Append(ctx, p)
}

func (s *IngestService) AppendMarketIndex(ctx context.Context, m *domain.MarketIndex) error {
	m.Normalize()
	if err := m.Validate(); err != nil {
		return err
	}
	return s.indices.Append(ctx, m)
}

func (s *IngestService) AppendVolatility(ctx context.Context, v *domain.VolatilityObservation) error {
	v.Normalize()
	if err := v.Validate(); err != nil {
		return err
	}
	return s.volatility.Append(ctx, v)
}

func (s *IngestService) AppendIndicator(ctx context.Context, i *domain.EconomicIndicator) error {
	i.Normalize()
	if err := i.Validate(); err != nil {
		return err
	}
	return s.indicators.Append(ctx, i)
}

func (s *IngestService) AppendSectorPerformance(ctx context.Context, sp *domain.SectorPerformance) error {
	sp.Normalize()
	if err := sp.Validate(); err != nil {
		return err
	}
	return s.sectors.Append(ctx, sp)
}

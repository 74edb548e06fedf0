package application

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/finmarkets/marketstore/internal/domain"
)

// AnalyticsService is the read boundary: the four derived views plus
// raw range and latest queries over the stored series. Nothing here
// writes; every result reflects the base tables at query time.
type AnalyticsService struct {
	assets     domain.AssetRepository
	prices     domain.TimeSeriesRepository[domain.DailyPrice]
	indices    domain.TimeSeriesRepository[domain.MarketIndex]
	volatility domain.TimeSeriesRepository[domain.VolatilityObservation]
	indicators domain.IndicatorRepository
	sectors    domain.SectorPerformanceRepository
	analytics  domain.AnalyticsRepository
}

func NewAnalyticsService(
	assets domain.AssetRepository,
	prices domain.TimeSeriesRepository[domain.DailyPrice],
	indices domain.TimeSeriesRepository[domain.MarketIndex],
	volatility domain.TimeSeriesRepository[domain.VolatilityObservation],
	indicators domain.IndicatorRepository,
	sectors domain.SectorPerformanceRepository,
	analytics domain.AnalyticsRepository,
) *AnalyticsService {
	return &AnalyticsService{
		assets:     assets,
		prices:     prices,
		indices:    indices,
		volatility: volatility,
		indicators: indicators,
		sectors:    sectors,
		analytics:  analytics,
	}
}

func (s *AnalyticsService) GetAsset(ctx context.Context, symbol string) (*domain.Asset, error) {
	return s.assets.Get(ctx, symbol)
}

func (s *AnalyticsService) ListActiveAssets(ctx context.Context) ([]domain.Asset, error) {
	return s.assets.ListActive(ctx)
}

func (s *AnalyticsService) GetAssetOverview(ctx context.Context) ([]domain.AssetOverview, error) {
	return s.analytics.AssetOverview(ctx)
}

func (s *AnalyticsService) GetLatestPrices(ctx context.Context) ([]domain.LatestAssetPrice, error) {
	return s.analytics.LatestPrices(ctx)
}

func (s *AnalyticsService) GetSectorAnalysis(ctx context.Context) ([]domain.SectorStats, error) {
	return s.analytics.SectorAnalysis(ctx)
}

// GetDailyReturns fetches the symbol's ordered price history once and
// returns the lag fold over it. The sequence is restartable: each range
// replays the same fetched rows. An empty history yields an empty
// sequence, not an error.
func (s *AnalyticsService) GetDailyReturns(ctx context.Context, symbol string, from, to time.Time) (iter.Seq2[domain.DailyReturn, error], error) {
	prices, err := s.prices.RangeQuery(ctx, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching price history for %s: %w", symbol, err)
	}
	return domain.ReturnSeries(prices), nil
}

// CollectDailyReturns materializes GetDailyReturns, halting on the
// first computation error.
func (s *AnalyticsService) CollectDailyReturns(ctx context.Context, symbol string, from, to time.Time) ([]domain.DailyReturn, error) {
	seq, err := s.GetDailyReturns(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}
	returns := []domain.DailyReturn{}
	for row, err := range seq {
		if err != nil {
			return nil, err
		}
		returns = append(returns, row)
	}
	return returns, nil
}

func (s *AnalyticsService) GetPriceRange(ctx context.Context, symbol string, from, to time.Time) ([]domain.DailyPrice, error) {
	return s.prices.RangeQuery(ctx, symbol, from, to)
}

func (s *AnalyticsService) GetLatestPrice(ctx context.Context, symbol string) (*domain.DailyPrice, error) {
	return s.prices.Latest(ctx, symbol)
}

func (s *AnalyticsService) GetIndexRange(ctx context.Context, symbol string, from, to time.Time) ([]domain.MarketIndex, error) {
	return s.indices.RangeQuery(ctx, symbol, from, to)
}

func (s *AnalyticsService) GetVolatilityRange(ctx context.Context, symbol string, from, to time.Time) ([]domain.VolatilityObservation, error) {
	return s.volatility.RangeQuery(ctx, symbol, from, to)
}

func (s *AnalyticsService) GetIndicatorRange(ctx context.Context, name string, from, to time.Time) ([]domain.EconomicIndicator, error) {
	return s.indicators.RangeQuery(ctx, name, from, to)
}

func (s *AnalyticsService) GetSectorRange(ctx context.Context, sector string, from, to time.Time) ([]domain.SectorPerformance, error) {
	return s.sectors.RangeQuery(ctx, sector, from, to)
}

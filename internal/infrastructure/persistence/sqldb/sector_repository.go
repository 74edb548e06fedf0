package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/finmarkets/marketstore/internal/domain"
)

// SectorRepository stores per-sector aggregate observations keyed by
// (sector, date). Sector labels carry no foreign key.
type SectorRepository struct {
	db     *DB
	policy domain.UpsertPolicy
}

func NewSectorRepository(db *DB, policy domain.UpsertPolicy) *SectorRepository {
	return &SectorRepository{db: db, policy: policy}
}

var _ domain.SectorPerformanceRepository = (*SectorRepository)(nil)

const sectorColumns = `sector, date, daily_return, avg_volatility, number_of_assets,
	total_market_cap, avg_pe_ratio, avg_dividend_yield`

func (r *SectorRepository) Append(ctx context.Context, s *domain.SectorPerformance) error {
	s.Normalize()

	query := `
		INSERT INTO sector_performance (sector, date, daily_return, avg_volatility,
			number_of_assets, total_market_cap, avg_pe_ratio, avg_dividend_yield)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if r.policy == domain.UpsertReplace {
		query += `
		ON CONFLICT (sector, date) DO UPDATE SET
			daily_return = EXCLUDED.daily_return,
			avg_volatility = EXCLUDED.avg_volatility,
			number_of_assets = EXCLUDED.number_of_assets,
			total_market_cap = EXCLUDED.total_market_cap,
			avg_pe_ratio = EXCLUDED.avg_pe_ratio,
			avg_dividend_yield = EXCLUDED.avg_dividend_yield`
	}

	_, err := r.db.ExecContext(ctx, r.db.Dialect.Rebind(query),
		s.Sector, s.Date, s.DailyReturn, s.AvgVolatility,
		s.NumberOfAssets, s.TotalMarketCap, s.AvgPERatio, s.AvgDividendYield,
	)
	if err != nil {
		if r.db.Dialect.IsUniqueViolation(err) {
			return &domain.DuplicateError{Entity: "sector_performance", Key: seriesKey(s.Sector, s.Date)}
		}
		return fmt.Errorf("append sector performance %s: %w", seriesKey(s.Sector, s.Date), err)
	}
	return nil
}

func (r *SectorRepository) RangeQuery(ctx context.Context, sector string, from, to time.Time) ([]domain.SectorPerformance, error) {
	query, args := rangeQuery(sectorColumns, "sector_performance", "sector", sector, from, to)

	rows, err := r.db.QueryContext(ctx, r.db.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying sector performance for %s: %w", sector, err)
	}
	defer closeRows(rows)

	observations := []domain.SectorPerformance{}
	for rows.Next() {
		var s domain.SectorPerformance
		if err := rows.Scan(&s.Sector, &s.Date, &s.DailyReturn, &s.AvgVolatility,
			&s.NumberOfAssets, &s.TotalMarketCap, &s.AvgPERatio, &s.AvgDividendYield); err != nil {
			return nil, fmt.Errorf("scanning sector performance row: %w", err)
		}
		observations = append(observations, s)
	}
	return observations, rows.Err()
}

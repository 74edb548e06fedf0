package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/finmarkets/marketstore/internal/domain"
)

// AnalyticsRepository serves the derived read-only views. Every query
// recomputes from the base tables, so results are read-committed at
// query time with no materialization in between.
type AnalyticsRepository struct {
	db *DB
}

func NewAnalyticsRepository(db *DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

var _ domain.AnalyticsRepository = (*AnalyticsRepository)(nil)

// AssetOverview projects active assets ranked by market capitalization,
// unknown capitalizations last.
func (r *AnalyticsRepository) AssetOverview(ctx context.Context) ([]domain.AssetOverview, error) {
	query := `
		SELECT symbol, name, sector, industry, asset_type, market_capitalization,
			pe_ratio, dividend_yield, beta, week_52_high, week_52_low
		FROM assets
		WHERE is_active
		ORDER BY market_capitalization DESC NULLS LAST, symbol ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying asset overview: %w", err)
	}
	defer closeRows(rows)

	overview := []domain.AssetOverview{}
	for rows.Next() {
		var o domain.AssetOverview
		var sector, industry sql.NullString
		if err := rows.Scan(&o.Symbol, &o.Name, &sector, &industry, &o.AssetType,
			&o.MarketCapitalization, &o.PERatio, &o.DividendYield, &o.Beta,
			&o.Week52High, &o.Week52Low); err != nil {
			return nil, fmt.Errorf("scanning overview row: %w", err)
		}
		o.Sector = sector.String
		o.Industry = industry.String
		overview = append(overview, o)
	}
	return overview, rows.Err()
}

// LatestPrices joins every asset that has at least one price row to its
// most recent daily price. Inner-join semantics: assets without history
// are absent, not errored. The correlated subquery picks the maximum
// date and breaks (theoretically impossible) date ties toward the most
// recently inserted row.
func (r *AnalyticsRepository) LatestPrices(ctx context.Context) ([]domain.LatestAssetPrice, error) {
	query := `
		SELECT a.symbol, a.name, a.sector, a.asset_type,
			p.date, p.close_price, p.adjusted_close, p.volume
		FROM assets a
		JOIN daily_prices p ON p.id = (
			SELECT p2.id
			FROM daily_prices p2
			WHERE p2.symbol = a.symbol
			ORDER BY p2.date DESC, p2.id DESC
			LIMIT 1
		)
		ORDER BY a.symbol ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying latest prices: %w", err)
	}
	defer closeRows(rows)

	latest := []domain.LatestAssetPrice{}
	for rows.Next() {
		var l domain.LatestAssetPrice
		var sector sql.NullString
		if err := rows.Scan(&l.Symbol, &l.Name, &sector, &l.AssetType,
			&l.Date, &l.ClosePrice, &l.AdjustedClose, &l.Volume); err != nil {
			return nil, fmt.Errorf("scanning latest price row: %w", err)
		}
		l.Sector = sector.String
		latest = append(latest, l)
	}
	return latest, rows.Err()
}

// SectorAnalysis groups active assets by sector. Assets without a
// reported P/E are filtered out before aggregation, so every figure,
// the market-cap sum/min/max included, covers only assets with known
// earnings.
func (r *AnalyticsRepository) SectorAnalysis(ctx context.Context) ([]domain.SectorStats, error) {
	query := `
		SELECT sector, COUNT(*), AVG(pe_ratio), AVG(dividend_yield), AVG(beta),
			SUM(market_capitalization), MIN(market_capitalization), MAX(market_capitalization)
		FROM assets
		WHERE is_active AND sector IS NOT NULL AND sector != '' AND pe_ratio IS NOT NULL
		GROUP BY sector
		ORDER BY SUM(market_capitalization) DESC NULLS LAST, sector ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying sector analysis: %w", err)
	}
	defer closeRows(rows)

	stats := []domain.SectorStats{}
	for rows.Next() {
		var s domain.SectorStats
		if err := rows.Scan(&s.Sector, &s.AssetCount, &s.AvgPERatio, &s.AvgDividendYield,
			&s.AvgBeta, &s.TotalMarketCap, &s.MinMarketCap, &s.MaxMarketCap); err != nil {
			return nil, fmt.Errorf("scanning sector analysis row: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finmarkets/marketstore/internal/domain"
)

// AssetRepository persists the canonical asset reference table.
type AssetRepository struct {
	db *DB
}

func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{db: db}
}

var _ domain.AssetRepository = (*AssetRepository)(nil)

const assetColumns = `
	symbol, name, description, cik, exchange, currency, country, sector, industry, asset_type,
	market_capitalization, ebitda, pe_ratio, peg_ratio, book_value, dividend_per_share,
	dividend_yield, eps, revenue_per_share_ttm, profit_margin, operating_margin_ttm,
	return_on_assets_ttm, return_on_equity_ttm, revenue_ttm, gross_profit_ttm, diluted_eps_ttm,
	quarterly_earnings_growth_yoy, quarterly_revenue_growth_yoy, analyst_target_price,
	trailing_pe, forward_pe, price_to_sales_ratio_ttm, price_to_book_ratio, ev_to_revenue,
	ev_to_ebitda, beta, week_52_high, week_52_low, day_50_moving_average, day_200_moving_average,
	shares_outstanding, dividend_date, ex_dividend_date, is_active, last_updated, created_date`

// Upsert inserts a new asset or replaces the full snapshot of an
// existing one. The symbol and created_date survive the replace;
// last_updated is stamped here.
func (r *AssetRepository) Upsert(ctx context.Context, a *domain.Asset) error {
	now := time.Now().UTC()
	a.LastUpdated = now
	if a.CreatedDate.IsZero() {
		a.CreatedDate = now
	}

	query := r.db.Dialect.Rebind(`
		INSERT INTO assets (` + assetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34, $35, $36, $37, $38, $39, $40,
			$41, $42, $43, $44, $45, $46)
		ON CONFLICT (symbol) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			cik = EXCLUDED.cik,
			exchange = EXCLUDED.exchange,
			currency = EXCLUDED.currency,
			country = EXCLUDED.country,
			sector = EXCLUDED.sector,
			industry = EXCLUDED.industry,
			asset_type = EXCLUDED.asset_type,
			market_capitalization = EXCLUDED.market_capitalization,
			ebitda = EXCLUDED.ebitda,
			pe_ratio = EXCLUDED.pe_ratio,
			peg_ratio = EXCLUDED.peg_ratio,
			book_value = EXCLUDED.book_value,
			dividend_per_share = EXCLUDED.dividend_per_share,
			dividend_yield = EXCLUDED.dividend_yield,
			eps = EXCLUDED.eps,
			revenue_per_share_ttm = EXCLUDED.revenue_per_share_ttm,
			profit_margin = EXCLUDED.profit_margin,
			operating_margin_ttm = EXCLUDED.operating_margin_ttm,
			return_on_assets_ttm = EXCLUDED.return_on_assets_ttm,
			return_on_equity_ttm = EXCLUDED.return_on_equity_ttm,
			revenue_ttm = EXCLUDED.revenue_ttm,
			gross_profit_ttm = EXCLUDED.gross_profit_ttm,
			diluted_eps_ttm = EXCLUDED.diluted_eps_ttm,
			quarterly_earnings_growth_yoy = EXCLUDED.quarterly_earnings_growth_yoy,
			quarterly_revenue_growth_yoy = EXCLUDED.quarterly_revenue_growth_yoy,
			analyst_target_price = EXCLUDED.analyst_target_price,
			trailing_pe = EXCLUDED.trailing_pe,
			forward_pe = EXCLUDED.forward_pe,
			price_to_sales_ratio_ttm = EXCLUDED.price_to_sales_ratio_ttm,
			price_to_book_ratio = EXCLUDED.price_to_book_ratio,
			ev_to_revenue = EXCLUDED.ev_to_revenue,
			ev_to_ebitda = EXCLUDED.ev_to_ebitda,
			beta = EXCLUDED.beta,
			week_52_high = EXCLUDED.week_52_high,
			week_52_low = EXCLUDED.week_52_low,
			day_50_moving_average = EXCLUDED.day_50_moving_average,
			day_200_moving_average = EXCLUDED.day_200_moving_average,
			shares_outstanding = EXCLUDED.shares_outstanding,
			dividend_date = EXCLUDED.dividend_date,
			ex_dividend_date = EXCLUDED.ex_dividend_date,
			is_active = EXCLUDED.is_active,
			last_updated = EXCLUDED.last_updated
	`)

	_, err := r.db.ExecContext(ctx, query,
		a.Symbol, a.Name, a.Description, a.CIK, a.Exchange, a.Currency, a.Country,
		a.Sector, a.Industry, a.AssetType,
		a.MarketCapitalization, a.EBITDA, a.PERatio, a.PEGRatio, a.BookValue,
		a.DividendPerShare, a.DividendYield, a.EPS, a.RevenuePerShareTTM,
		a.ProfitMargin, a.OperatingMarginTTM, a.ReturnOnAssetsTTM, a.ReturnOnEquityTTM,
		a.RevenueTTM, a.GrossProfitTTM, a.DilutedEPSTTM,
		a.QuarterlyEarningsGrowthYOY, a.QuarterlyRevenueGrowthYOY,
		a.AnalystTargetPrice, a.TrailingPE, a.ForwardPE, a.PriceToSalesRatioTTM,
		a.PriceToBookRatio, a.EVToRevenue, a.EVToEBITDA,
		a.Beta, a.Week52High, a.Week52Low, a.Day50MovingAverage, a.Day200MovingAverage,
		a.SharesOutstanding, a.DividendDate, a.ExDividendDate,
		a.IsActive, a.LastUpdated, a.CreatedDate,
	)
	if err != nil {
		return fmt.Errorf("upsert asset %s: %w", a.Symbol, err)
	}
	return nil
}

func (r *AssetRepository) Deactivate(ctx context.Context, symbol string) error {
	symbol = domain.NormalizeSymbol(symbol)
	query := r.db.Dialect.Rebind(`UPDATE assets SET is_active = FALSE, last_updated = $2 WHERE symbol = $1`)

	res, err := r.db.ExecContext(ctx, query, symbol, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate asset %s: %w", symbol, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate asset %s: %w", symbol, err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Entity: "asset", Key: symbol}
	}
	return nil
}

func (r *AssetRepository) Get(ctx context.Context, symbol string) (*domain.Asset, error) {
	symbol = domain.NormalizeSymbol(symbol)
	query := r.db.Dialect.Rebind(`SELECT ` + assetColumns + ` FROM assets WHERE symbol = $1`)

	a, err := scanAsset(r.db.QueryRowContext(ctx, query, symbol))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "asset", Key: symbol}
	}
	if err != nil {
		return nil, fmt.Errorf("querying asset %s: %w", symbol, err)
	}
	return a, nil
}

func (r *AssetRepository) ListActive(ctx context.Context) ([]domain.Asset, error) {
	query := r.db.Dialect.Rebind(`
		SELECT ` + assetColumns + `
		FROM assets
		WHERE is_active
		ORDER BY market_capitalization DESC NULLS LAST, symbol ASC
	`)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying active assets: %w", err)
	}
	defer closeRows(rows)

	var assets []domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning asset row: %w", err)
		}
		assets = append(assets, *a)
	}
	return assets, rows.Err()
}

// Delete hard-deletes the asset and every dependent time-series row.
// The cascade is spelled out table by table inside one transaction so it
// holds on engines without native cascade support; the schema's ON
// DELETE CASCADE clauses remain as a backstop.
func (r *AssetRepository) Delete(ctx context.Context, symbol string) error {
	symbol = domain.NormalizeSymbol(symbol)
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		cascades := []string{
			`DELETE FROM volatility_data WHERE underlying_symbol = $1`,
			`DELETE FROM market_indices WHERE symbol = $1`,
			`DELETE FROM daily_prices WHERE symbol = $1`,
		}
		for _, q := range cascades {
			if _, err := tx.ExecContext(ctx, r.db.Dialect.Rebind(q), symbol); err != nil {
				return fmt.Errorf("cascade delete for %s: %w", symbol, err)
			}
		}

		res, err := tx.ExecContext(ctx, r.db.Dialect.Rebind(`DELETE FROM assets WHERE symbol = $1`), symbol)
		if err != nil {
			return fmt.Errorf("delete asset %s: %w", symbol, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete asset %s: %w", symbol, err)
		}
		if affected == 0 {
			return &domain.NotFoundError{Entity: "asset", Key: symbol}
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*domain.Asset, error) {
	var a domain.Asset
	var description, cik, exchange, currency, country, sector, industry sql.NullString

	err := row.Scan(
		&a.Symbol, &a.Name, &description, &cik, &exchange, &currency, &country,
		&sector, &industry, &a.AssetType,
		&a.MarketCapitalization, &a.EBITDA, &a.PERatio, &a.PEGRatio, &a.BookValue,
		&a.DividendPerShare, &a.DividendYield, &a.EPS, &a.RevenuePerShareTTM,
		&a.ProfitMargin, &a.OperatingMarginTTM, &a.ReturnOnAssetsTTM, &a.ReturnOnEquityTTM,
		&a.RevenueTTM, &a.GrossProfitTTM, &a.DilutedEPSTTM,
		&a.QuarterlyEarningsGrowthYOY, &a.QuarterlyRevenueGrowthYOY,
		&a.AnalystTargetPrice, &a.TrailingPE, &a.ForwardPE, &a.PriceToSalesRatioTTM,
		&a.PriceToBookRatio, &a.EVToRevenue, &a.EVToEBITDA,
		&a.Beta, &a.Week52High, &a.Week52Low, &a.Day50MovingAverage, &a.Day200MovingAverage,
		&a.SharesOutstanding, &a.DividendDate, &a.ExDividendDate,
		&a.IsActive, &a.LastUpdated, &a.CreatedDate,
	)
	if err != nil {
		return nil, err
	}

	a.Description = description.String
	a.CIK = cik.String
	a.Exchange = exchange.String
	a.Currency = currency.String
	a.Country = country.String
	a.Sector = sector.String
	a.Industry = industry.String
	return &a, nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("Failed to close rows", "error", err)
	}
}

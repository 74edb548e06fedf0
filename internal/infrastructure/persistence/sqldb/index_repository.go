package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finmarkets/marketstore/internal/domain"
)

// IndexRepository stores market index observations. Indices are
// registered as assets themselves, so the same referential rules apply.
type IndexRepository struct {
	db     *DB
	policy domain.UpsertPolicy
}

func NewIndexRepository(db *DB, policy domain.UpsertPolicy) *IndexRepository {
	return &IndexRepository{db: db, policy: policy}
}

var _ domain.TimeSeriesRepository[domain.MarketIndex] = (*IndexRepository)(nil)

const indexColumns = `id, symbol, date, index_value, daily_return, volume, total_market_cap,
	pe_ratio, dividend_yield, price_to_book, constituent_count`

func (r *IndexRepository) Append(ctx context.Context, m *domain.MarketIndex) error {
	m.Normalize()

	query := `
		INSERT INTO market_indices (symbol, date, index_value, daily_return, volume,
			total_market_cap, pe_ratio, dividend_yield, price_to_book, constituent_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if r.policy == domain.UpsertReplace {
		query += `
		ON CONFLICT (symbol, date) DO UPDATE SET
			index_value = EXCLUDED.index_value,
			daily_return = EXCLUDED.daily_return,
			volume = EXCLUDED.volume,
			total_market_cap = EXCLUDED.total_market_cap,
			pe_ratio = EXCLUDED.pe_ratio,
			dividend_yield = EXCLUDED.dividend_yield,
			price_to_book = EXCLUDED.price_to_book,
			constituent_count = EXCLUDED.constituent_count`
	}

	_, err := r.db.ExecContext(ctx, r.db.Dialect.Rebind(query),
		m.Symbol, m.Date, m.IndexValue, m.DailyReturn, m.Volume,
		m.TotalMarketCap, m.PERatio, m.DividendYield, m.PriceToBook, m.ConstituentCount,
	)
	if err != nil {
		if r.db.Dialect.IsForeignKeyViolation(err) {
			return &domain.ForeignKeyError{Entity: "market_index", Symbol: m.Symbol}
		}
		if r.db.Dialect.IsUniqueViolation(err) {
			return &domain.DuplicateError{Entity: "market_index", Key: seriesKey(m.Symbol, m.Date)}
		}
		return fmt.Errorf("append market index %s: %w", seriesKey(m.Symbol, m.Date), err)
	}
	return nil
}

func (r *IndexRepository) RangeQuery(ctx context.Context, symbol string, from, to time.Time) ([]domain.MarketIndex, error) {
	query, args := rangeQuery(indexColumns, "market_indices", "symbol", domain.NormalizeSymbol(symbol), from, to)

	rows, err := r.db.QueryContext(ctx, r.db.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying market indices for %s: %w", symbol, err)
	}
	defer closeRows(rows)

	observations := []domain.MarketIndex{}
	for rows.Next() {
		var m domain.MarketIndex
		if err := scanIndex(rows, &m); err != nil {
			return nil, fmt.Errorf("scanning market index row: %w", err)
		}
		observations = append(observations, m)
	}
	return observations, rows.Err()
}

func (r *IndexRepository) Latest(ctx context.Context, symbol string) (*domain.MarketIndex, error) {
	symbol = domain.NormalizeSymbol(symbol)
	query := r.db.Dialect.Rebind(`
		SELECT ` + indexColumns + `
		FROM market_indices
		WHERE symbol = $1
		ORDER BY date DESC, id DESC
		LIMIT 1`)

	var m domain.MarketIndex
	err := scanIndex(r.db.QueryRowContext(ctx, query, symbol), &m)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "market_index", Key: symbol}
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest index level for %s: %w", symbol, err)
	}
	return &m, nil
}

func scanIndex(row rowScanner, m *domain.MarketIndex) error {
	return row.Scan(
		&m.ID, &m.Symbol, &m.Date, &m.IndexValue, &m.DailyReturn, &m.Volume,
		&m.TotalMarketCap, &m.PERatio, &m.DividendYield, &m.PriceToBook, &m.ConstituentCount,
	)
}

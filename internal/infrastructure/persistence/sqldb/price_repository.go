package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finmarkets/marketstore/internal/domain"
)

// PriceRepository stores the daily OHLC series. Appends apply the
// store-wide upsert policy on (symbol, date) collisions.
type PriceRepository struct {
	db     *DB
	policy domain.UpsertPolicy
}

func NewPriceRepository(db *DB, policy domain.UpsertPolicy) *PriceRepository {
	return &PriceRepository{db: db, policy: policy}
}

var _ domain.TimeSeriesRepository[domain.DailyPrice] = (*PriceRepository)(nil)

const priceColumns = `id, symbol, date, open_price, high_price, low_price, close_price,
	adjusted_close, volume, dividend_amount, split_coefficient`

func (r *PriceRepository) Append(ctx context.Context, p *domain.DailyPrice) error {
	p.Normalize()

	query := `
		INSERT INTO daily_prices (symbol, date, open_price, high_price, low_price,
			close_price, adjusted_close, volume, dividend_amount, split_coefficient)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if r.policy == domain.UpsertReplace {
		query += `
		ON CONFLICT (symbol, date) DO UPDATE SET
			open_price = EXCLUDED.open_price,
			high_price = EXCLUDED.high_price,
			low_price = EXCLUDED.low_price,
			close_price = EXCLUDED.close_price,
			adjusted_close = EXCLUDED.adjusted_close,
			volume = EXCLUDED.volume,
			dividend_amount = EXCLUDED.dividend_amount,
			split_coefficient = EXCLUDED.split_coefficient`
	}

	_, err := r.db.ExecContext(ctx, r.db.Dialect.Rebind(query),
		p.Symbol, p.Date, p.OpenPrice, p.HighPrice, p.LowPrice,
		p.ClosePrice, p.AdjustedClose, p.Volume, p.DividendAmount, p.SplitCoefficient,
	)
	if err != nil {
		if r.db.Dialect.IsForeignKeyViolation(err) {
			return &domain.ForeignKeyError{Entity: "daily_price", Symbol: p.Symbol}
		}
		if r.db.Dialect.IsUniqueViolation(err) {
			return &domain.DuplicateError{Entity: "daily_price", Key: seriesKey(p.Symbol, p.Date)}
		}
		return fmt.Errorf("append daily price %s: %w", seriesKey(p.Symbol, p.Date), err)
	}
	return nil
}

func (r *PriceRepository) RangeQuery(ctx context.Context, symbol string, from, to time.Time) ([]domain.DailyPrice, error) {
	query, args := rangeQuery(priceColumns, "daily_prices", "symbol", domain.NormalizeSymbol(symbol), from, to)

	rows, err := r.db.QueryContext(ctx, r.db.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying daily prices for %s: %w", symbol, err)
	}
	defer closeRows(rows)

	prices := []domain.DailyPrice{}
	for rows.Next() {
		var p domain.DailyPrice
		if err := scanPrice(rows, &p); err != nil {
			return nil, fmt.Errorf("scanning daily price row: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// Latest returns the row with the maximum date; rows sharing that date
// (which the uniqueness constraint should prevent) resolve to the most
// recently inserted one.
func (r *PriceRepository) Latest(ctx context.Context, symbol string) (*domain.DailyPrice, error) {
	symbol = domain.NormalizeSymbol(symbol)
	query := r.db.Dialect.Rebind(`
		SELECT ` + priceColumns + `
		FROM daily_prices
		WHERE symbol = $1
		ORDER BY date DESC, id DESC
		LIMIT 1`)

	var p domain.DailyPrice
	err := scanPrice(r.db.QueryRowContext(ctx, query, symbol), &p)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "daily_price", Key: symbol}
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest price for %s: %w", symbol, err)
	}
	return &p, nil
}

func scanPrice(row rowScanner, p *domain.DailyPrice) error {
	return row.Scan(
		&p.ID, &p.Symbol, &p.Date, &p.OpenPrice, &p.HighPrice, &p.LowPrice,
		&p.ClosePrice, &p.AdjustedClose, &p.Volume, &p.DividendAmount, &p.SplitCoefficient,
	)
}

// rangeQuery builds an ascending date-range select with open-ended
// bounds: a zero time leaves that side of the range unconstrained.
func rangeQuery(columns, table, keyColumn, key string, from, to time.Time) (string, []any) {
	query := `SELECT ` + columns + ` FROM ` + table + ` WHERE ` + keyColumn + ` = $1`
	args := []any{key}
	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date ASC"
	return query, args
}

func seriesKey(symbol string, date time.Time) string {
	return symbol + "/" + date.Format(domain.DateLayout)
}

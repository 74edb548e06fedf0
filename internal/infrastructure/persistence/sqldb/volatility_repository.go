package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finmarkets/marketstore/internal/domain"
)

// VolatilityRepository stores volatility measurements keyed by the
// four-part (underlying_symbol, volatility_type, date, period) key.
type VolatilityRepository struct {
	db     *DB
	policy domain.UpsertPolicy
}

func NewVolatilityRepository(db *DB, policy domain.UpsertPolicy) *VolatilityRepository {
	return &VolatilityRepository{db: db, policy: policy}
}

var _ domain.TimeSeriesRepository[domain.VolatilityObservation] = (*VolatilityRepository)(nil)

const volatilityColumns = `id, underlying_symbol, volatility_type, date, volatility_period,
	volatility_value, skewness, kurtosis`

func (r *VolatilityRepository) Append(ctx context.Context, v *domain.VolatilityObservation) error {
	v.Normalize()

	query := `
		INSERT INTO volatility_data (underlying_symbol, volatility_type, date,
			volatility_period, volatility_value, skewness, kurtosis)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if r.policy == domain.UpsertReplace {
		query += `
		ON CONFLICT (underlying_symbol, volatility_type, date, volatility_period) DO UPDATE SET
			volatility_value = EXCLUDED.volatility_value,
			skewness = EXCLUDED.skewness,
			kurtosis = EXCLUDED.kurtosis`
	}

	_, err := r.db.ExecContext(ctx, r.db.Dialect.Rebind(query),
		v.UnderlyingSymbol, v.VolatilityType, v.Date,
		v.VolatilityPeriod, v.VolatilityValue, v.Skewness, v.Kurtosis,
	)
	if err != nil {
		if r.db.Dialect.IsForeignKeyViolation(err) {
			return &domain.ForeignKeyError{Entity: "volatility_observation", Symbol: v.UnderlyingSymbol}
		}
		if r.db.Dialect.IsUniqueViolation(err) {
			return &domain.DuplicateError{Entity: "volatility_observation", Key: v.Key()}
		}
		return fmt.Errorf("append volatility %s: %w", v.Key(), err)
	}
	return nil
}

func (r *VolatilityRepository) RangeQuery(ctx context.Context, symbol string, from, to time.Time) ([]domain.VolatilityObservation, error) {
	query, args := rangeQuery(volatilityColumns, "volatility_data", "underlying_symbol",
		domain.NormalizeSymbol(symbol), from, to)

	rows, err := r.db.QueryContext(ctx, r.db.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying volatility for %s: %w", symbol, err)
	}
	defer closeRows(rows)

	observations := []domain.VolatilityObservation{}
	for rows.Next() {
		var v domain.VolatilityObservation
		if err := scanVolatility(rows, &v); err != nil {
			return nil, fmt.Errorf("scanning volatility row: %w", err)
		}
		observations = append(observations, v)
	}
	return observations, rows.Err()
}

func (r *VolatilityRepository) Latest(ctx context.Context, symbol string) (*domain.VolatilityObservation, error) {
	symbol = domain.NormalizeSymbol(symbol)
	query := r.db.Dialect.Rebind(`
		SELECT ` + volatilityColumns + `
		FROM volatility_data
		WHERE underlying_symbol = $1
		ORDER BY date DESC, id DESC
		LIMIT 1`)

	var v domain.VolatilityObservation
	err := scanVolatility(r.db.QueryRowContext(ctx, query, symbol), &v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "volatility_observation", Key: symbol}
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest volatility for %s: %w", symbol, err)
	}
	return &v, nil
}

func scanVolatility(row rowScanner, v *domain.VolatilityObservation) error {
	return row.Scan(
		&v.ID, &v.UnderlyingSymbol, &v.VolatilityType, &v.Date, &v.VolatilityPeriod,
		&v.VolatilityValue, &v.Skewness, &v.Kurtosis,
	)
}

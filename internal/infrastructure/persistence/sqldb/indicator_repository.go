package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finmarkets/marketstore/internal/domain"
)

// IndicatorRepository stores macro observations keyed by
// (indicator_name, date). No asset reference, so appends can never hit a
// foreign key violation.
type IndicatorRepository struct {
	db     *DB
	policy domain.UpsertPolicy
}

func NewIndicatorRepository(db *DB, policy domain.UpsertPolicy) *IndicatorRepository {
	return &IndicatorRepository{db: db, policy: policy}
}

var _ domain.IndicatorRepository = (*IndicatorRepository)(nil)

const indicatorColumns = `indicator_name, indicator_code, date, value, unit, frequency, source`

func (r *IndicatorRepository) Append(ctx context.Context, i *domain.EconomicIndicator) error {
	i.Normalize()

	query := `
		INSERT INTO economic_indicators (indicator_name, indicator_code, date, value, unit, frequency, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if r.policy == domain.UpsertReplace {
		query += `
		ON CONFLICT (indicator_name, date) DO UPDATE SET
			indicator_code = EXCLUDED.indicator_code,
			value = EXCLUDED.value,
			unit = EXCLUDED.unit,
			frequency = EXCLUDED.frequency,
			source = EXCLUDED.source`
	}

	_, err := r.db.ExecContext(ctx, r.db.Dialect.Rebind(query),
		i.IndicatorName, i.IndicatorCode, i.Date, i.Value, i.Unit, i.Frequency, i.Source,
	)
	if err != nil {
		if r.db.Dialect.IsUniqueViolation(err) {
			return &domain.DuplicateError{Entity: "economic_indicator", Key: seriesKey(i.IndicatorName, i.Date)}
		}
		return fmt.Errorf("append indicator %s: %w", seriesKey(i.IndicatorName, i.Date), err)
	}
	return nil
}

func (r *IndicatorRepository) RangeQuery(ctx context.Context, name string, from, to time.Time) ([]domain.EconomicIndicator, error) {
	query, args := rangeQuery(indicatorColumns, "economic_indicators", "indicator_name", name, from, to)

	rows, err := r.db.QueryContext(ctx, r.db.Dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying indicator %s: %w", name, err)
	}
	defer closeRows(rows)

	observations := []domain.EconomicIndicator{}
	for rows.Next() {
		var i domain.EconomicIndicator
		if err := scanIndicator(rows, &i); err != nil {
			return nil, fmt.Errorf("scanning indicator row: %w", err)
		}
		observations = append(observations, i)
	}
	return observations, rows.Err()
}

func (r *IndicatorRepository) Latest(ctx context.Context, name string) (*domain.EconomicIndicator, error) {
	query := r.db.Dialect.Rebind(`
		SELECT ` + indicatorColumns + `
		FROM economic_indicators
		WHERE indicator_name = $1
		ORDER BY date DESC
		LIMIT 1`)

	var i domain.EconomicIndicator
	err := scanIndicator(r.db.QueryRowContext(ctx, query, name), &i)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Entity: "economic_indicator", Key: name}
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest indicator %s: %w", name, err)
	}
	return &i, nil
}

func scanIndicator(row rowScanner, i *domain.EconomicIndicator) error {
	var code, unit, source sql.NullString
	err := row.Scan(&i.IndicatorName, &code, &i.Date, &i.Value, &unit, &i.Frequency, &source)
	if err != nil {
		return err
	}
	i.IndicatorCode = code.String
	i.Unit = unit.String
	i.Source = source.String
	return nil
}

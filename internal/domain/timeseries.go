package domain

import (
	"fmt"
	"time"
)

// DailyPrice is one OHLC observation per (symbol, date). Rows are
// append-only; corrections arrive as a new ingestion overwriting the
// same natural key.
type DailyPrice struct {
	ID               int64         `json:"-"`
	Symbol           string        `json:"symbol"`
	Date             time.Time     `json:"date"`
	OpenPrice        NullDecimal   `json:"open_price"`
	HighPrice        NullDecimal   `json:"high_price"`
	LowPrice         NullDecimal   `json:"low_price"`
	ClosePrice       Decimal       `json:"close_price"`
	AdjustedClose    NullDecimal   `json:"adjusted_close"`
	Volume           NullInt64   `json:"volume"`
	DividendAmount   NullDecimal   `json:"dividend_amount"`
	SplitCoefficient NullDecimal   `json:"split_coefficient"`
}

func (p *DailyPrice) Validate() error {
	if err := validateSeriesKey(p.Symbol, p.Date); err != nil {
		return err
	}
	if p.HighPrice.Valid && p.LowPrice.Valid && p.HighPrice.Decimal.Cmp(p.LowPrice.Decimal) < 0 {
		return &ValidationError{Field: "high_price", Reason: "below low_price"}
	}
	return nil
}

func (p *DailyPrice) Normalize() {
	p.Symbol = NormalizeSymbol(p.Symbol)
	p.Date = midnightUTC(p.Date)
}

// MarketIndex is one observation per (symbol, date) for an index that is
// itself registered as an asset with asset_type Index.
type MarketIndex struct {
	ID               int64         `json:"-"`
	Symbol           string        `json:"symbol"`
	Date             time.Time     `json:"date"`
	IndexValue       Decimal       `json:"index_value"`
	DailyReturn      NullDecimal   `json:"daily_return"`
	Volume           NullInt64   `json:"volume"`
	TotalMarketCap   NullDecimal   `json:"total_market_cap"`
	PERatio          NullDecimal   `json:"pe_ratio"`
	DividendYield    NullDecimal   `json:"dividend_yield"`
	PriceToBook      NullDecimal   `json:"price_to_book"`
	ConstituentCount NullInt64   `json:"constituent_count"`
}

func (m *MarketIndex) Validate() error {
	if err := validateSeriesKey(m.Symbol, m.Date); err != nil {
		return err
	}
	if err := checkRatio("daily_return", m.DailyReturn); err != nil {
		return err
	}
	return checkRatio("dividend_yield", m.DividendYield)
}

func (m *MarketIndex) Normalize() {
	m.Symbol = NormalizeSymbol(m.Symbol)
	m.Date = midnightUTC(m.Date)
}

// VolatilityObservation is one measurement per (underlying_symbol,
// volatility_type, date, period). The type is an open string: the set of
// methodologies (VIX, Realized, GARCH, Implied, ...) is extensible.
type VolatilityObservation struct {
	ID               int64       `json:"-"`
	UnderlyingSymbol string      `json:"underlying_symbol"`
	VolatilityType   string      `json:"volatility_type"`
	Date             time.Time   `json:"date"`
	VolatilityPeriod int         `json:"volatility_period"`
	VolatilityValue  Decimal     `json:"volatility_value"`
	Skewness         NullDecimal `json:"skewness"`
	Kurtosis         NullDecimal `json:"kurtosis"`
}

func (v *VolatilityObservation) Validate() error {
	if err := validateSeriesKey(v.UnderlyingSymbol, v.Date); err != nil {
		return err
	}
	if v.VolatilityType == "" {
		return &ValidationError{Field: "volatility_type", Reason: "must not be empty"}
	}
	if v.VolatilityPeriod <= 0 {
		return &ValidationError{Field: "volatility_period", Reason: "must be a positive number of days"}
	}
	return nil
}

func (v *VolatilityObservation) Normalize() {
	v.UnderlyingSymbol = NormalizeSymbol(v.UnderlyingSymbol)
	v.Date = midnightUTC(v.Date)
}

// Key renders the four-part natural key for error reporting.
func (v *VolatilityObservation) Key() string {
	return fmt.Sprintf("%s/%s/%s/%dd", v.UnderlyingSymbol, v.VolatilityType, v.Date.Format(DateLayout), v.VolatilityPeriod)
}

// DateLayout is the canonical rendering of observation dates. All series
// are daily-granularity snapshots; time-of-day carries no information.
const DateLayout = "2006-01-02"

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateSeriesKey(symbol string, date time.Time) error {
	s := NormalizeSymbol(symbol)
	if s == "" {
		return &ValidationError{Field: "symbol", Reason: "must not be empty"}
	}
	if len(s) > MaxSymbolLength {
		return &ValidationError{Field: "symbol", Reason: "exceeds 10 characters"}
	}
	if date.IsZero() {
		return &ValidationError{Field: "date", Reason: "must be set"}
	}
	return nil
}

package domain

import (
	"time"
)

// SectorPerformance is one aggregate observation per (sector, date).
// Sector labels are shared with Asset.Sector but are derived groupings,
// not first-class entities, so there is no foreign key.
type SectorPerformance struct {
	Sector           string        `json:"sector"`
	Date             time.Time     `json:"date"`
	DailyReturn      NullDecimal   `json:"daily_return"`
	AvgVolatility    NullDecimal   `json:"avg_volatility"`
	NumberOfAssets   NullInt64   `json:"number_of_assets"`
	TotalMarketCap   NullDecimal   `json:"total_market_cap"`
	AvgPERatio       NullDecimal   `json:"avg_pe_ratio"`
	AvgDividendYield NullDecimal   `json:"avg_dividend_yield"`
}

func (s *SectorPerformance) Validate() error {
	if s.Sector == "" {
		return &ValidationError{Field: "sector", Reason: "must not be empty"}
	}
	if s.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "must be set"}
	}
	if err := checkRatio("daily_return", s.DailyReturn); err != nil {
		return err
	}
	return checkRatio("avg_volatility", s.AvgVolatility)
}

func (s *SectorPerformance) Normalize() {
	s.Date = midnightUTC(s.Date)
}

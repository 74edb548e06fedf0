package domain

import (
	"iter"
	"time"
)

// AssetOverview is the fixed column subset projected for the ranked view
// of active assets.
type AssetOverview struct {
	Symbol               string      `json:"symbol"`
	Name                 string      `json:"name"`
	Sector               string      `json:"sector,omitempty"`
	Industry             string      `json:"industry,omitempty"`
	AssetType            AssetType   `json:"asset_type"`
	MarketCapitalization NullDecimal `json:"market_capitalization"`
	PERatio              NullDecimal `json:"pe_ratio"`
	DividendYield        NullDecimal `json:"dividend_yield"`
	Beta                 NullDecimal `json:"beta"`
	Week52High           NullDecimal `json:"week_52_high"`
	Week52Low            NullDecimal `json:"week_52_low"`
}

// LatestAssetPrice joins an asset to its most recent daily price. Assets
// with no price history do not appear.
type LatestAssetPrice struct {
	Symbol        string        `json:"symbol"`
	Name          string        `json:"name"`
	Sector        string        `json:"sector,omitempty"`
	AssetType     AssetType     `json:"asset_type"`
	Date          time.Time     `json:"date"`
	ClosePrice    Decimal       `json:"close_price"`
	AdjustedClose NullDecimal   `json:"adjusted_close"`
	Volume        NullInt64   `json:"volume"`
}

// DailyReturn is one element of a per-symbol return series. The first
// element of a series has no predecessor, so PreviousClose and Return
// are null for it.
type DailyReturn struct {
	Date          time.Time   `json:"date"`
	ClosePrice    Decimal     `json:"close_price"`
	PreviousClose NullDecimal `json:"previous_close"`
	Return        NullDecimal `json:"daily_return"`
}

// SectorStats is one aggregate row of the sector analysis view. Assets
// without a reported P/E are excluded before aggregation, so every
// average and the market-cap figures cover only assets with known
// earnings.
type SectorStats struct {
	Sector           string        `json:"sector"`
	AssetCount       NullInt64   `json:"asset_count"`
	AvgPERatio       NullDecimal   `json:"avg_pe_ratio"`
	AvgDividendYield NullDecimal   `json:"avg_dividend_yield"`
	AvgBeta          NullDecimal   `json:"avg_beta"`
	TotalMarketCap   NullDecimal   `json:"total_market_cap"`
	MinMarketCap     NullDecimal   `json:"min_market_cap"`
	MaxMarketCap     NullDecimal   `json:"max_market_cap"`
}

// ReturnSeries folds an ordered price history into day-over-day returns.
// prices must be sorted ascending by date; the scan carries one unit of
// lookback state instead of relying on engine window semantics.
//
// The sequence is finite and restartable: ranging over it again replays
// the same rows. A zero previous close yields a ComputationError for
// that element only; the scan moves on with the offending close as the
// new lookback value.
func ReturnSeries(prices []DailyPrice) iter.Seq2[DailyReturn, error] {
	return func(yield func(DailyReturn, error) bool) {
		var prev NullDecimal
		for _, p := range prices {
			row := DailyReturn{
				Date:          p.Date,
				ClosePrice:    p.ClosePrice,
				PreviousClose: prev,
			}
			if prev.Valid {
				if prev.Decimal.IsZero() {
					err := &ComputationError{
						Op:     "daily_return",
						Reason: "previous close is zero on " + p.Date.Format(DateLayout),
					}
					if !yield(DailyReturn{}, err) {
						return
					}
					prev = NewNullDecimal(p.ClosePrice)
					continue
				}
				diff, err := p.ClosePrice.Sub(prev.Decimal)
				if err != nil {
					if !yield(DailyReturn{}, &ComputationError{Op: "daily_return", Reason: err.Error()}) {
						return
					}
					prev = NewNullDecimal(p.ClosePrice)
					continue
				}
				ret, err := diff.Div(prev.Decimal)
				if err != nil {
					if !yield(DailyReturn{}, &ComputationError{Op: "daily_return", Reason: err.Error()}) {
						return
					}
					prev = NewNullDecimal(p.ClosePrice)
					continue
				}
				row.Return = NewNullDecimal(ret)
			}
			if !yield(row, nil) {
				return
			}
			prev = NewNullDecimal(p.ClosePrice)
		}
	}
}

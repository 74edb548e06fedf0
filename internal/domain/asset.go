package domain

import (
	"strings"
	"time"
)

// AssetType is the closed classification of registrable instruments.
type AssetType string

const (
	AssetTypeStock     AssetType = "Stock"
	AssetTypeETF       AssetType = "ETF"
	AssetTypeIndex     AssetType = "Index"
	AssetTypeBond      AssetType = "Bond"
	AssetTypeCommodity AssetType = "Commodity"
)

// IsValid reports whether the value is one of the fixed enumeration.
func (t AssetType) IsValid() bool {
	switch t {
	case AssetTypeStock, AssetTypeETF, AssetTypeIndex, AssetTypeBond, AssetTypeCommodity:
		return true
	}
	return false
}

// MaxSymbolLength bounds the canonical instrument identifier.
const MaxSymbolLength = 10

// NormalizeSymbol produces the canonical form of a symbol: trimmed and
// upper-cased. Symbols are compared and stored in this form only.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Asset is one row per instrument, keyed by symbol. The fundamental and
// trading metrics are a snapshot replaced wholesale on every upsert;
// CreatedDate is immutable and IsActive soft-deletes without touching
// history.
type Asset struct {
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CIK         string    `json:"cik,omitempty"`
	Exchange    string    `json:"exchange,omitempty"`
	Currency    string    `json:"currency,omitempty"`
	Country     string    `json:"country,omitempty"`
	Sector      string    `json:"sector,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	AssetType   AssetType `json:"asset_type"`

	// Fundamental snapshot
	MarketCapitalization       NullDecimal `json:"market_capitalization"`
	EBITDA                     NullDecimal `json:"ebitda"`
	PERatio                    NullDecimal `json:"pe_ratio"`
	PEGRatio                   NullDecimal `json:"peg_ratio"`
	BookValue                  NullDecimal `json:"book_value"`
	DividendPerShare           NullDecimal `json:"dividend_per_share"`
	DividendYield              NullDecimal `json:"dividend_yield"`
	EPS                        NullDecimal `json:"eps"`
	RevenuePerShareTTM         NullDecimal `json:"revenue_per_share_ttm"`
	ProfitMargin               NullDecimal `json:"profit_margin"`
	OperatingMarginTTM         NullDecimal `json:"operating_margin_ttm"`
	ReturnOnAssetsTTM          NullDecimal `json:"return_on_assets_ttm"`
	ReturnOnEquityTTM          NullDecimal `json:"return_on_equity_ttm"`
	RevenueTTM                 NullDecimal `json:"revenue_ttm"`
	GrossProfitTTM             NullDecimal `json:"gross_profit_ttm"`
	DilutedEPSTTM              NullDecimal `json:"diluted_eps_ttm"`
	QuarterlyEarningsGrowthYOY NullDecimal `json:"quarterly_earnings_growth_yoy"`
	QuarterlyRevenueGrowthYOY  NullDecimal `json:"quarterly_revenue_growth_yoy"`
	AnalystTargetPrice         NullDecimal `json:"analyst_target_price"`
	TrailingPE                 NullDecimal `json:"trailing_pe"`
	ForwardPE                  NullDecimal `json:"forward_pe"`
	PriceToSalesRatioTTM       NullDecimal `json:"price_to_sales_ratio_ttm"`
	PriceToBookRatio           NullDecimal `json:"price_to_book_ratio"`
	EVToRevenue                NullDecimal `json:"ev_to_revenue"`
	EVToEBITDA                 NullDecimal `json:"ev_to_ebitda"`

	// Trading metrics
	Beta                NullDecimal  `json:"beta"`
	Week52High          NullDecimal  `json:"week_52_high"`
	Week52Low           NullDecimal  `json:"week_52_low"`
	Day50MovingAverage  NullDecimal  `json:"day_50_moving_average"`
	Day200MovingAverage NullDecimal  `json:"day_200_moving_average"`
	SharesOutstanding   NullDecimal  `json:"shares_outstanding"`
	DividendDate        NullDate     `json:"dividend_date"`
	ExDividendDate      NullDate     `json:"ex_dividend_date"`

	IsActive    bool      `json:"is_active"`
	LastUpdated time.Time `json:"last_updated"`
	CreatedDate time.Time `json:"created_date"`
}

// ratioBound rejects grossly out-of-range ratio and percentage fields at
// the write boundary. Values are fractional (0.045 = 4.5%) so anything
// beyond this magnitude is a feed error, not a plausible observation.
var ratioBound = NewDecimalFromInt(1000)

func checkRatio(field string, v NullDecimal) error {
	if !v.Valid {
		return nil
	}
	if v.Decimal.Abs().Cmp(ratioBound) > 0 {
		return &ValidationError{Field: field, Reason: "out of range"}
	}
	return nil
}

// Validate checks the invariants the registry enforces before any write:
// a non-empty bounded symbol, a closed asset type and sane ratio fields.
func (a *Asset) Validate() error {
	symbol := NormalizeSymbol(a.Symbol)
	if symbol == "" {
		return &ValidationError{Field: "symbol", Reason: "must not be empty"}
	}
	if len(symbol) > MaxSymbolLength {
		return &ValidationError{Field: "symbol", Reason: "exceeds 10 characters"}
	}
	if !a.AssetType.IsValid() {
		return &ValidationError{Field: "asset_type", Reason: "unknown asset type " + string(a.AssetType)}
	}

	ratios := map[string]NullDecimal{
		"dividend_yield":                a.DividendYield,
		"profit_margin":                 a.ProfitMargin,
		"operating_margin_ttm":          a.OperatingMarginTTM,
		"return_on_assets_ttm":          a.ReturnOnAssetsTTM,
		"return_on_equity_ttm":          a.ReturnOnEquityTTM,
		"quarterly_earnings_growth_yoy": a.QuarterlyEarningsGrowthYOY,
		"quarterly_revenue_growth_yoy":  a.QuarterlyRevenueGrowthYOY,
	}
	for field, v := range ratios {
		if err := checkRatio(field, v); err != nil {
			return err
		}
	}
	return nil
}

// Normalize rewrites the symbol to canonical form.
func (a *Asset) Normalize() {
	a.Symbol = NormalizeSymbol(a.Symbol)
}

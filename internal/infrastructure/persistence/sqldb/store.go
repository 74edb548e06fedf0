package sqldb

import "github.com/finmarkets/marketstore/internal/domain"

// Store bundles the repositories over one database handle. A single
// upsert policy applies to every series so duplicate-key behavior is
// consistent across the whole store.
type Store struct {
	DB         *DB
	Assets     *AssetRepository
	Prices     *PriceRepository
	Indices    *IndexRepository
	Volatility *VolatilityRepository
	Indicators *IndicatorRepository
	Sectors    *SectorRepository
	Analytics  *AnalyticsRepository
}

func NewStore(db *DB, policy domain.UpsertPolicy) *Store {
	return &Store{
		DB:         db,
		Assets:     NewAssetRepository(db),
		Prices:     NewPriceRepository(db, policy),
		Indices:    NewIndexRepository(db, policy),
		Volatility: NewVolatilityRepository(db, policy),
		Indicators: NewIndicatorRepository(db, policy),
		Sectors:    NewSectorRepository(db, policy),
		Analytics:  NewAnalyticsRepository(db),
	}
}

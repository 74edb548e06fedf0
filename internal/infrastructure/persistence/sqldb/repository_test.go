package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/finmarkets/marketstore/internal/domain"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *DB {
	if os.Getenv("TEST_DB") == "postgres" {
		return setupPostgres(t)
	}
	return setupSQLite(t)
}

func setupSQLite(t *testing.T) *DB {
	ctx := context.Background()

	// One shared in-memory database per test, foreign keys on.
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_time_format=sqlite", name)

	rawDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open db: %s", err)
	}
	rawDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = rawDB.Close() })

	db := New(rawDB, &SQLiteDialect{})
	if err := db.Dialect.Migrate(ctx, rawDB); err != nil {
		t.Fatalf("failed to migrate: %s", err)
	}
	return db
}

func setupPostgres(t *testing.T) *DB {
	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %s", err)
	}

	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	rawDB, err := sql.Open("pgx", connStr)
	if err != nil {
		t.Fatalf("failed to open db: %s", err)
	}

	db := New(rawDB, &PostgresDialect{})
	if err := db.Dialect.Migrate(ctx, rawDB); err != nil {
		t.Fatalf("failed to migrate: %s", err)
	}
	return db
}

func testDate(day int) time.Time {
	return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
}

func testAsset(symbol, sector string) *domain.Asset {
	return &domain.Asset{
		Symbol:    symbol,
		Name:      symbol + " Corp",
		Sector:    sector,
		AssetType: domain.AssetTypeStock,
		IsActive:  true,
	}
}

func seedAsset(t *testing.T, db *DB, symbol string) {
	t.Helper()
	repo := NewAssetRepository(db)
	require.NoError(t, repo.Upsert(context.Background(), testAsset(symbol, "Technology")))
}

func testPrice(symbol string, day int, close int64) *domain.DailyPrice {
	return &domain.DailyPrice{
		Symbol:     symbol,
		Date:       testDate(day),
		ClosePrice: domain.NewDecimalFromInt(close),
	}
}

// --- Asset Registry Tests ---

func TestAssetRepository_UpsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssetRepository(db)
	ctx := context.Background()

	a := testAsset("AAPL", "Technology")
	a.Industry = "Consumer Electronics"
	a.MarketCapitalization = domain.NewNullDecimal(domain.NewDecimalFromInt(3000000))
	a.PERatio = domain.NewNullDecimal(domain.MustDecimal("28.5"))
	a.DividendYield = domain.NewNullDecimal(domain.MustDecimal("0.0045"))
	a.ExDividendDate = domain.NewNullDate(testDate(8))

	err := repo.Upsert(ctx, a)
	assert.NoError(t, err)
	assert.False(t, a.LastUpdated.IsZero())
	assert.False(t, a.CreatedDate.IsZero())

	found, err := repo.Get(ctx, "AAPL")
	assert.NoError(t, err)
	assert.Equal(t, "AAPL", found.Symbol)
	assert.Equal(t, "AAPL Corp", found.Name)
	assert.Equal(t, "Technology", found.Sector)
	assert.Equal(t, domain.AssetTypeStock, found.AssetType)
	assert.True(t, found.IsActive)
	assert.True(t, found.PERatio.Valid)
	assert.True(t, found.PERatio.Decimal.Equal(domain.MustDecimal("28.5")))
	assert.True(t, found.ExDividendDate.Valid)
	assert.Equal(t, "2024-03-08", found.ExDividendDate.Time.Format(domain.DateLayout))
	assert.False(t, found.EBITDA.Valid)
}

func TestAssetRepository_Upsert_ReplacesSnapshot(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssetRepository(db)
	ctx := context.Background()

	a := testAsset("MSFT", "Technology")
	a.PERatio = domain.NewNullDecimal(domain.NewDecimalFromInt(30))
	require.NoError(t, repo.Upsert(ctx, a))
	created := a.CreatedDate

	updated := testAsset("MSFT", "Technology")
	updated.Name = "Microsoft Corporation"
	updated.PERatio = domain.NewNullDecimal(domain.NewDecimalFromInt(35))
	require.NoError(t, repo.Upsert(ctx, updated))

	found, err := repo.Get(ctx, "MSFT")
	assert.NoError(t, err)
	assert.Equal(t, "Microsoft Corporation", found.Name)
	assert.True(t, found.PERatio.Decimal.Equal(domain.NewDecimalFromInt(35)))
	assert.Equal(t, created.Format(domain.DateLayout), found.CreatedDate.Format(domain.DateLayout))
}

func TestAssetRepository_Upsert_ClearsDroppedMetrics(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssetRepository(db)
	ctx := context.Background()

	a := testAsset("NVDA", "Technology")
	a.EPS = domain.NewNullDecimal(domain.MustDecimal("12.96"))
	require.NoError(t, repo.Upsert(ctx, a))

	// The replacement snapshot no longer reports EPS.
	require.NoError(t, repo.Upsert(ctx, testAsset("NVDA", "Technology")))

	found, err := repo.Get(ctx, "NVDA")
	assert.NoError(t, err)
	assert.False(t, found.EPS.Valid)
}

func TestAssetRepository_Get_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssetRepository(db)

	_, err := repo.Get(context.Background(), "NOPE")
	assert.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestAssetRepository_Deactivate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssetRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testAsset("AAPL", "Technology")))
	require.NoError(t, repo.Upsert(ctx, testAsset("MSFT", "Technology")))

	err := repo.Deactivate(ctx, "aapl")
	assert.NoError(t, err)

	found, err := repo.Get(ctx, "AAPL")
	assert.NoError(t, err)
	assert.False(t, found.IsActive)

	active, err := repo.ListActive(ctx)
	assert.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, "MSFT", active[0].Symbol)
}

func TestAssetRepository_Deactivate_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssetRepository(db)

	err := repo.Deactivate(context.Background(), "NOPE")
	assert.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestAssetRepository_ListActive_RankedByMarketCap(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssetRepository(db)
	ctx := context.Background()

	small := testAsset("SMALL", "Technology")
	small.MarketCapitalization = domain.NewNullDecimal(domain.NewDecimalFromInt(100))
	big := testAsset("BIG", "Technology")
	big.MarketCapitalization = domain.NewNullDecimal(domain.NewDecimalFromInt(300))
	unknown := testAsset("UNKNOWN", "Technology")

	require.NoError(t, repo.Upsert(ctx, small))
	require.NoError(t, repo.Upsert(ctx, big))
	require.NoError(t, repo.Upsert(ctx, unknown))

	active, err := repo.ListActive(ctx)
	assert.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, "BIG", active[0].Symbol)
	assert.Equal(t, "SMALL", active[1].Symbol)
	assert.Equal(t, "UNKNOWN", active[2].Symbol)
}

func TestAssetRepository_Delete_CascadesAcrossSeries(t *testing.T) {
	db := setupTestDB(t)
	assets := NewAssetRepository(db)
	prices := NewPriceRepository(db, domain.UpsertReject)
	indices := NewIndexRepository(db, domain.UpsertReject)
	volatility := NewVolatilityRepository(db, domain.UpsertReject)
	ctx := context.Background()

	seedAsset(t, db, "AAPL")
	seedAsset(t, db, "MSFT")

	require.NoError(t, prices.Append(ctx, testPrice("AAPL", 1, 100)))
	require.NoError(t, prices.Append(ctx, testPrice("AAPL", 2, 105)))
	require.NoError(t, prices.Append(ctx, testPrice("MSFT", 1, 400)))
	require.NoError(t, indices.Append(ctx, &domain.MarketIndex{
		Symbol: "AAPL", Date: testDate(1), IndexValue: domain.NewDecimalFromInt(5000),
	}))
	require.NoError(t, volatility.Append(ctx, &domain.VolatilityObservation{
		UnderlyingSymbol: "AAPL", VolatilityType: "Realized", Date: testDate(1),
		VolatilityPeriod: 30, VolatilityValue: domain.MustDecimal("0.2"),
	}))

	err := assets.Delete(ctx, "AAPL")
	assert.NoError(t, err)

	_, err = assets.Get(ctx, "AAPL")
	assert.True(t, domain.IsNotFound(err))

	history, err := prices.RangeQuery(ctx, "AAPL", time.Time{}, time.Time{})
	assert.NoError(t, err)
	assert.Empty(t, history)

	indexRows, err := indices.RangeQuery(ctx, "AAPL", time.Time{}, time.Time{})
	assert.NoError(t, err)
	assert.Empty(t, indexRows)

	volRows, err := volatility.RangeQuery(ctx, "AAPL", time.Time{}, time.Time{})
	assert.NoError(t, err)
	assert.Empty(t, volRows)

	// The sibling asset's history is untouched.
	remaining, err := prices.RangeQuery(ctx, "MSFT", time.Time{}, time.Time{})
	assert.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestAssetRepository_Delete_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssetRepository(db)

	err := repo.Delete(context.Background(), "NOPE")
	assert.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

// --- Price Series Tests ---

func TestPriceRepository_Append_RejectsUnknownSymbol(t *testing.T) {
	db := setupTestDB(t)
	prices := NewPriceRepository(db, domain.UpsertReject)

	err := prices.Append(context.Background(), testPrice("GHOST", 1, 100))
	assert.Error(t, err)
	assert.True(t, domain.IsForeignKey(err))
}

func TestPriceRepository_Append_RejectPolicy_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	prices := NewPriceRepository(db, domain.UpsertReject)
	ctx := context.Background()

	seedAsset(t, db, "AAPL")
	require.NoError(t, prices.Append(ctx, testPrice("AAPL", 1, 100)))

	err := prices.Append(ctx, testPrice("AAPL", 1, 101))
	assert.Error(t, err)
	assert.True(t, domain.IsDuplicate(err))

	// The original row is untouched.
	latest, err := prices.Latest(ctx, "AAPL")
	assert.NoError(t, err)
	assert.True(t, latest.ClosePrice.Equal(domain.NewDecimalFromInt(100)))
}

func TestPriceRepository_Append_ReplacePolicy_Overwrites(t *testing.T) {
	db := setupTestDB(t)
	prices := NewPriceRepository(db, domain.UpsertReplace)
	ctx := context.Background()

	seedAsset(t, db, "AAPL")
	require.NoError(t, prices.Append(ctx, testPrice("AAPL", 1, 100)))
	require.NoError(t, prices.Append(ctx, testPrice("AAPL", 1, 101)))

	history, err := prices.RangeQuery(ctx, "AAPL", time.Time{}, time.Time{})
	assert.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].ClosePrice.Equal(domain.NewDecimalFromInt(101)))
}

func TestPriceRepository_RangeQuery_Bounds(t *testing.T) {
	db := setupTestDB(t)
	prices := NewPriceRepository(db, domain.UpsertReject)
	ctx := context.Background()

	seedAsset(t, db, "AAPL")
	for day := 1; day <= 5; day++ {
		require.NoError(t, prices.Append(ctx, testPrice("AAPL", day, int64(100+day))))
	}

	// Both bounds inclusive.
	window, err := prices.RangeQuery(ctx, "AAPL", testDate(2), testDate(4))
	assert.NoError(t, err)
	require.Len(t, window, 3)
	assert.Equal(t, testDate(2).Format(domain.DateLayout), window[0].Date.Format(domain.DateLayout))
	assert.Equal(t, testDate(4).Format(domain.DateLayout), window[2].Date.Format(domain.DateLayout))

	// Zero bounds leave the range open.
	all, err := prices.RangeQuery(ctx, "AAPL", time.Time{}, time.Time{})
	assert.NoError(t, err)
	assert.Len(t, all, 5)

	tail, err := prices.RangeQuery(ctx, "AAPL", testDate(4), time.Time{})
	assert.NoError(t, err)
	assert.Len(t, tail, 2)

	none, err := prices.RangeQuery(ctx, "AAPL", testDate(10), time.Time{})
	assert.NoError(t, err)
	assert.Empty(t, none)
}

func TestPriceRepository_RangeQuery_Ascending(t *testing.T) {
	db := setupTestDB(t)
	prices := NewPriceRepository(db, domain.UpsertReject)
	ctx := context.Background()

	seedAsset(t, db, "AAPL")
	for _, day := range []int{3, 1, 2} {
		require.NoError(t, prices.Append(ctx, testPrice("AAPL", day, 100)))
	}

	history, err := prices.RangeQuery(ctx, "AAPL", time.Time{}, time.Time{})
	assert.NoError(t, err)
	require.Len(t, history, 3)
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i].Date.After(history[i-1].Date))
	}
}

func TestPriceRepository_Latest(t *testing.T) {
	db := setupTestDB(t)
	prices := NewPriceRepository(db, domain.UpsertReject)
	ctx := context.Background()

	seedAsset(t, db, "AAPL")
	require.NoError(t, prices.Append(ctx, testPrice("AAPL", 1, 100)))
	require.NoError(t, prices.Append(ctx, testPrice("AAPL", 3, 95)))
	require.NoError(t, prices.Append(ctx, testPrice("AAPL", 2, 105)))

	latest, err := prices.Latest(ctx, "AAPL")
	assert.NoError(t, err)
	assert.Equal(t, testDate(3).Format(domain.DateLayout), latest.Date.Format(domain.DateLayout))
	assert.True(t, latest.ClosePrice.Equal(domain.NewDecimalFromInt(95)))
}

func TestPriceRepository_Latest_NotFound(t *testing.T) {
	db := setupTestDB(t)
	prices := NewPriceRepository(db, domain.UpsertReject)

	_, err := prices.Latest(context.Background(), "NOPE")
	assert.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

// --- Volatility Tests ---

func TestVolatilityRepository_FourPartKey(t *testing.T) {
	db := setupTestDB(t)
	volatility := NewVolatilityRepository(db, domain.UpsertReject)
	ctx := context.Background()

	seedAsset(t, db, "SPY")

	base := domain.VolatilityObservation{
		UnderlyingSymbol: "SPY", VolatilityType: "Realized", Date: testDate(1),
		VolatilityPeriod: 30, VolatilityValue: domain.MustDecimal("0.18"),
	}

	obs := base
	require.NoError(t, volatility.Append(ctx, &obs))

	// Same symbol and date under a different methodology or window is a
	// distinct observation.
	differentType := base
	differentType.VolatilityType = "GARCH"
	assert.NoError(t, volatility.Append(ctx, &differentType))

	differentPeriod := base
	differentPeriod.VolatilityPeriod = 60
	assert.NoError(t, volatility.Append(ctx, &differentPeriod))

	exact := base
	err := volatility.Append(ctx, &exact)
	assert.Error(t, err)
	assert.True(t, domain.IsDuplicate(err))

	rows, err := volatility.RangeQuery(ctx, "SPY", time.Time{}, time.Time{})
	assert.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestVolatilityRepository_ReplacePolicy(t *testing.T) {
	db := setupTestDB(t)
	volatility := NewVolatilityRepository(db, domain.UpsertReplace)
	ctx := context.Background()

	seedAsset(t, db, "SPY")

	obs := &domain.VolatilityObservation{
		UnderlyingSymbol: "SPY", VolatilityType: "Realized", Date: testDate(1),
		VolatilityPeriod: 30, VolatilityValue: domain.MustDecimal("0.18"),
	}
	require.NoError(t, volatility.Append(ctx, obs))

	corrected := *obs
	corrected.VolatilityValue = domain.MustDecimal("0.21")
	require.NoError(t, volatility.Append(ctx, &corrected))

	rows, err := volatility.RangeQuery(ctx, "SPY", time.Time{}, time.Time{})
	assert.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].VolatilityValue.Equal(domain.MustDecimal("0.21")))
}

// --- Market Index Tests ---

func TestIndexRepository_AppendAndRange(t *testing.T) {
	db := setupTestDB(t)
	indices := NewIndexRepository(db, domain.UpsertReject)
	ctx := context.Background()

	seedAsset(t, db, "SPX")

	obs := &domain.MarketIndex{
		Symbol: "SPX", Date: testDate(1),
		IndexValue:       domain.MustDecimal("5254.35"),
		ConstituentCount: domain.NewNullInt64(503),
	}
	require.NoError(t, indices.Append(ctx, obs))

	rows, err := indices.RangeQuery(ctx, "SPX", time.Time{}, time.Time{})
	assert.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IndexValue.Equal(domain.MustDecimal("5254.35")))
	assert.True(t, rows[0].ConstituentCount.Valid)
	assert.Equal(t, int64(503), rows[0].ConstituentCount.Int64)
}

func TestIndexRepository_Append_RejectsUnknownSymbol(t *testing.T) {
	db := setupTestDB(t)
	indices := NewIndexRepository(db, domain.UpsertReject)

	err := indices.Append(context.Background(), &domain.MarketIndex{
		Symbol: "GHOST", Date: testDate(1), IndexValue: domain.NewDecimalFromInt(1),
	})
	assert.Error(t, err)
	assert.True(t, domain.IsForeignKey(err))
}

// --- Economic Indicator Tests ---

func TestIndicatorRepository_AppendAndRange(t *testing.T) {
	db := setupTestDB(t)
	indicators := NewIndicatorRepository(db, domain.UpsertReject)
	ctx := context.Background()

	// Indicators are standalone: no asset row required.
	for day := 1; day <= 3; day++ {
		err := indicators.Append(ctx, &domain.EconomicIndicator{
			IndicatorName: "CPI", Date: testDate(day),
			Value: domain.MustDecimal("3.2"), Frequency: domain.FrequencyMonthly,
		})
		require.NoError(t, err)
	}

	rows, err := indicators.RangeQuery(ctx, "CPI", testDate(2), time.Time{})
	assert.NoError(t, err)
	assert.Len(t, rows, 2)

	latest, err := indicators.Latest(ctx, "CPI")
	assert.NoError(t, err)
	assert.Equal(t, testDate(3).Format(domain.DateLayout), latest.Date.Format(domain.DateLayout))
}

func TestIndicatorRepository_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	indicators := NewIndicatorRepository(db, domain.UpsertReject)
	ctx := context.Background()

	obs := &domain.EconomicIndicator{
		IndicatorName: "GDP", Date: testDate(1),
		Value: domain.MustDecimal("2.1"), Frequency: domain.FrequencyQuarterly,
	}
	require.NoError(t, indicators.Append(ctx, obs))

	err := indicators.Append(ctx, obs)
	assert.Error(t, err)
	assert.True(t, domain.IsDuplicate(err))
}

// --- Sector Performance Tests ---

func TestSectorRepository_AppendAndRange(t *testing.T) {
	db := setupTestDB(t)
	sectors := NewSectorRepository(db, domain.UpsertReject)
	ctx := context.Background()

	perf := &domain.SectorPerformance{
		Sector: "Technology", Date: testDate(1),
		DailyReturn:    domain.NewNullDecimal(domain.MustDecimal("0.012")),
		NumberOfAssets: domain.NewNullInt64(64),
	}
	require.NoError(t, sectors.Append(ctx, perf))

	rows, err := sectors.RangeQuery(ctx, "Technology", time.Time{}, time.Time{})
	assert.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Technology", rows[0].Sector)
	assert.True(t, rows[0].DailyReturn.Decimal.Equal(domain.MustDecimal("0.012")))
	assert.Equal(t, int64(64), rows[0].NumberOfAssets.Int64)
}

// --- Analytics View Tests ---

func TestAnalyticsRepository_AssetOverview_ActiveOnly(t *testing.T) {
	db := setupTestDB(t)
	assets := NewAssetRepository(db)
	analytics := NewAnalyticsRepository(db)
	ctx := context.Background()

	active := testAsset("AAPL", "Technology")
	active.MarketCapitalization = domain.NewNullDecimal(domain.NewDecimalFromInt(3000))
	inactive := testAsset("OLD", "Technology")
	inactive.IsActive = false

	require.NoError(t, assets.Upsert(ctx, active))
	require.NoError(t, assets.Upsert(ctx, inactive))

	overview, err := analytics.AssetOverview(ctx)
	assert.NoError(t, err)
	require.Len(t, overview, 1)
	assert.Equal(t, "AAPL", overview[0].Symbol)
	assert.True(t, overview[0].MarketCapitalization.Valid)
}

func TestAnalyticsRepository_LatestPrices(t *testing.T) {
	db := setupTestDB(t)
	prices := NewPriceRepository(db, domain.UpsertReject)
	analytics := NewAnalyticsRepository(db)
	ctx := context.Background()

	seedAsset(t, db, "AAPL")
	seedAsset(t, db, "MSFT")
	seedAsset(t, db, "NOPRICES")

	require.NoError(t, prices.Append(ctx, testPrice("AAPL", 1, 100)))
	require.NoError(t, prices.Append(ctx, testPrice("AAPL", 2, 105)))
	require.NoError(t, prices.Append(ctx, testPrice("MSFT", 1, 400)))

	latest, err := analytics.LatestPrices(ctx)
	assert.NoError(t, err)
	require.Len(t, latest, 2)

	assert.Equal(t, "AAPL", latest[0].Symbol)
	assert.Equal(t, testDate(2).Format(domain.DateLayout), latest[0].Date.Format(domain.DateLayout))
	assert.True(t, latest[0].ClosePrice.Equal(domain.NewDecimalFromInt(105)))
	assert.Equal(t, "MSFT", latest[1].Symbol)
}

func TestAnalyticsRepository_SectorAnalysis(t *testing.T) {
	db := setupTestDB(t)
	assets := NewAssetRepository(db)
	analytics := NewAnalyticsRepository(db)
	ctx := context.Background()

	lowPE := testAsset("LOW", "Technology")
	lowPE.PERatio = domain.NewNullDecimal(domain.NewDecimalFromInt(10))
	lowPE.MarketCapitalization = domain.NewNullDecimal(domain.NewDecimalFromInt(100))
	highPE := testAsset("HIGH", "Technology")
	highPE.PERatio = domain.NewNullDecimal(domain.NewDecimalFromInt(30))
	highPE.MarketCapitalization = domain.NewNullDecimal(domain.NewDecimalFromInt(300))

	// Excluded: no P/E, inactive, no sector.
	noPE := testAsset("NOPE", "Technology")
	inactive := testAsset("GONE", "Technology")
	inactive.PERatio = domain.NewNullDecimal(domain.NewDecimalFromInt(99))
	inactive.IsActive = false
	noSector := testAsset("BLANK", "")
	noSector.PERatio = domain.NewNullDecimal(domain.NewDecimalFromInt(99))

	for _, a := range []*domain.Asset{lowPE, highPE, noPE, inactive, noSector} {
		require.NoError(t, assets.Upsert(ctx, a))
	}

	stats, err := analytics.SectorAnalysis(ctx)
	assert.NoError(t, err)
	require.Len(t, stats, 1)

	tech := stats[0]
	assert.Equal(t, "Technology", tech.Sector)
	assert.Equal(t, int64(2), tech.AssetCount.Int64)
	assert.True(t, tech.AvgPERatio.Valid)
	assert.True(t, tech.AvgPERatio.Decimal.Equal(domain.NewDecimalFromInt(20)))
	assert.True(t, tech.TotalMarketCap.Decimal.Equal(domain.NewDecimalFromInt(400)))
	assert.True(t, tech.MinMarketCap.Decimal.Equal(domain.NewDecimalFromInt(100)))
	assert.True(t, tech.MaxMarketCap.Decimal.Equal(domain.NewDecimalFromInt(300)))
}

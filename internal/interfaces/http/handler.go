package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/finmarkets/marketstore/internal/application"
	"github.com/finmarkets/marketstore/internal/domain"
	"github.com/gin-gonic/gin"
)

// Ingestor defines the write operations the handlers depend on.
type Ingestor interface {
	UpsertAsset(ctx context.Context, a *domain.Asset) error
	DeactivateAsset(ctx context.Context, symbol string) error
	DeleteAsset(ctx context.Context, symbol string) error
	AppendDailyPrice(ctx context.Context, p *domain.DailyPrice) error
	IngestPriceBatch(ctx context.Context, prices []domain.DailyPrice) *application.IngestPricesResult
	AppendMarketIndex(ctx context.Context, m *domain.MarketIndex) error
	AppendVolatility(ctx context.Context, v *domain.VolatilityObservation) error
	AppendIndicator(ctx context.Context, i *domain.EconomicIndicator) error
	AppendSectorPerformance(ctx context.Context, sp *domain.SectorPerformance) error
}

// Querier defines the read operations the handlers depend on.
type Querier interface {
	GetAsset(ctx context.Context, symbol string) (*domain.Asset, error)
	ListActiveAssets(ctx context.Context) ([]domain.Asset, error)
	GetAssetOverview(ctx context.Context) ([]domain.AssetOverview, error)
	GetLatestPrices(ctx context.Context) ([]domain.LatestAssetPrice, error)
	GetSectorAnalysis(ctx context.Context) ([]domain.SectorStats, error)
	CollectDailyReturns(ctx context.Context, symbol string, from, to time.Time) ([]domain.DailyReturn, error)
	GetPriceRange(ctx context.Context, symbol string, from, to time.Time) ([]domain.DailyPrice, error)
	GetLatestPrice(ctx context.Context, symbol string) (*domain.DailyPrice, error)
	GetIndexRange(ctx context.Context, symbol string, from, to time.Time) ([]domain.MarketIndex, error)
	GetVolatilityRange(ctx context.Context, symbol string, from, to time.Time) ([]domain.VolatilityObservation, error)
	GetIndicatorRange(ctx context.Context, name string, from, to time.Time) ([]domain.EconomicIndicator, error)
	GetSectorRange(ctx context.Context, sector string, from, to time.Time) ([]domain.SectorPerformance, error)
}

type Handler struct {
	ingest Ingestor
	query  Querier
}

func NewHandler(ingest Ingestor, query Querier) *Handler {
	return &Handler{
		ingest: ingest,
		query:  query,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsDuplicate(err):
		return http.StatusConflict
	case domain.IsForeignKey(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "Request failed", "op", op, "error", err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}

// dateRange parses optional from/to query parameters. Absent parameters
// leave the corresponding bound open (zero time).
func dateRange(c *gin.Context) (from, to time.Time, err error) {
	if s := c.Query("from"); s != "" {
		from, err = time.Parse(domain.DateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, &domain.ValidationError{Field: "from", Reason: "must be YYYY-MM-DD"}
		}
	}
	if s := c.Query("to"); s != "" {
		to, err = time.Parse(domain.DateLayout, s)
		if err != nil {
			return time.Time{}, time.Time{}, &domain.ValidationError{Field: "to", Reason: "must be YYYY-MM-DD"}
		}
	}
	return from, to, nil
}

func (h *Handler) UpsertAsset(c *gin.Context) {
	var asset domain.Asset
	if err := c.ShouldBindJSON(&asset); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.ingest.UpsertAsset(c.Request.Context(), &asset); err != nil {
		respondError(c, "upsert asset", err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *Handler) ListAssets(c *gin.Context) {
	assets, err := h.query.ListActiveAssets(c.Request.Context())
	if err != nil {
		respondError(c, "list assets", err)
		return
	}
	c.JSON(http.StatusOK, assets)
}

func (h *Handler) GetAsset(c *gin.Context) {
	asset, err := h.query.GetAsset(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondError(c, "get asset", err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (h *Handler) DeactivateAsset(c *gin.Context) {
	if err := h.ingest.DeactivateAsset(c.Request.Context(), c.Param("symbol")); err != nil {
		respondError(c, "deactivate asset", err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *Handler) DeleteAsset(c *gin.Context) {
	if err := h.ingest.DeleteAsset(c.Request.Context(), c.Param("symbol")); err != nil {
		respondError(c, "delete asset", err)
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

func (h *Handler) AppendPrice(c *gin.Context) {
	var price domain.DailyPrice
	if err := c.ShouldBindJSON(&price); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.ingest.AppendDailyPrice(c.Request.Context(), &price); err != nil {
		respondError(c, "append price", err)
		return
	}

	c.JSON(http.StatusCreated, price)
}

func (h *Handler) IngestPriceBatch(c *gin.Context) {
	var prices []domain.DailyPrice
	if err := c.ShouldBindJSON(&prices); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result := h.ingest.IngestPriceBatch(c.Request.Context(), prices)

	status := http.StatusOK
	if len(result.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, result)
}

func (h *Handler) GetPriceRange(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		respondError(c, "price range", err)
		return
	}

	prices, err := h.query.GetPriceRange(c.Request.Context(), c.Param("symbol"), from, to)
	if err != nil {
		respondError(c, "price range", err)
		return
	}
	c.JSON(http.StatusOK, prices)
}

func (h *Handler) GetLatestPrice(c *gin.Context) {
	price, err := h.query.GetLatestPrice(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondError(c, "latest price", err)
		return
	}
	c.JSON(http.StatusOK, price)
}

func (h *Handler) AppendIndex(c *gin.Context) {
	var index domain.MarketIndex
	if err := c.ShouldBindJSON(&index); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.ingest.AppendMarketIndex(c.Request.Context(), &index); err != nil {
		respondError(c, "append index", err)
		return
	}

	c.JSON(http.StatusCreated, index)
}

func (h *Handler) GetIndexRange(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		respondError(c, "index range", err)
		return
	}

	observations, err := h.query.GetIndexRange(c.Request.Context(), c.Param("symbol"), from, to)
	if err != nil {
		respondError(c, "index range", err)
		return
	}
	c.JSON(http.StatusOK, observations)
}

func (h *Handler) AppendVolatility(c *gin.Context) {
	var obs domain.VolatilityObservation
	if err := c.ShouldBindJSON(&obs); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.ingest.AppendVolatility(c.Request.Context(), &obs); err != nil {
		respondError(c, "append volatility", err)
		return
	}

	c.JSON(http.StatusCreated, obs)
}

func (h *Handler) GetVolatilityRange(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		respondError(c, "volatility range", err)
		return
	}

	observations, err := h.query.GetVolatilityRange(c.Request.Context(), c.Param("symbol"), from, to)
	if err != nil {
		respondError(c, "volatility range", err)
		return
	}
	c.JSON(http.StatusOK, observations)
}

func (h *Handler) AppendIndicator(c *gin.Context) {
	var indicator domain.EconomicIndicator
	if err := c.ShouldBindJSON(&indicator); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.ingest.AppendIndicator(c.Request.Context(), &indicator); err != nil {
		respondError(c, "append indicator", err)
		return
	}

	c.JSON(http.StatusCreated, indicator)
}

func (h *Handler) GetIndicatorRange(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		respondError(c, "indicator range", err)
		return
	}

	observations, err := h.query.GetIndicatorRange(c.Request.Context(), c.Param("name"), from, to)
	if err != nil {
		respondError(c, "indicator range", err)
		return
	}
	c.JSON(http.StatusOK, observations)
}

func (h *Handler) AppendSectorPerformance(c *gin.Context) {
	var perf domain.SectorPerformance
	if err := c.ShouldBindJSON(&perf); err != nil {
		slog.ErrorContext(c.Request.Context(), "Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.ingest.AppendSectorPerformance(c.Request.Context(), &perf); err != nil {
		respondError(c, "append sector performance", err)
		return
	}

	c.JSON(http.StatusCreated, perf)
}

func (h *Handler) GetSectorRange(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		respondError(c, "sector range", err)
		return
	}

	observations, err := h.query.GetSectorRange(c.Request.Context(), c.Param("sector"), from, to)
	if err != nil {
		respondError(c, "sector range", err)
		return
	}
	c.JSON(http.StatusOK, observations)
}

func (h *Handler) GetAssetOverview(c *gin.Context) {
	overview, err := h.query.GetAssetOverview(c.Request.Context())
	if err != nil {
		respondError(c, "asset overview", err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *Handler) GetLatestPrices(c *gin.Context) {
	prices, err := h.query.GetLatestPrices(c.Request.Context())
	if err != nil {
		respondError(c, "latest prices", err)
		return
	}
	c.JSON(http.StatusOK, prices)
}

func (h *Handler) GetDailyReturns(c *gin.Context) {
	from, to, err := dateRange(c)
	if err != nil {
		respondError(c, "daily returns", err)
		return
	}

	returns, err := h.query.CollectDailyReturns(c.Request.Context(), c.Param("symbol"), from, to)
	if err != nil {
		respondError(c, "daily returns", err)
		return
	}
	c.JSON(http.StatusOK, returns)
}

func (h *Handler) GetSectorAnalysis(c *gin.Context) {
	stats, err := h.query.GetSectorAnalysis(c.Request.Context())
	if err != nil {
		respondError(c, "sector analysis", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

package application

import (
	"context"
	"log/slog"

	"github.com/finmarkets/marketstore/internal/domain"
	"github.com/google/uuid"
)

// PriceBatchResult reports the outcome of a single record in a batch.
type PriceBatchResult struct {
	Symbol string `json:"symbol"`
	Date   string `json:"date"`
	Error  string `json:"error,omitempty"`
}

// IngestPricesResult splits a batch into accepted and rejected records.
type IngestPricesResult struct {
	BatchID    string             `json:"batch_id"`
	Successful []PriceBatchResult `json:"successful"`
	Failed     []PriceBatchResult `json:"failed"`
}

// IngestPriceBatch appends a collector's daily batch record by record.
// Each append is its own atomic write, so one malformed or unregistered
// row rejects that row alone and the rest of the batch lands. The batch
// ID ties the per-record log lines together.
func (s *IngestService) IngestPriceBatch(ctx context.Context, prices []domain.DailyPrice) *IngestPricesResult {
	result := &IngestPricesResult{
		BatchID:    uuid.New().String(),
		Successful: make([]PriceBatchResult, 0, len(prices)),
		Failed:     make([]PriceBatchResult, 0),
	}

	if len(prices) == 0 {
		return result
	}

	slog.InfoContext(ctx, "Ingesting price batch", "batch_id", result.BatchID, "count", len(prices))

	for i := range prices {
		p := &prices[i]
		record := PriceBatchResult{
			Symbol: domain.NormalizeSymbol(p.Symbol),
			Date:   p.Date.Format(domain.DateLayout),
		}

		if err := s.AppendDailyPrice(ctx, p); err != nil {
			record.Error = err.Error()
			result.Failed = append(result.Failed, record)
			slog.WarnContext(ctx, "Rejected price record", "batch_id", result.BatchID,
				"symbol", record.Symbol, "date", record.Date, "error", err)
			continue
		}
		result.Successful = append(result.Successful, record)
	}

	slog.InfoContext(ctx, "Price batch finished", "batch_id", result.BatchID,
		"accepted", len(result.Successful), "rejected", len(result.Failed))
	return result
}

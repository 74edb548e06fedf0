package http

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api/v1")
	{
		api.POST("/assets", handler.UpsertAsset)
		api.GET("/assets", handler.ListAssets)
		api.GET("/assets/:symbol", handler.GetAsset)
		api.POST("/assets/:symbol/deactivate", handler.DeactivateAsset)
		api.DELETE("/assets/:symbol", handler.DeleteAsset)

		api.POST("/prices", handler.AppendPrice)
		api.POST("/prices/batch", handler.IngestPriceBatch)
		api.GET("/prices/:symbol", handler.GetPriceRange)
		api.GET("/prices/:symbol/latest", handler.GetLatestPrice)

		api.POST("/indices", handler.AppendIndex)
		api.GET("/indices/:symbol", handler.GetIndexRange)

		api.POST("/volatility", handler.AppendVolatility)
		api.GET("/volatility/:symbol", handler.GetVolatilityRange)

		api.POST("/indicators", handler.AppendIndicator)
		api.GET("/indicators/:name", handler.GetIndicatorRange)

		api.POST("/sectors", handler.AppendSectorPerformance)
		api.GET("/sectors/:sector", handler.GetSectorRange)

		api.GET("/analytics/overview", handler.GetAssetOverview)
		api.GET("/analytics/latest-prices", handler.GetLatestPrices)
		api.GET("/analytics/returns/:symbol", handler.GetDailyReturns)
		api.GET("/analytics/sectors", handler.GetSectorAnalysis)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

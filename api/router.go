package api

import (
	"net/http"

	"sales_orders/internal/messaging"
	"sales_orders/internal/sales"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CorrelationHeader carries the id that ties a request to the events it publishes.
const CorrelationHeader = "X-Correlation-Id"

// InitRoutes registers the sales endpoints on the given Gin engine.
func InitRoutes(e *gin.Engine, salesService *sales.Service, logger *zap.Logger) {
	salesHandler := NewSalesHandler(salesService, logger)

	e.Use(correlationMiddleware())

	g := e.Group("/api/sales")
	g.POST("", salesHandler.handleCreateSale)
	g.GET("", salesHandler.handleListSales)
	g.GET("/:id", salesHandler.handleGetSale)
	g.PUT("/:id", salesHandler.handleModifySale)
	g.PATCH("/:id/cancel", salesHandler.handleCancelSale)

	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}

// correlationMiddleware reuses a valid incoming correlation id or generates one,
// echoes it in the response and stores it in the request context.
func correlationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(CorrelationHeader))
		if err != nil {
			id = uuid.New()
		}
		c.Header(CorrelationHeader, id.String())
		c.Request = c.Request.WithContext(messaging.WithCorrelationID(c.Request.Context(), id.String()))
		c.Next()
	}
}

package api

import (
	"errors"
	"net/http"

	"sales_orders/internal/sales"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// salesHandler holds the sales service and implements HTTP handlers for sales operations.
type salesHandler struct {
	salesService *sales.Service
	logger       *zap.Logger
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(salesService *sales.Service, logger *zap.Logger) *salesHandler {
	return &salesHandler{
		salesService: salesService,
		logger:       logger,
	}
}

// handleCreateSale handles the POST /api/sales endpoint.
func (h *salesHandler) handleCreateSale(ctx *gin.Context) {
	var req createSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, apiResponse{Message: "invalid request payload"})
		return
	}

	sale, err := h.salesService.CreateSale(ctx.Request.Context(), req.toCommand())
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, apiResponse{
		Success: true,
		Message: "sale created successfully",
		Data:    toSaleResponse(sale),
	})
}

// handleGetSale handles the GET /api/sales/:id endpoint.
func (h *salesHandler) handleGetSale(ctx *gin.Context) {
	id, ok := h.saleID(ctx)
	if !ok {
		return
	}

	sale, err := h.salesService.GetSale(ctx.Request.Context(), id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "sale retrieved successfully",
		Data:    toSaleResponse(sale),
	})
}

// handleListSales handles the GET /api/sales endpoint.
func (h *salesHandler) handleListSales(ctx *gin.Context) {
	list, err := h.salesService.ListSales(ctx.Request.Context())
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "all sales retrieved successfully",
		Data:    toSaleResponses(list),
	})
}

// handleModifySale handles the PUT /api/sales/:id endpoint.
func (h *salesHandler) handleModifySale(ctx *gin.Context) {
	id, ok := h.saleID(ctx)
	if !ok {
		return
	}

	var req modifySaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("failed to bind JSON request", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, apiResponse{Message: "invalid request payload"})
		return
	}

	sale, err := h.salesService.ModifySale(ctx.Request.Context(), req.toCommand(id))
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "sale modified successfully",
		Data:    toSaleResponse(sale),
	})
}

// handleCancelSale handles the PATCH /api/sales/:id/cancel endpoint.
func (h *salesHandler) handleCancelSale(ctx *gin.Context) {
	id, ok := h.saleID(ctx)
	if !ok {
		return
	}

	sale, err := h.salesService.CancelSale(ctx.Request.Context(), id)
	if err != nil {
		h.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "sale cancelled successfully",
		Data:    toSaleResponse(sale),
	})
}

func (h *salesHandler) saleID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, apiResponse{Message: "invalid sale id"})
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps service errors to HTTP responses.
func (h *salesHandler) writeError(ctx *gin.Context, err error) {
	var (
		domainErr *sales.DomainError
		appErr    *sales.ApplicationError
		verrs     validator.ValidationErrors
	)

	switch {
	case errors.Is(err, sales.ErrNotFound):
		ctx.JSON(http.StatusNotFound, apiResponse{Message: err.Error()})
	case errors.Is(err, sales.ErrValidation):
		resp := apiResponse{Message: "validation failed"}
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				resp.Errors = append(resp.Errors, fieldError{Field: fe.Namespace(), Rule: fe.Tag()})
			}
		}
		ctx.JSON(http.StatusBadRequest, resp)
	case errors.Is(err, sales.ErrDuplicateNumber):
		ctx.JSON(http.StatusConflict, apiResponse{Message: err.Error()})
	case errors.As(err, &appErr):
		ctx.JSON(http.StatusBadRequest, apiResponse{Message: appErr.Message})
	case errors.As(err, &domainErr):
		ctx.JSON(http.StatusUnprocessableEntity, apiResponse{Message: domainErr.Message, Data: domainErr})
	default:
		h.logger.Error("request failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, apiResponse{Message: "internal error"})
	}
}

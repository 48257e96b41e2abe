package api

import (
	"time"

	"sales_orders/internal/sales"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type createSaleRequest struct {
	Number     string            `json:"number"`
	CustomerID uuid.UUID         `json:"customer_id"`
	BranchID   uuid.UUID         `json:"branch_id"`
	Items      []saleItemRequest `json:"items"`
}

type modifySaleRequest struct {
	Items []saleItemRequest `json:"items"`
}

type saleItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func (r createSaleRequest) toCommand() sales.CreateSaleCommand {
	items := make([]sales.CreateSaleItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = sales.CreateSaleItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return sales.CreateSaleCommand{
		Number:     r.Number,
		CustomerID: r.CustomerID,
		BranchID:   r.BranchID,
		Items:      items,
	}
}

func (r modifySaleRequest) toCommand(saleID uuid.UUID) sales.ModifySaleCommand {
	items := make([]sales.ItemRequest, len(r.Items))
	for i, it := range r.Items {
		items[i] = sales.ItemRequest{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return sales.ModifySaleCommand{SaleID: saleID, Items: items}
}

// SaleResponse is the HTTP representation of a sale.
type SaleResponse struct {
	ID           uuid.UUID          `json:"id"`
	Number       string             `json:"number"`
	Date         time.Time          `json:"date"`
	CustomerID   uuid.UUID          `json:"customer_id"`
	CustomerName string             `json:"customer_name"`
	BranchID     uuid.UUID          `json:"branch_id"`
	BranchName   string             `json:"branch_name"`
	Total        decimal.Decimal    `json:"total"`
	IsCancelled  bool               `json:"is_cancelled"`
	Items        []SaleItemResponse `json:"items"`
}

// SaleItemResponse is the HTTP representation of a sale line.
type SaleItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Total           decimal.Decimal `json:"total"`
	IsCancelled     bool            `json:"is_cancelled"`
}

func toSaleResponse(s *sales.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = SaleItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			Total:           it.Total,
			IsCancelled:     it.IsCancelled,
		}
	}
	return SaleResponse{
		ID:           s.ID,
		Number:       s.Number,
		Date:         s.Date,
		CustomerID:   s.CustomerID,
		CustomerName: s.CustomerName,
		BranchID:     s.BranchID,
		BranchName:   s.BranchName,
		Total:        s.Total,
		IsCancelled:  s.IsCancelled,
		Items:        items,
	}
}

func toSaleResponses(list []*sales.Sale) []SaleResponse {
	out := make([]SaleResponse, len(list))
	for i, s := range list {
		out[i] = toSaleResponse(s)
	}
	return out
}

type apiResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Data    any          `json:"data,omitempty"`
	Errors  []fieldError `json:"errors,omitempty"`
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

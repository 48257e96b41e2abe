package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MinItemQuantity is the smallest quantity a line can carry.
	MinItemQuantity = 1
	// MaxItemQuantity is the largest quantity of identical items in one line.
	MaxItemQuantity = 20
)

var (
	discountNone   = decimal.Zero
	discountMedium = decimal.RequireFromString("0.10")
	discountHigh   = decimal.RequireFromString("0.20")
)

// SaleItem is a line entry of a Sale. It is owned by its Sale and
// must only be mutated through the Sale's methods.
type SaleItem struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Total           decimal.Decimal `json:"total"`
	IsCancelled     bool            `json:"is_cancelled"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// NewSaleItem creates a new, active sale item with its discount and total computed.
func NewSaleItem(productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal) (*SaleItem, error) {
	now := time.Now()
	item := &SaleItem{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: strings.TrimSpace(productName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := item.apply(quantity, unitPrice); err != nil {
		return nil, err
	}
	return item, nil
}

// Update changes quantity and unit price and re-derives discount and total.
// The parent sale is responsible for rejecting updates on a cancelled sale.
func (i *SaleItem) Update(quantity int, unitPrice decimal.Decimal) error {
	if err := i.apply(quantity, unitPrice); err != nil {
		return err
	}
	i.UpdatedAt = time.Now()
	return nil
}

// Cancel marks the item as cancelled. The stored total is kept for audit.
func (i *SaleItem) Cancel() {
	i.IsCancelled = true
	i.UpdatedAt = time.Now()
}

func (i *SaleItem) apply(quantity int, unitPrice decimal.Decimal) error {
	if quantity < MinItemQuantity {
		return NewDomainError("INVALID_QUANTITY", "quantity must be at least 1")
	}
	if quantity > MaxItemQuantity {
		return NewDomainError("QUANTITY_LIMIT", "cannot sell more than 20 identical items")
	}
	if unitPrice.IsNegative() {
		return NewDomainError("INVALID_PRICE", "unit price cannot be negative")
	}

	discount, err := DiscountForQuantity(quantity)
	if err != nil {
		return err
	}

	i.Quantity = quantity
	i.UnitPrice = unitPrice.RoundBank(2)
	i.DiscountPercent = discount
	i.Total = LineTotal(quantity, i.UnitPrice, discount)
	return nil
}

// DiscountForQuantity returns the discount rate for a line of the given quantity.
// Tiers are inclusive at their upper bound: 1-3 none, 4-9 10%, 10-20 20%.
func DiscountForQuantity(quantity int) (decimal.Decimal, error) {
	switch {
	case quantity < 4:
		return discountNone, nil
	case quantity < 10:
		return discountMedium, nil
	case quantity <= MaxItemQuantity:
		return discountHigh, nil
	}
	return decimal.Zero, NewDomainError("QUANTITY_LIMIT", "quantity above 20 is not allowed")
}

// LineTotal computes quantity * unitPrice * (1 - discount), banker-rounded to cents.
func LineTotal(quantity int, unitPrice, discount decimal.Decimal) decimal.Decimal {
	gross := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	net := gross.Mul(decimal.NewFromInt(1).Sub(discount))
	return net.RoundBank(2)
}

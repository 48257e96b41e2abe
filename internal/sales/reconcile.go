package sales

import (
	"context"
	"fmt"
	"time"

	"sales_orders/internal/catalog"

	"github.com/google/uuid"
)

// ProductResolver resolves product name and price for new lines.
type ProductResolver = catalog.Resolver[catalog.Product]

// ItemRequest is one entry of a requested item list. Quantity 0 cancels
// the line for ProductID; a positive quantity sets it, adding the line if absent.
type ItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=0,max=20"`
}

// Reconcile makes the active lines of sale match requested. The request is
// authoritative: lines whose product is omitted are cancelled as if they had
// been sent with quantity 0. When no active line remains the whole sale is
// cancelled.
//
// It returns the item.cancelled events in the order they happened, followed
// by sale.cancelled when the sale was cancelled. Persisting the sale and
// publishing the events is left to the caller. On error the sale may be
// partially mutated and must be discarded.
func Reconcile(ctx context.Context, sale *Sale, requested []ItemRequest, products ProductResolver, now func() time.Time) ([]Event, error) {
	if sale.IsCancelled {
		return nil, NewApplicationError("sale is cancelled")
	}

	current := make(map[uuid.UUID]*SaleItem, len(sale.Items))
	for _, item := range sale.Items {
		current[item.ProductID] = item
	}
	wanted := make(map[uuid.UUID]struct{}, len(requested))
	for _, req := range requested {
		wanted[req.ProductID] = struct{}{}
	}

	var events []Event
	for _, req := range requested {
		if item, ok := current[req.ProductID]; ok {
			if req.Quantity == 0 {
				if err := sale.CancelItem(item.ID); err != nil {
					return nil, err
				}
				events = append(events, NewItemCancelledEvent(item.ID, now()))
				continue
			}
			if err := sale.UpdateItem(item.ID, req.Quantity, item.UnitPrice); err != nil {
				return nil, err
			}
			continue
		}

		if req.Quantity == 0 {
			continue
		}

		product, found, err := products.Resolve(ctx, req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve product %s: %w", req.ProductID, err)
		}
		if !found {
			return nil, NewApplicationError("product %s not found", req.ProductID)
		}
		if _, err := sale.AddItem(product.ID, product.Name, req.Quantity, product.Price); err != nil {
			return nil, err
		}
	}

	for _, item := range sale.Items {
		if _, ok := wanted[item.ProductID]; ok || item.IsCancelled {
			continue
		}
		if err := sale.CancelItem(item.ID); err != nil {
			return nil, err
		}
		events = append(events, NewItemCancelledEvent(item.ID, now()))
	}

	if !sale.HasActiveItems() {
		sale.Cancel()
		events = append(events, NewSaleCancelledEvent(sale.ID, now()))
	}

	return events, nil
}

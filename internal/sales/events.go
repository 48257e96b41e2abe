package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventKind identifies an integration event raised by the sales use cases.
type EventKind int

const (
	EventSaleCreated EventKind = iota + 1
	EventSaleModified
	EventSaleCancelled
	EventItemCancelled
)

// Wire names of the integration events.
const (
	EventNameSaleCreated   = "sale.created"
	EventNameSaleModified  = "sale.modified"
	EventNameSaleCancelled = "sale.cancelled"
	EventNameItemCancelled = "item.cancelled"
)

// Name returns the wire name of the event kind.
func (k EventKind) Name() string {
	switch k {
	case EventSaleCreated:
		return EventNameSaleCreated
	case EventSaleModified:
		return EventNameSaleModified
	case EventSaleCancelled:
		return EventNameSaleCancelled
	case EventItemCancelled:
		return EventNameItemCancelled
	}
	return "unknown"
}

func (k EventKind) String() string {
	return k.Name()
}

// Event is a named, timestamped payload published after a state change is saved.
type Event struct {
	Kind       EventKind
	Payload    any
	OccurredAt time.Time
}

// Name returns the wire name of the event.
func (e Event) Name() string {
	return e.Kind.Name()
}

// Publisher accepts an ordered batch of events.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// SaleCancelledPayload is the payload of sale.cancelled.
type SaleCancelledPayload struct {
	SaleID uuid.UUID `json:"sale_id"`
}

// ItemCancelledPayload is the payload of item.cancelled.
type ItemCancelledPayload struct {
	ItemID uuid.UUID `json:"item_id"`
}

// SaleSnapshot is the full view of a sale carried by sale.created and sale.modified.
type SaleSnapshot struct {
	ID           uuid.UUID          `json:"id"`
	Number       string             `json:"number"`
	Date         time.Time          `json:"date"`
	CustomerID   uuid.UUID          `json:"customer_id"`
	CustomerName string             `json:"customer_name"`
	BranchID     uuid.UUID          `json:"branch_id"`
	BranchName   string             `json:"branch_name"`
	Total        decimal.Decimal    `json:"total"`
	IsCancelled  bool               `json:"is_cancelled"`
	Items        []SaleItemSnapshot `json:"items"`
}

// SaleItemSnapshot is the event view of one sale line.
type SaleItemSnapshot struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Total           decimal.Decimal `json:"total"`
	IsCancelled     bool            `json:"is_cancelled"`
}

// Snapshot copies the current state of the sale into an event payload.
func (s *Sale) Snapshot() SaleSnapshot {
	items := make([]SaleItemSnapshot, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemSnapshot{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			Total:           item.Total,
			IsCancelled:     item.IsCancelled,
		}
	}

	return SaleSnapshot{
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

// NewSaleCreatedEvent creates a sale.created event.
func NewSaleCreatedEvent(s *Sale, at time.Time) Event {
	return Event{Kind: EventSaleCreated, Payload: s.Snapshot(), OccurredAt: at}
}

// NewSaleModifiedEvent creates a sale.modified event.
func NewSaleModifiedEvent(s *Sale, at time.Time) Event {
	return Event{Kind: EventSaleModified, Payload: s.Snapshot(), OccurredAt: at}
}

// NewSaleCancelledEvent creates a sale.cancelled event.
func NewSaleCancelledEvent(saleID uuid.UUID, at time.Time) Event {
	return Event{Kind: EventSaleCancelled, Payload: SaleCancelledPayload{SaleID: saleID}, OccurredAt: at}
}

// NewItemCancelledEvent creates an item.cancelled event.
func NewItemCancelledEvent(itemID uuid.UUID, at time.Time) Event {
	return Event{Kind: EventItemCancelled, Payload: ItemCancelledPayload{ItemID: itemID}, OccurredAt: at}
}

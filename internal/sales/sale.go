package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale represents a sales transaction in the system. It is the aggregate
// root for its items: every mutation goes through its methods, which keep
// Total equal to the sum of the active item totals.
//
// A Sale is not safe for concurrent use; callers serialize access per sale id.
type Sale struct {
	ID           uuid.UUID       `json:"id"`
	Number       string          `json:"number"`
	Date         time.Time       `json:"date"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	BranchID     uuid.UUID       `json:"branch_id"`
	BranchName   string          `json:"branch_name"`
	Total        decimal.Decimal `json:"total"`
	IsCancelled  bool            `json:"is_cancelled"`
	Items        []*SaleItem     `json:"items"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewSale creates an active sale with no items.
func NewSale(number string, date time.Time, customerID uuid.UUID, customerName string, branchID uuid.UUID, branchName string) (*Sale, error) {
	if strings.TrimSpace(number) == "" {
		return nil, NewDomainError("INVALID_NUMBER", "sale number is required")
	}

	now := time.Now()
	return &Sale{
		ID:           uuid.New(),
		Number:       strings.TrimSpace(number),
		Date:         date,
		CustomerID:   customerID,
		CustomerName: strings.TrimSpace(customerName),
		BranchID:     branchID,
		BranchName:   strings.TrimSpace(branchName),
		Total:        decimal.Zero,
		Items:        make([]*SaleItem, 0),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// AddItem appends a new line to the sale.
func (s *Sale) AddItem(productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal) (*SaleItem, error) {
	if err := s.ensureNotCancelled(); err != nil {
		return nil, err
	}

	item, err := NewSaleItem(productID, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	s.Items = append(s.Items, item)
	s.recalculateTotal()
	return item, nil
}

// UpdateItem changes quantity and unit price of an existing line.
func (s *Sale) UpdateItem(itemID uuid.UUID, quantity int, unitPrice decimal.Decimal) error {
	if err := s.ensureNotCancelled(); err != nil {
		return err
	}

	item, err := s.itemByID(itemID)
	if err != nil {
		return err
	}
	if err := item.Update(quantity, unitPrice); err != nil {
		return err
	}

	s.recalculateTotal()
	return nil
}

// CancelItem cancels a single line. The line stays in Items.
func (s *Sale) CancelItem(itemID uuid.UUID) error {
	if err := s.ensureNotCancelled(); err != nil {
		return err
	}

	item, err := s.itemByID(itemID)
	if err != nil {
		return err
	}
	item.Cancel()

	s.recalculateTotal()
	return nil
}

// RemoveItem drops a line from the sale. Removing an unknown id is a no-op,
// unlike UpdateItem and CancelItem which report "item not found".
func (s *Sale) RemoveItem(itemID uuid.UUID) error {
	if err := s.ensureNotCancelled(); err != nil {
		return err
	}

	kept := s.Items[:0]
	for _, item := range s.Items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	s.Items = kept

	s.recalculateTotal()
	return nil
}

// Cancel moves the sale to its terminal cancelled state and cancels every
// active line. Calling it again has no effect.
//
// Total is intentionally not recomputed: a cancelled sale keeps the total it
// had right before cancellation.
func (s *Sale) Cancel() {
	if s.IsCancelled {
		return
	}
	s.IsCancelled = true

	for _, item := range s.Items {
		if !item.IsCancelled {
			item.Cancel()
		}
	}
	s.UpdatedAt = time.Now()
}

// FindItemByProduct returns the last line for productID, if any.
func (s *Sale) FindItemByProduct(productID uuid.UUID) (*SaleItem, bool) {
	var found *SaleItem
	for _, item := range s.Items {
		if item.ProductID == productID {
			found = item
		}
	}
	return found, found != nil
}

// ActiveItems returns the lines that are not cancelled, in insertion order.
func (s *Sale) ActiveItems() []*SaleItem {
	active := make([]*SaleItem, 0, len(s.Items))
	for _, item := range s.Items {
		if !item.IsCancelled {
			active = append(active, item)
		}
	}
	return active
}

// HasActiveItems reports whether at least one line is not cancelled.
func (s *Sale) HasActiveItems() bool {
	for _, item := range s.Items {
		if !item.IsCancelled {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the sale and its items.
func (s *Sale) Clone() *Sale {
	cp := *s
	cp.Items = make([]*SaleItem, len(s.Items))
	for i, item := range s.Items {
		it := *item
		cp.Items[i] = &it
	}
	return &cp
}

func (s *Sale) itemByID(itemID uuid.UUID) (*SaleItem, error) {
	for _, item := range s.Items {
		if item.ID == itemID {
			return item, nil
		}
	}
	return nil, NewDomainError("ITEM_NOT_FOUND", "item not found")
}

func (s *Sale) recalculateTotal() {
	total := decimal.Zero
	for _, item := range s.Items {
		if !item.IsCancelled {
			total = total.Add(item.Total)
		}
	}
	s.Total = total.RoundBank(2)
	s.UpdatedAt = time.Now()
}

func (s *Sale) ensureNotCancelled() error {
	if s.IsCancelled {
		return NewDomainError("SALE_CANCELLED", "sale is cancelled")
	}
	return nil
}

package sales

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrValidation indicates that a command failed validation checks.
// The wrapped validator.ValidationErrors carries the field details.
var ErrValidation = errors.New("validation error")

// CreateSaleCommand holds the input of the create sale use case.
type CreateSaleCommand struct {
	Number     string           `json:"number" validate:"required"`
	CustomerID uuid.UUID        `json:"customer_id" validate:"required"`
	BranchID   uuid.UUID        `json:"branch_id" validate:"required"`
	Items      []CreateSaleItem `json:"items" validate:"required,min=1,dive"`
}

// CreateSaleItem is one requested line of a new sale.
type CreateSaleItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=1,max=20"`
}

// ModifySaleCommand holds the input of the modify sale use case.
type ModifySaleCommand struct {
	SaleID uuid.UUID     `json:"sale_id" validate:"required"`
	Items  []ItemRequest `json:"items" validate:"required,min=1,unique=ProductID,dive"`
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func validateCommand(v *validator.Validate, cmd any) error {
	if err := v.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

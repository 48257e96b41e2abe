package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sales_orders/internal/catalog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service provides high-level sales management operations on a Storage backend.
type Service struct {
	storage   Storage
	catalog   *catalog.Catalog
	publisher Publisher
	logger    *zap.Logger
	validate  *validator.Validate
	locks     *keyedLocker
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for sale dates and event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new Service.
func NewService(storage Storage, cat *catalog.Catalog, publisher Publisher, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		storage:   storage,
		catalog:   cat,
		publisher: publisher,
		logger:    logger,
		validate:  newValidator(),
		locks:     newKeyedLocker(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSale handles the creation of a new sale.
func (s *Service) CreateSale(ctx context.Context, cmd CreateSaleCommand) (*Sale, error) {
	if err := validateCommand(s.validate, cmd); err != nil {
		return nil, err
	}

	customer, ok, err := s.catalog.Customers.Resolve(ctx, cmd.CustomerID)
	if err != nil {
		s.logger.Error("error resolving customer", zap.String("customer_id", cmd.CustomerID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}
	if !ok {
		return nil, NewApplicationError("customer %s not found", cmd.CustomerID)
	}

	branch, ok, err := s.catalog.Branches.Resolve(ctx, cmd.BranchID)
	if err != nil {
		s.logger.Error("error resolving branch", zap.String("branch_id", cmd.BranchID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to resolve branch: %w", err)
	}
	if !ok {
		return nil, NewApplicationError("branch %s not found", cmd.BranchID)
	}

	sale, err := NewSale(cmd.Number, s.now(), customer.ID, customer.Name, branch.ID, branch.Name)
	if err != nil {
		return nil, err
	}

	for _, it := range cmd.Items {
		product, ok, err := s.catalog.Products.Resolve(ctx, it.ProductID)
		if err != nil {
			s.logger.Error("error resolving product", zap.String("product_id", it.ProductID.String()), zap.Error(err))
			return nil, fmt.Errorf("failed to resolve product: %w", err)
		}
		if !ok {
			return nil, NewApplicationError("product %s not found", it.ProductID)
		}
		if _, err := sale.AddItem(product.ID, product.Name, it.Quantity, product.Price); err != nil {
			return nil, err
		}
	}

	if err := s.storage.Create(ctx, sale); err != nil {
		s.logger.Error("failed to save sale", zap.String("sale_id", sale.ID.String()), zap.Error(err))
		if errors.Is(err, ErrDuplicateNumber) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	if err := s.publish(ctx, NewSaleCreatedEvent(sale, s.now())); err != nil {
		return nil, err
	}

	s.logger.Info("sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("number", sale.Number),
		zap.String("total", sale.Total.StringFixed(2)),
	)
	return sale, nil
}

// GetSale returns the sale with the given id or ErrNotFound.
func (s *Service) GetSale(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return s.storage.Read(ctx, id)
}

// ListSales returns every stored sale.
func (s *Service) ListSales(ctx context.Context) ([]*Sale, error) {
	allSales, err := s.storage.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get all sales from storage", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve sales: %w", err)
	}
	return allSales, nil
}

// CancelSale cancels a sale and all its lines. Cancelling an already
// cancelled sale succeeds without saving or publishing anything.
func (s *Service) CancelSale(ctx context.Context, id uuid.UUID) (*Sale, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	sale, err := s.storage.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale.IsCancelled {
		return sale, nil
	}

	sale.Cancel()
	if err := s.storage.Set(ctx, sale); err != nil {
		s.logger.Error("failed to update sale", zap.String("sale_id", sale.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}

	if err := s.publish(ctx, NewSaleCancelledEvent(sale.ID, s.now())); err != nil {
		return nil, err
	}

	s.logger.Info("sale cancelled", zap.String("sale_id", sale.ID.String()))
	return sale, nil
}

// ModifySale synchronizes the lines of a sale with the requested item list,
// saves the sale once and publishes the resulting events as one batch.
func (s *Service) ModifySale(ctx context.Context, cmd ModifySaleCommand) (*Sale, error) {
	if err := validateCommand(s.validate, cmd); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(cmd.SaleID)
	defer unlock()

	sale, err := s.storage.Read(ctx, cmd.SaleID)
	if err != nil {
		return nil, err
	}

	events, err := Reconcile(ctx, sale, cmd.Items, s.catalog.Products, s.now)
	if err != nil {
		s.logger.Warn("sale modification rejected", zap.String("sale_id", sale.ID.String()), zap.Error(err))
		return nil, err
	}

	if err := s.storage.Set(ctx, sale); err != nil {
		s.logger.Error("failed to update sale", zap.String("sale_id", sale.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}

	if !sale.IsCancelled {
		events = append(events, NewSaleModifiedEvent(sale, s.now()))
	}
	if err := s.publish(ctx, events...); err != nil {
		return nil, err
	}

	s.logger.Info("sale modified",
		zap.String("sale_id", sale.ID.String()),
		zap.Bool("cancelled", sale.IsCancelled),
		zap.Int("events", len(events)),
		zap.String("total", sale.Total.StringFixed(2)),
	)
	return sale, nil
}

func (s *Service) publish(ctx context.Context, events ...Event) error {
	if len(events) == 0 || s.publisher == nil {
		return nil
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish events", zap.Int("count", len(events)), zap.Error(err))
		return fmt.Errorf("failed to publish events: %w", err)
	}
	return nil
}

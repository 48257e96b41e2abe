package sales

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Storage is the main interface for our sales storage layer.
type Storage interface {
	// Create stores a new sale. Returns ErrDuplicateNumber when the number is taken.
	Create(ctx context.Context, sale *Sale) error
	// Set saves the current state of an existing sale.
	Set(ctx context.Context, sale *Sale) error
	// Read loads a sale by id. Returns ErrNotFound when it does not exist.
	Read(ctx context.Context, id uuid.UUID) (*Sale, error)
	GetAll(ctx context.Context) ([]*Sale, error)
}

// LocalStorage provides an in-memory implementation for storing sales.
// It keeps private copies, so callers never share state with the store.
type LocalStorage struct {
	mu sync.RWMutex
	m  map[uuid.UUID]*Sale
}

// NewLocalStorage instantiates a new LocalStorage for sales with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[uuid.UUID]*Sale{},
	}
}

// Create stores a new sale.
// Returns ErrEmptyID if the sale has an empty ID.
func (l *LocalStorage) Create(_ context.Context, sale *Sale) error {
	if sale.ID == uuid.Nil {
		return ErrEmptyID
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.m {
		if s.Number == sale.Number {
			return ErrDuplicateNumber
		}
	}
	l.m[sale.ID] = sale.Clone()
	return nil
}

// Set replaces the stored state of an existing sale.
// Returns ErrEmptyID if the sale has an empty ID and ErrNotFound if it was never created.
func (l *LocalStorage) Set(_ context.Context, sale *Sale) error {
	if sale.ID == uuid.Nil {
		return ErrEmptyID
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.m[sale.ID]; !ok {
		return ErrNotFound
	}
	l.m[sale.ID] = sale.Clone()
	return nil
}

// Read retrieves a sale from the local storage by ID.
// Returns ErrNotFound if the sale is not found.
func (l *LocalStorage) Read(_ context.Context, id uuid.UUID) (*Sale, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.m[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

// GetAll retrieves all sales, oldest first.
func (l *LocalStorage) GetAll(_ context.Context) ([]*Sale, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	sales := make([]*Sale, 0, len(l.m))
	for _, s := range l.m {
		sales = append(sales, s.Clone())
	}
	sort.Slice(sales, func(i, j int) bool {
		return sales[i].CreatedAt.Before(sales[j].CreatedAt)
	})
	return sales, nil
}

// Package catalog resolves the external reference data a sale is built from:
// products (name and price), customers and branches.
package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog record for a sellable product.
type Product struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Customer is the catalog record for a customer.
type Customer struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Branch is the catalog record for a branch.
type Branch struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Resolver looks a record up by id. A missing record is reported with
// ok == false and a nil error; err is reserved for lookup failures.
type Resolver[T any] interface {
	Resolve(ctx context.Context, id uuid.UUID) (record T, ok bool, err error)
}

// Catalog groups the three resolvers the sales use cases depend on.
type Catalog struct {
	Products  Resolver[Product]
	Customers Resolver[Customer]
	Branches  Resolver[Branch]
}

// MemoryResolver is a map backed Resolver.
type MemoryResolver[T any] struct {
	mu      sync.RWMutex
	records map[uuid.UUID]T
}

// NewMemoryResolver creates a MemoryResolver holding a copy of records.
func NewMemoryResolver[T any](records map[uuid.UUID]T) *MemoryResolver[T] {
	m := make(map[uuid.UUID]T, len(records))
	for id, rec := range records {
		m[id] = rec
	}
	return &MemoryResolver[T]{records: m}
}

// Resolve returns the record stored under id.
func (r *MemoryResolver[T]) Resolve(_ context.Context, id uuid.UUID) (T, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[id]
	return rec, ok, nil
}

// Put stores or replaces a record.
func (r *MemoryResolver[T]) Put(id uuid.UUID, rec T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[id] = rec
}

// Well-known ids of the seeded catalog.
var (
	ProductMouse    = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	ProductUSBCable = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	ProductKeyboard = uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")

	CustomerAlice = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	CustomerBob   = uuid.MustParse("44444444-4444-4444-4444-444444444444")

	BranchDowntown = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	BranchAirport  = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

// NewSeededCatalog returns an in-memory catalog with a fixed set of records,
// used when no remote catalog is configured.
func NewSeededCatalog() *Catalog {
	return &Catalog{
		Products: NewMemoryResolver(map[uuid.UUID]Product{
			ProductMouse:    {ID: ProductMouse, Name: "Mouse", Price: decimal.NewFromInt(50)},
			ProductUSBCable: {ID: ProductUSBCable, Name: "USB Cable", Price: decimal.NewFromInt(10)},
			ProductKeyboard: {ID: ProductKeyboard, Name: "Keyboard", Price: decimal.NewFromInt(120)},
		}),
		Customers: NewMemoryResolver(map[uuid.UUID]Customer{
			CustomerAlice: {ID: CustomerAlice, Name: "Alice Smith"},
			CustomerBob:   {ID: CustomerBob, Name: "Bob Johnson"},
		}),
		Branches: NewMemoryResolver(map[uuid.UUID]Branch{
			BranchDowntown: {ID: BranchDowntown, Name: "Downtown"},
			BranchAirport:  {ID: BranchAirport, Name: "Airport"},
		}),
	}
}

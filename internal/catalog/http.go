package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"resty.dev/v3"
)

// HTTPResolver resolves records from a remote catalog API exposing
// GET {baseURL}/{collection}/{id}. A 404 means the record does not exist.
type HTTPResolver[T any] struct {
	client     *resty.Client
	collection string
}

// NewHTTPResolver creates a resolver for one collection of the remote catalog.
func NewHTTPResolver[T any](client *resty.Client, collection string) *HTTPResolver[T] {
	return &HTTPResolver[T]{
		client:     client,
		collection: strings.Trim(collection, "/"),
	}
}

// Resolve fetches the record with the given id.
func (r *HTTPResolver[T]) Resolve(ctx context.Context, id uuid.UUID) (T, bool, error) {
	var out T
	res, err := r.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetPathParam("id", id.String()).
		SetResult(&out).
		Get("/" + r.collection + "/{id}")
	if err != nil {
		return out, false, fmt.Errorf("error making request to catalog API: %w", err)
	}

	switch res.StatusCode() {
	case http.StatusOK:
		return out, true, nil
	case http.StatusNotFound:
		return out, false, nil
	default:
		return out, false, fmt.Errorf("catalog API returned unexpected status: %d", res.StatusCode())
	}
}

// NewHTTPCatalog builds a Catalog backed by the remote catalog at baseURL.
func NewHTTPCatalog(baseURL string, timeout time.Duration) *Catalog {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout)

	return &Catalog{
		Products:  NewHTTPResolver[Product](client, "products"),
		Customers: NewHTTPResolver[Customer](client, "customers"),
		Branches:  NewHTTPResolver[Branch](client, "branches"),
	}
}

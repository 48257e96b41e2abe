package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"sales_orders/api"
	"sales_orders/internal/catalog"
	"sales_orders/internal/messaging"
	"sales_orders/internal/sales"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field string `json:"field"`
		Rule  string `json:"rule"`
	} `json:"errors"`
}

func initRoutesTests(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	core, events := observer.New(zap.InfoLevel)
	svc := sales.NewService(
		sales.NewLocalStorage(),
		catalog.NewSeededCatalog(),
		messaging.NewLoggingBus(zap.New(core)),
		zaptest.NewLogger(t),
	)
	api.InitRoutes(router, svc, zaptest.NewLogger(t))
	return router, events
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func decodeSale(t *testing.T, env envelope) api.SaleResponse {
	t.Helper()
	var s api.SaleResponse
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return s
}

func eventNames(logs *observer.ObservedLogs) []string {
	var names []string
	for _, e := range logs.FilterMessage("publishing event").All() {
		names = append(names, e.ContextMap()["event"].(string))
	}
	return names
}

// TestSalesHappyPath_FullFlow covers POST -> PUT -> GET -> PATCH cancel.
func TestSalesHappyPath_FullFlow(t *testing.T) {
	router, events := initRoutesTests(t)
	correlationID := uuid.NewString()

	var saleID uuid.UUID

	t.Run("POST_CreateSale", func(t *testing.T) {
		w, env := doRequest(t, router, http.MethodPost, "/api/sales", map[string]any{
			"number":      "S-0001",
			"customer_id": catalog.CustomerAlice,
			"branch_id":   catalog.BranchDowntown,
			"items": []map[string]any{
				{"product_id": catalog.ProductMouse, "quantity": 4},
				{"product_id": catalog.ProductUSBCable, "quantity": 2},
			},
		}, api.CorrelationHeader, correlationID)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.True(t, env.Success)
		assert.Equal(t, correlationID, w.Header().Get(api.CorrelationHeader))

		s := decodeSale(t, env)
		assert.NotEqual(t, uuid.Nil, s.ID)
		assert.Equal(t, "S-0001", s.Number)
		assert.Equal(t, "Alice Smith", s.CustomerName)
		assert.Equal(t, "Downtown", s.BranchName)
		require.Len(t, s.Items, 2)
		assert.True(t, decimal.NewFromInt(200).Equal(s.Total), s.Total.String())
		saleID = s.ID
	})

	if saleID == uuid.Nil {
		t.Fatal("sale was not created")
	}

	t.Run("PUT_ModifySale", func(t *testing.T) {
		w, env := doRequest(t, router, http.MethodPut, "/api/sales/"+saleID.String(), map[string]any{
			"items": []map[string]any{
				{"product_id": catalog.ProductMouse, "quantity": 10},
				{"product_id": catalog.ProductKeyboard, "quantity": 1},
			},
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		s := decodeSale(t, env)
		require.Len(t, s.Items, 3)
		assert.True(t, s.Items[1].IsCancelled, "omitted cable line is cancelled")
		// 10 x 50 x 0.8 + 120
		assert.True(t, decimal.NewFromInt(520).Equal(s.Total), s.Total.String())
		assert.False(t, s.IsCancelled)
	})

	t.Run("GET_Sale", func(t *testing.T) {
		w, env := doRequest(t, router, http.MethodGet, "/api/sales/"+saleID.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		s := decodeSale(t, env)
		assert.Equal(t, saleID, s.ID)
		assert.True(t, decimal.NewFromInt(520).Equal(s.Total))
		assert.NotEmpty(t, w.Header().Get(api.CorrelationHeader))
	})

	t.Run("GET_ListSales", func(t *testing.T) {
		w, env := doRequest(t, router, http.MethodGet, "/api/sales", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var list []api.SaleResponse
		require.NoError(t, json.Unmarshal(env.Data, &list))
		require.Len(t, list, 1)
		assert.Equal(t, saleID, list[0].ID)
	})

	t.Run("PATCH_CancelSale", func(t *testing.T) {
		w, env := doRequest(t, router, http.MethodPatch, "/api/sales/"+saleID.String()+"/cancel", nil)

		require.Equal(t, http.StatusOK, w.Code)
		s := decodeSale(t, env)
		assert.True(t, s.IsCancelled)
		for _, item := range s.Items {
			assert.True(t, item.IsCancelled)
		}
	})

	t.Run("PUT_ModifyCancelledSale", func(t *testing.T) {
		w, env := doRequest(t, router, http.MethodPut, "/api/sales/"+saleID.String(), map[string]any{
			"items": []map[string]any{{"product_id": catalog.ProductMouse, "quantity": 1}},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "sale is cancelled", env.Message)
	})

	assert.Equal(t, []string{"sale.created", "item.cancelled", "sale.modified", "sale.cancelled"}, eventNames(events))
	first := events.FilterMessage("publishing event").All()[0]
	assert.Equal(t, correlationID, first.ContextMap()["correlation_id"])
}

func TestModifySale_EmptiesSale(t *testing.T) {
	router, events := initRoutesTests(t)

	w, env := doRequest(t, router, http.MethodPost, "/api/sales", map[string]any{
		"number":      "S-0002",
		"customer_id": catalog.CustomerBob,
		"branch_id":   catalog.BranchAirport,
		"items":       []map[string]any{{"product_id": catalog.ProductKeyboard, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	saleID := decodeSale(t, env).ID

	w, env = doRequest(t, router, http.MethodPut, "/api/sales/"+saleID.String(), map[string]any{
		"items": []map[string]any{{"product_id": catalog.ProductKeyboard, "quantity": 0}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, decodeSale(t, env).IsCancelled)

	assert.Equal(t, []string{"sale.created", "item.cancelled", "sale.cancelled"}, eventNames(events))
}

func TestSalesErrors(t *testing.T) {
	router, _ := initRoutesTests(t)

	validSale := func(number string) map[string]any {
		return map[string]any{
			"number":      number,
			"customer_id": catalog.CustomerAlice,
			"branch_id":   catalog.BranchDowntown,
			"items":       []map[string]any{{"product_id": catalog.ProductMouse, "quantity": 1}},
		}
	}
	w, _ := doRequest(t, router, http.MethodPost, "/api/sales", validSale("S-0003"))
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("duplicate number", func(t *testing.T) {
		w, _ := doRequest(t, router, http.MethodPost, "/api/sales", validSale("S-0003"))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("validation errors", func(t *testing.T) {
		body := validSale("S-0004")
		body["items"] = []map[string]any{{"product_id": catalog.ProductMouse, "quantity": 25}}

		w, env := doRequest(t, router, http.MethodPost, "/api/sales", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.Len(t, env.Errors, 1)
		assert.Equal(t, "CreateSaleCommand.Items[0].Quantity", env.Errors[0].Field)
		assert.Equal(t, "max", env.Errors[0].Rule)
	})

	t.Run("unknown customer", func(t *testing.T) {
		body := validSale("S-0005")
		body["customer_id"] = uuid.New()

		w, env := doRequest(t, router, http.MethodPost, "/api/sales", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, env.Message, "customer")
	})

	t.Run("malformed payload", func(t *testing.T) {
		w, env := doRequest(t, router, http.MethodPost, "/api/sales", "not an object")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid request payload", env.Message)
	})

	t.Run("invalid id", func(t *testing.T) {
		w, env := doRequest(t, router, http.MethodGet, "/api/sales/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid sale id", env.Message)
	})

	t.Run("not found", func(t *testing.T) {
		w, _ := doRequest(t, router, http.MethodGet, "/api/sales/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w, _ = doRequest(t, router, http.MethodPatch, "/api/sales/"+uuid.NewString()+"/cancel", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPing(t *testing.T) {
	router, _ := initRoutesTests(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

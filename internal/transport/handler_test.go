package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"inventory-catalog/internal/clock"
	"inventory-catalog/internal/domain"
	"inventory-catalog/internal/middleware"
	"inventory-catalog/internal/repository/memstore"
	"inventory-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	catalog := service.NewCatalog(memstore.New(), clock.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)), logger)

	r := chi.NewRouter()
	NewCategoryHandler(catalog.Categories, logger).RegisterRoutes(r)
	NewSubcategoryHandler(catalog.Subcategories, logger).RegisterRoutes(r)
	NewProductHandler(catalog.Products, logger).RegisterRoutes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestCategoryHandler_CRUD(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/api/categories", `{"name":"Electronics"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeBody[domain.Category](t, w)
	assert.Equal(t, "Electronics", created.Name)
	assert.False(t, created.IsDeleted)

	w = do(t, h, http.MethodPost, "/api/categories", `{"name":"electronics"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	path := fmt.Sprintf("/api/categories/%d", created.ID)
	w = do(t, h, http.MethodPut, path, `{"name":"Gadgets"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Gadgets", decodeBody[domain.Category](t, w).Name)

	w = do(t, h, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.Category](t, w), 1)

	w = do(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/api/categories", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestCategoryHandler_LengthIsCheckedAfterTrimming(t *testing.T) {
	h := newTestRouter(t)
	name := strings.Repeat("n", domain.MaxCategoryNameLength)

	w := do(t, h, http.MethodPost, "/api/categories", `{"name":"  `+name+`  "}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, name, decodeBody[domain.Category](t, w).Name)

	w = do(t, h, http.MethodPost, "/api/categories", `{"name":"`+name+`n"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlers_BadRequests(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		fields []string
	}{
		{name: "malformed json", method: http.MethodPost, path: "/api/categories", body: `{"name":`},
		{name: "missing name", method: http.MethodPost, path: "/api/categories", body: `{}`, fields: []string{"name"}},
		{name: "blank name", method: http.MethodPost, path: "/api/categories", body: `{"name":"   "}`, fields: []string{"name"}},
		{name: "non-numeric id", method: http.MethodGet, path: "/api/categories/abc"},
		{name: "zero id", method: http.MethodDelete, path: "/api/products/0"},
		{name: "missing parent", method: http.MethodPost, path: "/api/subcategories", body: `{"name":"Phones"}`, fields: []string{"categoryId"}},
		{name: "negative price", method: http.MethodPost, path: "/api/products", body: `{"name":"Pixel","costPrice":-1,"salePrice":1,"categoryId":1}`, fields: []string{"costPrice"}},
		{name: "quantity beyond integer column", method: http.MethodPost, path: "/api/products", body: `{"name":"Pixel","costPrice":1,"salePrice":1,"quantity":2147483648,"categoryId":1}`, fields: []string{"quantity"}},
		{name: "bad filter", method: http.MethodGet, path: "/api/products?categoryId=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			resp := decodeBody[middleware.ErrorResponse](t, w)
			assert.Equal(t, http.StatusText(http.StatusBadRequest), resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Timestamp)

			if len(tt.fields) == 0 {
				return
			}
			raw, ok := resp.Error.Details["validation_errors"].([]interface{})
			require.True(t, ok)
			var got []string
			for _, item := range raw {
				got = append(got, item.(map[string]interface{})["field"].(string))
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestProductHandler_ReferencesAndFilters(t *testing.T) {
	h := newTestRouter(t)

	electronics := decodeBody[domain.Category](t, do(t, h, http.MethodPost, "/api/categories", `{"name":"Electronics"}`))
	w := do(t, h, http.MethodPost, "/api/subcategories", fmt.Sprintf(`{"name":"Phones","categoryId":%d}`, electronics.ID))
	require.Equal(t, http.StatusCreated, w.Code)
	phones := decodeBody[domain.Subcategory](t, w)
	require.NotNil(t, phones.Category)

	w = do(t, h, http.MethodPost, "/api/products", `{"name":"Pixel","costPrice":300,"salePrice":450,"quantity":10,"categoryId":9999}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeBody[middleware.ErrorResponse](t, w)
	assert.Equal(t, "categoryId", resp.Error.Details["field"])

	body := fmt.Sprintf(`{"name":"Pixel","costPrice":"300.00","salePrice":"450.00","quantity":10,"categoryId":%d,"subcategoryId":%d}`, electronics.ID, phones.ID)
	w = do(t, h, http.MethodPost, "/api/products", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pixel := decodeBody[domain.Product](t, w)
	assert.True(t, pixel.SalePrice.Equal(decimal.NewFromInt(450)))
	require.NotNil(t, pixel.Subcategory)
	assert.Equal(t, "Phones", pixel.Subcategory.Name)

	w = do(t, h, http.MethodGet, fmt.Sprintf("/api/products?subcategoryId=%d", phones.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[[]domain.Product](t, w), 1)

	w = do(t, h, http.MethodGet, "/api/products?categoryId=12345", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	// category still in use
	w = do(t, h, http.MethodDelete, fmt.Sprintf("/api/categories/%d", electronics.ID), "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, h, http.MethodDelete, fmt.Sprintf("/api/products/%d", pixel.ID), "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodDelete, fmt.Sprintf("/api/categories/%d", electronics.ID), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/api/subcategories", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRespondServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{&domain.ValidationError{Entity: "product", Fields: []domain.FieldError{{Field: "name", Message: "required"}}}, http.StatusBadRequest},
		{&domain.NotFoundError{Entity: "product", ID: 1}, http.StatusNotFound},
		{&domain.MissingDependencyError{Entity: "product", Field: "categoryId", ID: 1}, http.StatusNotFound},
		{&domain.DuplicateError{Entity: "category", Name: "x"}, http.StatusConflict},
		{&domain.ConstraintViolationError{Entity: "category", ID: 1, Reason: "in use"}, http.StatusConflict},
		{&domain.StorageError{Op: "list products", Err: fmt.Errorf("pq: password authentication failed")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%T", tt.err), func(t *testing.T) {
			w := httptest.NewRecorder()
			respondServiceError(w, zap.NewNop(), tt.err)
			assert.Equal(t, tt.code, w.Code)

			resp := decodeBody[middleware.ErrorResponse](t, w)
			if tt.code == http.StatusInternalServerError {
				assert.Equal(t, "internal server error", resp.Error.Message)
				assert.NotContains(t, w.Body.String(), "password")
			}
		})
	}
}

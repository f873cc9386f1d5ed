package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"datamart-service/internal/cart"
	"datamart-service/internal/catalog"
	"datamart-service/internal/checkout"
	"datamart-service/internal/decode"
	"datamart-service/internal/ingest"
	"datamart-service/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *cart.Cart, *checkout.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := catalog.NewSeededStore()
	userCart := cart.New()
	publisher := notify.NewPublisher(&notify.Recorder{})

	engine := checkout.NewEngine(userCart, publisher, checkout.Config{
		WalletAddress:   "1TestWalletAddr",
		SettlementDelay: 5 * time.Millisecond,
		AutoClearDelay:  10 * time.Millisecond,
		SuccessRate:     1.0,
	})
	t.Cleanup(engine.Close)

	uploads := ingest.NewUploadService(decode.NewDecoder(), store, publisher)

	router := gin.New()
	NewHandler(store, userCart, engine, uploads, 1<<20).SetupRoutes(router)
	return router, userCart, engine
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestListProducts(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodGet, "/api/v1/products", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(6), body["count"])
}

func TestListProductsSearch(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w, body := doJSON(t, router, http.MethodGet, "/api/v1/products?q=healthcare", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])
}

func TestAddCartItem(t *testing.T) {
	router, userCart, _ := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", `{"product_id":"1"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, userCart.Len())

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", `{"product_id":"1"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(2), body["count"], "repeat add bumps quantity")
}

func TestAddCartItemUnknownProduct(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/cart/items", `{"product_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAndRemoveCartItem(t *testing.T) {
	router, userCart, _ := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/v1/cart/items", `{"product_id":"2"}`)

	w, _ := doJSON(t, router, http.MethodPatch, "/api/v1/cart/items/2", `{"quantity":4}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, userCart.Lines()[0].Quantity)

	w, _ = doJSON(t, router, http.MethodPatch, "/api/v1/cart/items/2", `{"quantity":-1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = doJSON(t, router, http.MethodDelete, "/api/v1/cart/items/2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, userCart.Len())
}

func TestCheckoutEmptyCart(t *testing.T) {
	router, _, engine := newTestRouter(t)

	w, _ := doJSON(t, router, http.MethodPost, "/api/v1/checkout", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, checkout.PhaseIdle, engine.Phase())
}

func TestCheckoutFlow(t *testing.T) {
	router, userCart, engine := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/v1/cart/items", `{"product_id":"1"}`)

	w, body := doJSON(t, router, http.MethodPost, "/api/v1/checkout", "")
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, string(checkout.PhaseAwaitingSettlement), body["phase"])
	assert.Equal(t, 199.99, body["target_total"])

	// Double initiation while a settlement is pending is rejected.
	w, _ = doJSON(t, router, http.MethodPost, "/api/v1/checkout", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Eventually(t, func() bool {
		return engine.Phase() == checkout.PhaseIdle
	}, time.Second, time.Millisecond)
	assert.Equal(t, 0, userCart.Len(), "delivered lines are auto-cleared")
}

func TestUpload(t *testing.T) {
	router, _, _ := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "new-sets.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("name,price\nFresh Set,12.5\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["added"])
	assert.Equal(t, float64(7), body["total"])
}

func TestUploadUnsupportedType(t *testing.T) {
	router, _, _ := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

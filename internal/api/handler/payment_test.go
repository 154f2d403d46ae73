package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/lingo_go_server/config"
	"github.com/qs3c/lingo_go_server/internal/model"
	"github.com/qs3c/lingo_go_server/internal/model/dto"
	"github.com/qs3c/lingo_go_server/internal/pkg/paypal"
	"github.com/qs3c/lingo_go_server/internal/pkg/response"
	"github.com/qs3c/lingo_go_server/internal/repository"
	"github.com/qs3c/lingo_go_server/internal/service"
	"github.com/qs3c/lingo_go_server/internal/testutil"
)

func fakePayPalServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"fake-token"}`)
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"ORDER-H1","status":"CREATED","links":[{"href":"https://paypal.test/approve","rel":"approve","method":"GET"}]}`)
	})
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/capture") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"CAPTURE-H1","status":"COMPLETED","payer":{"payer_id":"PAYER-H1"}}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func setupPaymentHandler(t *testing.T) (*PaymentHandler, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	server := fakePayPalServer(t)
	cfg := &config.Config{
		PayPal: config.PayPalConfig{
			ClientID:     "test-client",
			ClientSecret: "test-secret",
			BaseURL:      server.URL,
			ReturnURL:    "http://localhost:8080/api/v1/payment/success",
			CancelURL:    "http://localhost:8080/api/v1/payment/cancel",
		},
	}

	tierRepo := repository.NewTierRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	paymentService := service.NewPaymentService(db, tierRepo, paymentRepo,
		paypal.NewClient(&cfg.PayPal), nil, cfg)

	return NewPaymentHandler(paymentService, "http://localhost:5173"), db
}

func TestPaymentHandler_CreateOrder(t *testing.T) {
	handler, db := setupPaymentHandler(t)

	basic := testutil.TestTier(t, db, model.TierBasic, 50, 500)
	user := testutil.TestUser(t, db)

	router := gin.New()
	router.POST("/create-order", withUser(user.ID), handler.CreateOrder)

	w := performRequest(router, "POST", "/create-order", dto.CreateOrderRequest{TierID: basic.ID})
	resp := parseResponse(t, w)

	require.Equal(t, response.CodeSuccess, resp.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "ORDER-H1", data["order_id"])
	assert.Equal(t, "https://paypal.test/approve", data["approval_url"])
}

func TestPaymentHandler_CreateOrder_FreeTier(t *testing.T) {
	handler, db := setupPaymentHandler(t)

	free := testutil.TestTier(t, db, model.TierFree, 5, 50)
	user := testutil.TestUser(t, db)

	router := gin.New()
	router.POST("/create-order", withUser(user.ID), handler.CreateOrder)

	w := performRequest(router, "POST", "/create-order", dto.CreateOrderRequest{TierID: free.ID})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeParamError, resp.Code)
	assert.Equal(t, "Cannot purchase free tier", resp.Message)
}

func TestPaymentHandler_CreateOrder_TierNotFound(t *testing.T) {
	handler, db := setupPaymentHandler(t)

	user := testutil.TestUser(t, db)

	router := gin.New()
	router.POST("/create-order", withUser(user.ID), handler.CreateOrder)

	w := performRequest(router, "POST", "/create-order", dto.CreateOrderRequest{TierID: 999})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestPaymentHandler_CapturePayment(t *testing.T) {
	handler, db := setupPaymentHandler(t)

	basic := testutil.TestTier(t, db, model.TierBasic, 50, 500)
	user := testutil.TestUser(t, db)
	testutil.TestTransaction(t, db, user.ID, basic.ID, model.TxStatusPending,
		testutil.WithOrderID("ORDER-H1"))

	router := gin.New()
	router.POST("/capture", withUser(user.ID), handler.CapturePayment)

	w := performRequest(router, "POST", "/capture", dto.CaptureRequest{OrderID: "ORDER-H1"})
	resp := parseResponse(t, w)

	require.Equal(t, response.CodeSuccess, resp.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["success"])
	assert.Equal(t, "Payment successful! Your subscription is now active.", data["message"])

	// 订阅已激活
	var updated model.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.True(t, updated.IsSubscriptionActive)
}

func TestPaymentHandler_CapturePayment_UnknownOrder(t *testing.T) {
	handler, db := setupPaymentHandler(t)

	user := testutil.TestUser(t, db)

	router := gin.New()
	router.POST("/capture", withUser(user.ID), handler.CapturePayment)

	w := performRequest(router, "POST", "/capture", dto.CaptureRequest{OrderID: "ORDER-NOPE"})
	resp := parseResponse(t, w)

	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
	assert.Equal(t, "Transaction not found or already processed", resp.Message)
}

// PayPal 批准后的回跳把订单号转给前端
func TestPaymentHandler_PaymentSuccess_Redirect(t *testing.T) {
	handler, _ := setupPaymentHandler(t)

	router := gin.New()
	router.GET("/success", handler.PaymentSuccess)

	w := performRequest(router, "GET", "/success?token=ORDER-H1", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://localhost:5173/payment/success?order_id=ORDER-H1", w.Header().Get("Location"))
}

func TestPaymentHandler_PaymentCancel_Redirect(t *testing.T) {
	handler, _ := setupPaymentHandler(t)

	router := gin.New()
	router.GET("/cancel", handler.PaymentCancel)

	w := performRequest(router, "GET", "/cancel", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://localhost:5173/payment/cancel", w.Header().Get("Location"))
}

func TestPaymentHandler_ListTransactions(t *testing.T) {
	handler, db := setupPaymentHandler(t)

	basic := testutil.TestTier(t, db, model.TierBasic, 50, 500)
	user := testutil.TestUser(t, db)
	testutil.TestTransaction(t, db, user.ID, basic.ID, model.TxStatusCompleted)
	testutil.TestTransaction(t, db, user.ID, basic.ID, model.TxStatusPending)

	router := gin.New()
	router.GET("/transactions", withUser(user.ID), handler.ListTransactions)

	w := performRequest(router, "GET", "/transactions", nil)
	resp := parseResponse(t, w)

	require.Equal(t, response.CodeSuccess, resp.Code)
	txns := resp.Data.([]interface{})
	assert.Len(t, txns, 2)
}

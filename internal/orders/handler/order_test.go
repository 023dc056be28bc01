package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"gymstore/internal/orders/service"
	"gymstore/pkg/auth"
	"gymstore/pkg/events"
	"gymstore/pkg/logger"
	"gymstore/pkg/model"
	"gymstore/pkg/payments"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOrderService struct {
	service.OrderService

	createFunc  func(ctx context.Context, userID, origin string, req *model.OrderRequest) (*service.CreateResult, error)
	verifyFunc  func(ctx context.Context, userID string, req *model.VerifyPaymentRequest) (*service.VerifyResult, error)
	getByIDFunc func(ctx context.Context, id string) (*model.Order, error)
	cancelFunc  func(ctx context.Context, id, ownerScope string) (*service.CancelResult, error)
	listFunc    func(ctx context.Context, filter model.OrderFilter, limit int, offset int64) ([]*model.Order, int64, error)
}

func (m *mockOrderService) Create(ctx context.Context, userID, origin string, req *model.OrderRequest) (*service.CreateResult, error) {
	return m.createFunc(ctx, userID, origin, req)
}

func (m *mockOrderService) VerifyPayment(ctx context.Context, userID string, req *model.VerifyPaymentRequest) (*service.VerifyResult, error) {
	return m.verifyFunc(ctx, userID, req)
}

func (m *mockOrderService) GetByID(ctx context.Context, id string) (*model.Order, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockOrderService) Cancel(ctx context.Context, id, ownerScope string) (*service.CancelResult, error) {
	return m.cancelFunc(ctx, id, ownerScope)
}

func (m *mockOrderService) List(ctx context.Context, filter model.OrderFilter, limit int, offset int64) ([]*model.Order, int64, error) {
	return m.listFunc(ctx, filter, limit, offset)
}

func newRouter(svc service.OrderService) *httprouter.Router {
	router := httprouter.New()
	NewOrderHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, req *http.Request, claims *auth.Claims) *httptest.ResponseRecorder {
	if claims != nil {
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func claimsFor(userID, role string) *auth.Claims {
	return &auth.Claims{Role: role, RegisteredClaims: jwt.RegisteredClaims{Subject: userID}}
}

func TestCreate_PassesCallerAndOrigin(t *testing.T) {
	var gotUser, gotOrigin string
	svc := &mockOrderService{
		createFunc: func(ctx context.Context, userID, origin string, req *model.OrderRequest) (*service.CreateResult, error) {
			gotUser, gotOrigin = userID, origin
			return &service.CreateResult{
				Order:   &model.Order{ID: "o1", Status: model.OrderStatusPaymentPending},
				Session: &payments.Session{ID: "pref-1", RedirectURL: "https://pay.example/pref-1"},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"payment_method":"MercadoPago"}`))
	req.Header.Set("Origin", "https://shop.example")
	rec := serve(newRouter(svc), req, claimsFor("u1", model.RoleUser))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "u1", gotUser)
	assert.Equal(t, "https://shop.example", gotOrigin)

	var resp struct {
		Data struct {
			Session struct {
				URL string `json:"session_url"`
			} `json:"session"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "https://pay.example/pref-1", resp.Data.Session.URL)
}

func TestCreate_RequiresLogin(t *testing.T) {
	rec := serve(newRouter(&mockOrderService{}), httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`)), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerify_OwnerScope(t *testing.T) {
	var gotScope string
	svc := &mockOrderService{
		verifyFunc: func(ctx context.Context, userID string, req *model.VerifyPaymentRequest) (*service.VerifyResult, error) {
			gotScope = userID
			return &service.VerifyResult{Success: true, Outcome: payments.OutcomePaid}, nil
		},
	}
	router := newRouter(svc)
	body := `{"order_id":"o1","success":"true"}`

	rec := serve(router, httptest.NewRequest(http.MethodPost, "/api/v1/orders/verify", strings.NewReader(body)), claimsFor("u1", model.RoleUser))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", gotScope)

	serve(router, httptest.NewRequest(http.MethodPost, "/api/v1/orders/verify", strings.NewReader(body)), claimsFor("a1", model.RoleAdmin))
	assert.Empty(t, gotScope)
}

func TestGetByID_OwnerOnly(t *testing.T) {
	svc := &mockOrderService{
		getByIDFunc: func(ctx context.Context, id string) (*model.Order, error) {
			return &model.Order{ID: id, UserID: "u1"}, nil
		},
	}
	router := newRouter(svc)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/orders/id/o1", nil), claimsFor("u1", model.RoleUser))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/orders/id/o1", nil), claimsFor("u2", model.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/orders/id/o1", nil), claimsFor("a1", model.RoleAdmin))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetUserOrders(t *testing.T) {
	var got model.OrderFilter
	svc := &mockOrderService{
		listFunc: func(ctx context.Context, filter model.OrderFilter, limit int, offset int64) ([]*model.Order, int64, error) {
			got = filter
			return []*model.Order{}, 0, nil
		},
	}

	rec := serve(newRouter(svc), httptest.NewRequest(http.MethodGet, "/api/v1/orders/user?limit=5", nil), claimsFor("u1", model.RoleUser))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", got.UserID)

	rec = serve(newRouter(svc), httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil), claimsFor("u1", model.RoleUser))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCancel_Advisory(t *testing.T) {
	svc := &mockOrderService{
		cancelFunc: func(ctx context.Context, id, ownerScope string) (*service.CancelResult, error) {
			return &service.CancelResult{
				Order:             &model.Order{ID: id, Status: model.OrderStatusCancelled},
				NotificationError: "smtp timeout",
			}, nil
		},
	}

	rec := serve(newRouter(svc), httptest.NewRequest(http.MethodPost, "/api/v1/orders/id/o1/cancel", nil), claimsFor("u1", model.RoleUser))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, false, resp.Data["notification_sent"])
	assert.Equal(t, "smtp timeout", resp.Data["notification_error"])
}

type recordingQueue struct {
	mu     sync.Mutex
	err    error
	events []events.Event
}

func (q *recordingQueue) Send(ctx context.Context, e events.Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.events = append(q.events, e)
	return nil
}

func passThrough(next http.Handler) http.Handler { return next }

func TestWebhook_MercadoPago(t *testing.T) {
	pub := &recordingQueue{}
	router := httprouter.New()
	NewWebhookHandler(pub, passThrough, logger.Discard()).RegisterRoutes(router)

	rec := serve(router, httptest.NewRequest(http.MethodPost, MercadoPagoWebhookPath+"?data.id=123&type=payment", strings.NewReader(`{"action":"payment.updated"}`)), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodPost, MercadoPagoWebhookPath+"?data.id=9&type=merchant_order", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, pub.events, 1)
	payload := pub.events[0].Payload.(events.PaymentNotificationPayload)
	assert.Equal(t, events.PaymentNotification, pub.events[0].Type)
	assert.Equal(t, model.PaymentMethodMercadoPago, payload.Gateway)
	assert.Equal(t, "123", payload.Reference)
}

func TestWebhook_MercadoPagoSignatureRejected(t *testing.T) {
	pub := &recordingQueue{}
	reject := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}
	router := httprouter.New()
	NewWebhookHandler(pub, reject, logger.Discard()).RegisterRoutes(router)

	rec := serve(router, httptest.NewRequest(http.MethodPost, MercadoPagoWebhookPath+"?data.id=123&type=payment", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, pub.events)
}

func TestWebhook_Omise(t *testing.T) {
	pub := &recordingQueue{}
	router := httprouter.New()
	NewWebhookHandler(pub, passThrough, logger.Discard()).RegisterRoutes(router)

	tests := []struct {
		name string
		body string
	}{
		{"charge complete", `{"key":"charge.complete","data":{"object":"charge","id":"chrg_1"}}`},
		{"customer event", `{"key":"customer.create","data":{"object":"customer","id":"cust_1"}}`},
		{"garbage", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, httptest.NewRequest(http.MethodPost, OmiseWebhookPath, strings.NewReader(tt.body)), nil)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	require.Len(t, pub.events, 1)
	assert.Equal(t, "chrg_1", pub.events[0].Key)
}

func TestWebhook_QueueFailureAsksForRedelivery(t *testing.T) {
	pub := &recordingQueue{err: errors.New("kafka: leader not available")}
	router := httprouter.New()
	NewWebhookHandler(pub, passThrough, logger.Discard()).RegisterRoutes(router)

	rec := serve(router, httptest.NewRequest(http.MethodPost, MercadoPagoWebhookPath+"?data.id=123&type=payment", nil), nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	body := `{"key":"charge.complete","data":{"object":"charge","id":"chrg_1"}}`
	rec = serve(router, httptest.NewRequest(http.MethodPost, OmiseWebhookPath, strings.NewReader(body)), nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// Notifications that are never queued are still acknowledged.
	rec = serve(router, httptest.NewRequest(http.MethodPost, MercadoPagoWebhookPath+"?data.id=9&type=merchant_order", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	pub.err = nil
	rec = serve(router, httptest.NewRequest(http.MethodPost, MercadoPagoWebhookPath+"?data.id=123&type=payment", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, pub.events, 1)
}

package payment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-pasar/internal/common"
	"github.com/noah-isme/backend-pasar/internal/lock"
	"github.com/noah-isme/backend-pasar/internal/payment"
)

type fakeOrderStore struct {
	mu     sync.Mutex
	paid   map[string]int
	fail   error
	absent map[string]bool
}

func (f *fakeOrderStore) MarkPaid(_ context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	if f.absent[orderID] {
		return payment.ErrOrderNotFound
	}
	if f.paid == nil {
		f.paid = map[string]int{}
	}
	f.paid[orderID]++
	return nil
}

func (f *fakeOrderStore) paidCount(orderID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paid[orderID]
}

const webhookSecret = "test-secret"

func newWebhookServer(t *testing.T, orders *fakeOrderStore) *httptest.Server {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hook := payment.Webhook{
		Providers: map[string]payment.Provider{"mock": payment.Mock{Secret: webhookSecret}},
		Orders:    orders,
		Replay:    client,
		ReplayTTL: time.Hour,
		Lock:      &lock.Locker{R: client},
		Logger:    zerolog.Nop(),
	}
	r := chi.NewRouter()
	r.Post("/webhooks/payment/{provider}", hook.Handle)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postWebhook(t *testing.T, srv *httptest.Server, provider, body, signature string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/webhooks/payment/"+provider, strings.NewReader(body))
	require.NoError(t, err)
	if signature != "" {
		req.Header.Set("X-Signature", signature)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func signed(body string) string {
	return common.HMACSha256Hex([]byte(webhookSecret), []byte(body))
}

func TestWebhookSettlesOrder(t *testing.T) {
	orders := &fakeOrderStore{}
	srv := newWebhookServer(t, orders)

	body := `{"order_id":"ord-1","status":"paid"}`
	resp := postWebhook(t, srv, "mock", body, signed(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, orders.paidCount("ord-1"))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	orders := &fakeOrderStore{}
	srv := newWebhookServer(t, orders)

	body := `{"order_id":"ord-1","status":"paid"}`
	resp := postWebhook(t, srv, "mock", body, "deadbeef")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, 0, orders.paidCount("ord-1"))

	resp = postWebhook(t, srv, "mock", body, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebhookReplayRejected(t *testing.T) {
	orders := &fakeOrderStore{}
	srv := newWebhookServer(t, orders)

	body := `{"order_id":"ord-2","status":"paid"}`
	first := postWebhook(t, srv, "mock", body, signed(body))
	require.Equal(t, http.StatusOK, first.StatusCode)

	second := postWebhook(t, srv, "mock", body, signed(body))
	require.Equal(t, http.StatusConflict, second.StatusCode)
	require.Equal(t, 1, orders.paidCount("ord-2"))
}

func TestWebhookIgnoresNonSettlementStatus(t *testing.T) {
	orders := &fakeOrderStore{}
	srv := newWebhookServer(t, orders)

	body := `{"order_id":"ord-3","status":"pending"}`
	resp := postWebhook(t, srv, "mock", body, signed(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 0, orders.paidCount("ord-3"))
}

func TestWebhookUnknownProvider(t *testing.T) {
	srv := newWebhookServer(t, &fakeOrderStore{})

	body := `{"order_id":"ord-4","status":"paid"}`
	resp := postWebhook(t, srv, "stripe", body, signed(body))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebhookOrderNotFound(t *testing.T) {
	orders := &fakeOrderStore{absent: map[string]bool{"ord-missing": true}}
	srv := newWebhookServer(t, orders)

	body := `{"order_id":"ord-missing","status":"paid"}`
	resp := postWebhook(t, srv, "mock", body, signed(body))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/urban-fashion/sales-agent/internal/middleware"
	"github.com/urban-fashion/sales-agent/internal/model"
	"github.com/urban-fashion/sales-agent/internal/repository"
	"github.com/urban-fashion/sales-agent/internal/sales"
	"github.com/urban-fashion/sales-agent/internal/service"
	"github.com/urban-fashion/sales-agent/internal/store"
	"github.com/urban-fashion/sales-agent/pkg/logger"
)

const (
	testSecret      = "test-jwt-secret"
	testPassword    = "admin123"
	testVerifyToken = "nepali_clothing_2025"
	testAppSecret   = "app-secret"
)

type recordingMessenger struct {
	mu    sync.Mutex
	texts []string
}

func (m *recordingMessenger) SendText(_ context.Context, _, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = append(m.texts, text)
	return nil
}

func (m *recordingMessenger) SendImage(context.Context, string, string) error { return nil }

func (m *recordingMessenger) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.texts...)
}

type staticGenerator struct{ text string }

func (g staticGenerator) Generate(context.Context, string, string, *model.Conversation, []model.Product) sales.Reply {
	return sales.Reply{Text: g.text}
}

type staticUploader struct{ url string }

func (u staticUploader) Upload(context.Context, []byte) (string, error) { return u.url, nil }

type testServer struct {
	router        chi.Router
	store         *store.SQLStore
	conversations *repository.ConversationRepository
	media         *repository.MediaRepository
	orders        *repository.OrderRepository
	messenger     *recordingMessenger
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "handler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(ctx))

	log := logger.NewNop()
	ts := &testServer{
		store:         st,
		conversations: repository.NewConversationRepository(st),
		media:         repository.NewMediaRepository(st),
		orders:        repository.NewOrderRepository(st),
		messenger:     &recordingMessenger{},
	}
	products := repository.NewProductRepository(st)

	ingestion := service.NewIngestionService(ts.conversations, products, ts.media,
		staticGenerator{text: "Namaste! K herna mann chha?"}, ts.messenger, nil, 100, log)
	orderSvc := service.NewOrderService(ts.orders, nil, 100, log)

	health := NewHealthHandler(st, nil)
	webhook := NewWebhookHandler(ingestion, testVerifyToken, testAppSecret, log)
	auth := NewAuthHandler(service.NewAuthService(testPassword, testSecret, time.Hour), log)
	productHandler := NewProductHandler(service.NewCatalogService(products, staticUploader{url: "https://i.ibb.co/up.png"}, log), log)
	orderHandler := NewOrderHandler(orderSvc, service.NewAnalyticsService(ts.orders), log)
	mediaHandler := NewMediaHandler(
		service.NewMediaService(ts.media, ts.conversations, ts.messenger, nil, log),
		service.NewPaymentQRService(repository.NewPaymentQRRepository(st)),
		log,
	)
	convHandler := NewConversationHandler(service.NewConversationService(ts.conversations, log), log)

	r := chi.NewRouter()
	r.Use(middleware.Logging(log))
	r.Get("/ready", health.Ready)
	r.Route("/api", func(r chi.Router) {
		r.Get("/", health.Root)
		webhook.RegisterRoutes(r)
		auth.RegisterRoutes(r)
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(testSecret))
			productHandler.RegisterRoutes(r)
			orderHandler.RegisterRoutes(r)
			mediaHandler.RegisterRoutes(r)
			convHandler.RegisterRoutes(r)
		})
	})
	ts.router = r
	return ts
}

func (ts *testServer) token(t *testing.T) string {
	t.Helper()
	token, err := middleware.IssueToken(testSecret, time.Now(), time.Hour)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

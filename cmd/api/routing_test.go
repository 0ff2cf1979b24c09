package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookcatalog/internal/catalog"
	"bookcatalog/internal/config"
	"bookcatalog/internal/httpx"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		Env:            "test",
		Addr:           ":0",
		RateLimitRPS:   100,
		RateLimitBurst: 100,
		MaxBodyBytes:   1 << 20,
		EnableHSTS:     true,
	}
}

func newTestRouter(t *testing.T, db pinger) (http.Handler, *catalog.MockRepository) {
	t.Helper()
	repo := catalog.NewMockRepository(gomock.NewController(t))
	rl := httpx.NewRateLimitMiddleware(100, 100)
	t.Cleanup(rl.Stop)
	return newRouter(testConfig(), db, repo, rl), repo
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t, &mockPinger{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestRouter_Ready(t *testing.T) {
	t.Run("database up", func(t *testing.T) {
		db := &mockPinger{}
		db.On("Ping", mock.Anything).Return(nil).Once()
		router, _ := newTestRouter(t, db)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		db.AssertExpectations(t)
	})

	t.Run("database down", func(t *testing.T) {
		db := &mockPinger{}
		db.On("Ping", mock.Anything).Return(errors.New("connection refused")).Once()
		router, _ := newTestRouter(t, db)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		db.AssertExpectations(t)
	})
}

func TestRouter_CatalogRoutes(t *testing.T) {
	router, repo := newTestRouter(t, &mockPinger{})
	repo.EXPECT().ListBooks(gomock.Any(), catalog.ListQuery{SortBy: catalog.SortByTitle}).Return([]catalog.BookWithAuthor{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"request_id"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/add_book", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

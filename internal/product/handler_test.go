package product

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	customErrors "github.com/Rishabh1623/shopmetrics/internal/domain/errors"
	"github.com/Rishabh1623/shopmetrics/internal/metrics"
)

type repoStub struct {
	products map[string]Product
	getCalls int
}

func (r *repoStub) List(_ context.Context) ([]Product, error) {
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *repoStub) GetByID(_ context.Context, id string) (Product, error) {
	r.getCalls++
	p, ok := r.products[id]
	if !ok {
		return Product{}, customErrors.ErrNotFound
	}
	return p, nil
}

func (r *repoStub) Search(_ context.Context, query string) ([]Product, error) {
	var out []Product
	for _, p := range r.products {
		if p.Name == query {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestHandler(t *testing.T) (*gin.Engine, *repoStub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	t.Cleanup(mr.Close)
	cache := NewCache(redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()}))

	repo := &repoStub{products: map[string]Product{
		"p1": {ID: "p1", Name: "Widget", Description: "A widget", Price: 9.99, Stock: 5},
	}}

	h := NewHandler(repo, cache, nil, metrics.NewProduct(prometheus.NewRegistry()), zap.NewNop())
	r := gin.New()
	h.RegisterRoutes(r)
	return r, repo
}

func get(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, w.Body.Bytes()
}

func TestList(t *testing.T) {
	r, _ := newTestHandler(t)

	w, body := get(t, r, "/products")
	require.Equal(t, http.StatusOK, w.Code)

	var products []Product
	require.NoError(t, json.Unmarshal(body, &products))
	require.Len(t, products, 1)
	require.Equal(t, "Widget", products[0].Name)
}

func TestGet_CachesSecondRead(t *testing.T) {
	r, repo := newTestHandler(t)

	w, _ := get(t, r, "/products/p1")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, repo.getCalls)

	// second read is served from the cache
	w, body := get(t, r, "/products/p1")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, repo.getCalls)

	var p Product
	require.NoError(t, json.Unmarshal(body, &p))
	require.Equal(t, "p1", p.ID)
}

func TestGet_NotFound(t *testing.T) {
	r, _ := newTestHandler(t)

	w, _ := get(t, r, "/products/nope")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearch(t *testing.T) {
	r, _ := newTestHandler(t)

	w, _ := get(t, r, "/products/search")
	require.Equal(t, http.StatusBadRequest, w.Code, "missing q is rejected")

	w, body := get(t, r, "/products/search?q=Widget")
	require.Equal(t, http.StatusOK, w.Code)

	var products []Product
	require.NoError(t, json.Unmarshal(body, &products))
	require.Len(t, products, 1)
}

func TestCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Cleanup(mr.Close)
	cache := NewCache(redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	_, err := cache.Get(ctx, "p1")
	require.ErrorIs(t, err, customErrors.ErrNotFound)

	p := Product{ID: "p1", Name: "Widget", Price: 9.99}
	require.NoError(t, cache.Set(ctx, p))

	got, err := cache.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, p, got)

	mr.FastForward(cacheTTL * 2)
	_, err = cache.Get(ctx, "p1")
	require.ErrorIs(t, err, customErrors.ErrNotFound, "entry expires after the TTL")
}

package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chhotalabhavik/cleanout/pkg/router"
)

func ok(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}

func tag(header, value string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add(header, value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestNamedRoutesAndURL(t *testing.T) {
	r := router.New()
	r.Get("/items/{id}", "items.show", ok("item"))
	r.Post("/items", "items.store", ok("created"))

	path, found := r.Path("items.show")
	require.True(t, found)
	assert.Equal(t, "/items/{id}", path)

	_, found = r.Path("missing")
	assert.False(t, found)

	url, err := r.URL("items.show", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/items/42", url)

	_, err = r.URL("items.show", nil)
	assert.Error(t, err, "unresolved params should not produce a URL")

	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesRegistrationOrder(t *testing.T) {
	r := router.New()
	r.Get("/a", "a", ok("a"))
	api := r.Group("/api")
	api.Post("/b", "b", ok("b"))
	api.Group("/v2").Delete("/c", "c", ok("c"))

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.RouteInfo{Method: "GET", Path: "/a", Name: "a"}, routes[0])
	assert.Equal(t, router.RouteInfo{Method: "POST", Path: "/api/b", Name: "b"}, routes[1])
	assert.Equal(t, router.RouteInfo{Method: "DELETE", Path: "/api/v2/c", Name: "c"}, routes[2])
}

func TestGroupPrefixDispatch(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Get("/ping", "ping", ok("pong"))

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/ping")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestGroupMiddlewareInheritance(t *testing.T) {
	r := router.New()
	api := r.Group("/api", tag("X-Chain", "outer"))
	v1 := api.Group("/v1", tag("X-Chain", "inner"))
	v1.Get("/ping", "ping", ok("pong"), tag("X-Chain", "route"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	// Outer group middleware runs first, then nested, then per-route.
	assert.Equal(t, []string{"outer", "inner", "route"}, rec.Header().Values("X-Chain"))
}

func TestMethodNotMatched(t *testing.T) {
	r := router.New()
	r.Get("/items", "items.index", ok("list"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/items", nil)
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestPathNormalization(t *testing.T) {
	r := router.New()
	g := r.Group("api/")
	g.Get("ping/", "ping", ok("pong"))

	path, found := r.Path("ping")
	require.True(t, found)
	assert.Equal(t, "/api/ping", path)
}

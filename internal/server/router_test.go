package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBasicRouter(t *testing.T) {
	t.Run("method patterns", func(t *testing.T) {
		router := NewBasicRouter()
		router.HandleFunc(http.MethodGet, "/items/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("get " + r.PathValue("id")))
		})
		router.HandleFunc(http.MethodPost, "/items/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("post " + r.PathValue("id")))
		})

		for method, want := range map[string]string{http.MethodGet: "get 7", http.MethodPost: "post 7"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(method, "/items/7", nil))
			if rec.Body.String() != want {
				t.Errorf("%s: expected %q, got %q", method, want, rec.Body.String())
			}
		}

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/items/7", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for unregistered method, got %d", rec.Code)
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.HandleFunc(http.MethodGet, "/", func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		if got := strings.Join(order, ","); got != "first,second,handler" {
			t.Errorf("unexpected order %s", got)
		}
	})

	t.Run("middleware runs before routing", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(NormalizePath())
		router.HandleFunc(http.MethodGet, "/learn", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("learn"))
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/learn/", nil))
		if rec.Body.String() != "learn" {
			t.Errorf("expected trailing slash to be trimmed before routing, got %d %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("Handler registers routes", func(t *testing.T) {
		router := NewBasicRouter()
		handler := NewOAuthHandler(nil, "state")
		router.Handler(handler)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=wrong", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected callback route to be served, got %d", rec.Code)
		}
	})
}

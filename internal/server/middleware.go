package server

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// statusRecorder captures the status code and body size written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Logging logs one line per request with method, path, status, size and duration.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"bytes", rec.bytes,
				"duration", time.Since(start),
			)
		})
	}
}

// Recover turns a handler panic into a 500 response.
func Recover(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					logger.Error("handler panicked", "path", r.URL.Path, "panic", v)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// NormalizePath collapses repeated slashes and trims the trailing slash before routing.
func NormalizePath() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if clean := normalize(r.URL.Path); clean != r.URL.Path {
				r2 := r.Clone(r.Context())
				r2.URL.Path = clean
				r2.URL.RawPath = ""
				r = r2
			}
			next.ServeHTTP(w, r)
		})
	}
}

func normalize(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// notFoundInterceptor swallows a 404 written by the wrapped handler so a page can be rendered in its place.
type notFoundInterceptor struct {
	http.ResponseWriter
	intercepted bool
	wrote       bool
}

func (i *notFoundInterceptor) WriteHeader(code int) {
	if i.wrote {
		return
	}
	i.wrote = true
	if code == http.StatusNotFound {
		i.intercepted = true
		return
	}
	i.ResponseWriter.WriteHeader(code)
}

func (i *notFoundInterceptor) Write(b []byte) (int, error) {
	if !i.wrote {
		i.WriteHeader(http.StatusOK)
	}
	if i.intercepted {
		return len(b), nil
	}
	return i.ResponseWriter.Write(b)
}

func (i *notFoundInterceptor) Unwrap() http.ResponseWriter { return i.ResponseWriter }

// ErrorPages renders partials/404 for every 404 response.
//
// The page receives the site data merged with error, status_code and page. If rendering fails the client gets the
// error message as plain text.
func ErrorPages(renderer Renderer, site Site, logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ic := &notFoundInterceptor{ResponseWriter: w}
			next.ServeHTTP(ic, r)
			if !ic.intercepted {
				return
			}

			const message = "Page not found"
			status := http.StatusNotFound
			h := w.Header()
			h.Del("Content-Length")
			h.Del("X-Content-Type-Options")

			var buf bytes.Buffer
			err := renderer.Render(&buf, "partials/404", site.Data(map[string]any{
				"error":       message,
				"status_code": fmt.Sprintf("%d %s", status, http.StatusText(status)),
				"page":        r.URL.RequestURI(),
			}))
			if err != nil {
				logger.Warn("failed to render error page", "error", err)
				h.Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(status)
				fmt.Fprint(w, message)
				return
			}

			h.Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(status)
			buf.WriteTo(w)
		})
	}
}

// noListingFS hides directories.
//
// Paths are served without trailing slashes, so directory index redirects would never settle.
type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

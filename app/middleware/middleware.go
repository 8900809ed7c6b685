package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"postboard/app/apperr"
	"postboard/app/auth"
	"postboard/app/metrics"
	"postboard/app/tracing"

	"github.com/gorilla/mux"
)

// statusRecorder captures the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logger logs information about each request
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d took %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// Recoverer recovers from panics and logs the error
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC: %v", err)
				if isAPI(r) {
					writeError(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ContentTypeJSON sets the Content-Type header to application/json for API routes
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAPI(r) {
			w.Header().Set("Content-Type", "application/json")
		}
		next.ServeHTTP(w, r)
	})
}

// Authenticate rejects requests without a currently valid bearer token and
// stores the caller on the request context.
func Authenticate(issuer *auth.Issuer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.BearerToken(r.Header.Get("Authorization"))
			p, err := issuer.Validate(r.Context(), token)
			if err != nil {
				kind := apperr.KindOf(err)
				if kind == apperr.Internal {
					log.Printf("authenticate: %v", err)
				}
				writeError(w, apperr.Public(err).Error(), kind.Status())
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

// Metrics records a request counter and latency per route template
func Metrics(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			m.ObserveRequest(routeTemplate(r), r.Method, rec.status, time.Since(start))
		})
	}
}

// Trace opens a server span per request named after the matched route
func Trace(next http.Handler) http.Handler {
	return tracing.Handler(next, "http", func(r *http.Request) string {
		return r.Method + " " + routeTemplate(r)
	})
}

// routeTemplate reports the matched mux path template, falling back to the
// raw path for unmatched requests.
func routeTemplate(r *http.Request) string {
	if cur := mux.CurrentRoute(r); cur != nil {
		if tpl, err := cur.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api")
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

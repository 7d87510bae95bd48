package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"recepcion/internal/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const contextKeyRequestID contextKey = "request_id"

const requestIDHeader = "X-Request-ID"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		rw.Header().Set(requestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)

		next.ServeHTTP(rw, r.WithContext(ctx))

		elapsed := time.Since(started)
		metrics.RecordRequest(r.Method, routeLabel(r.URL.Path), rw.statusCode, elapsed)

		s.logger.WithFields(logrus.Fields{
			"request_id":  requestID,
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": elapsed.Milliseconds(),
		}).Info("http request")
	})
}

// routeLabel collapses paths with ids so metric labels stay bounded.
func routeLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/view/"):
		return "/view/:id"
	case strings.HasPrefix(path, "/static/"):
		return "/static"
	}
	switch path {
	case "/", "/new", "/new/reset", "/export.xlsx", "/healthz", "/metrics":
		return path
	}
	return "other"
}

func (s *Service) requestLogger(r *http.Request) *logrus.Entry {
	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	return s.logger.WithField("request_id", requestID)
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

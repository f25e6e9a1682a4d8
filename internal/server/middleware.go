package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gitlab.ozon.dev/pupkingeorgij/rental/internal/booking"
)

func (s *Server) requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		wrw := newResponseWriterWrapper(w)

		next.ServeHTTP(wrw, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrw.GetStatusCode()),
			zap.Int("bytes", wrw.size),
			zap.Duration("duration", time.Since(started)),
		}
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				fields = append(fields, zap.String("route", tpl))
			}
		}
		if username, _, ok := r.BasicAuth(); ok {
			fields = append(fields, zap.String("user", username))
		}

		level := zapcore.InfoLevel
		if wrw.GetStatusCode() >= http.StatusInternalServerError {
			level = zapcore.ErrorLevel
		}
		if ce := s.logger.Check(level, "request handled"); ce != nil {
			ce.Write(fields...)
		}
	})
}

// basicAuthMiddleware checks credentials against the users table and
// records the username as the actor of any mutation.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			unauthorized(w)
			return
		}

		valid, err := s.userRepo.ValidateUser(r.Context(), username, password)
		if err != nil {
			s.logger.Error("failed to validate user", zap.String("user", username), zap.Error(err))
		}
		if err != nil || !valid {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(booking.WithActor(r.Context(), username)))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
	respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
}

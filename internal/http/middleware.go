package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const ctxLogger contextKey = "logger"

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

// RequestLogger tags every request with an id, exposes a scoped logger to
// handlers and writes one entry when the response is done.
func RequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)
			entry := log.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			recorder := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(recorder, r.WithContext(context.WithValue(r.Context(), ctxLogger, entry)))
			if recorder.status == 0 {
				recorder.status = http.StatusOK
			}
			done := entry.WithFields(logrus.Fields{
				"status":  recorder.status,
				"bytes":   recorder.bytes,
				"latency": time.Since(start).String(),
				"remote":  r.RemoteAddr,
			})
			switch {
			case recorder.status >= http.StatusInternalServerError:
				done.Error("request completed")
			case recorder.status >= http.StatusBadRequest:
				done.Warn("request completed")
			default:
				done.Info("request completed")
			}
		})
	}
}

// LoggerFrom returns the request-scoped logger, or the standard logger when
// the request did not pass through RequestLogger.
func LoggerFrom(r *http.Request) logrus.FieldLogger {
	if entry, ok := r.Context().Value(ctxLogger).(logrus.FieldLogger); ok {
		return entry
	}
	return logrus.StandardLogger()
}

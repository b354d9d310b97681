package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"affordability-engine/internal/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request identifier; generated when the
// client does not supply one.
const RequestIDHeader = "X-Request-ID"

// IdempotencyKeyHeader lets clients replay a mutation-free request and get
// the cached response back.
const IdempotencyKeyHeader = "Idempotency-Key"

const replayHeader = "X-Idempotent-Replay"

type statusRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(data []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	rec.body.Write(data)
	return rec.ResponseWriter.Write(data)
}

// RequestIDMiddleware assigns every request an identifier and echoes it on
// the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
			r.Header.Set(RequestIDHeader, requestID)
		}
		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r)
	})
}

// MetricsMiddleware records request counts and latencies per path.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		requestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

type cachedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

// IdempotencyMiddleware replays cached responses for POST requests carrying
// an Idempotency-Key header. Only successful responses are cached.
func IdempotencyMiddleware(store cache.Store, ttl time.Duration, logger *zap.Logger, next http.Handler) http.Handler {
	if store == nil {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(IdempotencyKeyHeader)
		if r.Method != http.MethodPost || key == "" {
			next.ServeHTTP(w, r)
			return
		}

		cacheKey := "idem:" + r.URL.Path + ":" + key
		if raw, ok := store.Get(r.Context(), cacheKey); ok {
			var cached cachedResponse
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				idempotentReplays.Inc()
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set(replayHeader, "true")
				w.WriteHeader(cached.Status)
				if _, err := w.Write([]byte(cached.Body)); err != nil {
					logger.Error("failed to write replayed response",
						zap.String("op", "server.IdempotencyMiddleware"),
						zap.Error(err),
					)
				}
				return
			}
			logger.Warn("discarding unreadable idempotency cache entry",
				zap.String("op", "server.IdempotencyMiddleware"),
				zap.String("key", cacheKey),
			)
		}

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rec.status >= 200 && rec.status < 300 {
			payload, err := json.Marshal(cachedResponse{Status: rec.status, Body: rec.body.String()})
			if err == nil {
				err = store.Set(r.Context(), cacheKey, string(payload), ttl)
			}
			if err != nil {
				logger.Warn("failed to cache idempotent response",
					zap.String("op", "server.IdempotencyMiddleware"),
					zap.String("key", cacheKey),
					zap.Error(err),
				)
			}
		}
	})
}

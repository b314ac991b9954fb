package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	processingTTL = 10 * time.Second
	completedTTL  = 24 * time.Hour
)

// Idempotency guards state-changing requests against duplicate submission.
// Clients send an Idempotency-Key header; a repeated key gets 409 instead of
// a second booking. Requests without the header pass through, and Redis
// outages fail open.
func Idempotency(client *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil || (r.Method != http.MethodPost && r.Method != http.MethodPatch) {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			redisKey := "idempotency:" + key

			if _, err := client.Get(ctx, redisKey).Result(); err == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"error":"duplicate request"}`))
				return
			} else if !errors.Is(err, redis.Nil) {
				slog.WarnContext(ctx, "idempotency check skipped", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			acquired, err := client.SetNX(ctx, redisKey, "PROCESSING", processingTTL).Result()
			if err != nil || !acquired {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"error":"request already in flight"}`))
				return
			}

			next.ServeHTTP(w, r)

			client.Set(ctx, redisKey, "COMPLETED", completedTTL)
		})
	}
}

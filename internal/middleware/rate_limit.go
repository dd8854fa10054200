package middleware

import (
	"net/http"
	"sync"

	"toeic_flashcards/internal/model"
	"toeic_flashcards/internal/webutil"

	"golang.org/x/time/rate"
)

// RateLimiter は学習者ごとのトークンバケットを保持します。
type RateLimiter struct {
	mu     sync.Mutex
	limits map[string]*rate.Limiter
	rps    rate.Limit
	burst  int
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limits: make(map[string]*rate.Limiter),
		rps:    rate.Limit(requestsPerSecond),
		burst:  burst,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.limits[key]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.rps, rl.burst)
	rl.limits[key] = limiter
	return limiter
}

// Allow は key のリクエストを許可するかを返します。
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware は UserContextMiddleware の後段で使います。学習者IDがなければリモートアドレスで制限します。
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := GetUserIDFromContext(r.Context())
		if err != nil {
			key = r.RemoteAddr
		}
		if !rl.Allow(key) {
			logger := GetLogger(r.Context())
			logger.Warn("Rate limit exceeded", "key", key)
			appErr := model.NewAppError("TOO_MANY_REQUESTS", "リクエストが多すぎます。しばらくしてから再度お試しください。", "", model.ErrTooManyRequests)
			webutil.HandleError(w, logger, appErr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

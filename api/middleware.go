package api

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/hotelbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

const callerKey = "caller"

// Claims are issued by the identity service. Only verification happens here.
type Claims struct {
	HotelID int64       `json:"hotel_id"`
	UserID  int64       `json:"user_id"`
	Role    domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Caller() domain.CallerContext {
	return domain.CallerContext{HotelID: c.HotelID, UserID: c.UserID, Role: c.Role}
}

// AuthMiddleware verifies the Bearer token and stores the caller in the
// gin context.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if header == "" || tokenString == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Authorization header required."})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "Token is invalid or expired."})
			return
		}

		if problem := roleProblem(claims); problem != "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: problem})
			return
		}

		c.Set(callerKey, claims.Caller())
		c.Next()
	}
}

// roleProblem describes what is wrong with the token's role, "" when nothing.
func roleProblem(claims *Claims) string {
	switch claims.Role {
	case domain.RoleSuperAdmin, domain.RoleCustomer:
		return ""
	case domain.RoleHotelAdmin:
		if claims.HotelID == 0 {
			return "Hotel admin token carries no hotel."
		}
		return ""
	default:
		return "Unknown role."
	}
}

// callerFrom returns the caller stored by AuthMiddleware.
func callerFrom(c *gin.Context) (domain.CallerContext, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return domain.CallerContext{}, false
	}
	caller, ok := v.(domain.CallerContext)
	return caller, ok
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[key] = limiter
	}
	rl.lastSeen[key] = time.Now()
	return limiter
}

// Cleanup drops limiters idle for longer than idle.
func (rl *RateLimiter) Cleanup(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, seen := range rl.lastSeen {
		if now.Sub(seen) > idle {
			delete(rl.limiters, key)
			delete(rl.lastSeen, key)
		}
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.get(c.ClientIP()).Allow() {
			log.Printf("rate limit exceeded for %s %s from %s", c.Request.Method, c.FullPath(), c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Error: "Too many requests. Please try again later."})
			return
		}
		c.Next()
	}
}

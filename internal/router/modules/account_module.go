package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/watchparty-api/internal/interface/http"
	"github.com/oksasatya/watchparty-api/internal/interface/middleware"
)

// AccountModule wires signup, login and user search.
// Public: POST /api/signup, POST /api/login, GET /api/users/search
type AccountModule struct {
	Handler *handlers.AccountHandler
	RDB     *redis.Client
	Limits  AccountLimits
}

// AccountLimits are requests per minute per client IP. Zero disables the limiter.
type AccountLimits struct {
	Signup int
	Login  int
	Search int
}

func NewAccountModule(h *handlers.AccountHandler, rdb *redis.Client, limits AccountLimits) *AccountModule {
	return &AccountModule{Handler: h, RDB: rdb, Limits: limits}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(m.RDB, m.Limits.Signup, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.RDB, m.Limits.Login, time.Minute, middleware.KeyByIPAndPath(), nil)
	searchLimiter := middleware.RateLimit(m.RDB, m.Limits.Search, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.POST("/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.GET("/users/search", searchLimiter, m.Handler.Search)
}

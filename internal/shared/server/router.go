package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "jobmatch-backend/internal/auth"
	"jobmatch-backend/internal/matches"
	"jobmatch-backend/internal/resumes"
	"jobmatch-backend/internal/shared/config"
	"jobmatch-backend/internal/shared/health"
	"jobmatch-backend/internal/shared/metrics"
	"jobmatch-backend/internal/shared/server/middleware"
	"jobmatch-backend/internal/shared/server/respond"
	"jobmatch-backend/internal/users"
	"jobmatch-backend/internal/vacancies"
)

const (
	rateGroupRead  = "READ"
	rateGroupWrite = "WRITE"
)

// RouterDeps carries the handlers and infrastructure the router mounts.
type RouterDeps struct {
	Config     config.Config
	Verifier   middleware.TokenVerifier
	Limiter    middleware.Limiter
	Health     *health.Service
	Users      *users.Handler
	Resumes    *resumes.Handler
	Vacancies  *vacancies.Handler
	Matches    *matches.Handler
	GoogleAuth *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		metrics.Middleware(),
	)
	r.GET("/metrics", metrics.Handler())

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(0)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	})
	api.GET("/ready", func(c *gin.Context) {
		report := healthSvc.Ready(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})

	limit := middleware.RateLimit(rateLimitConfig(deps))

	public := api.Group("")
	public.Use(limit)
	if deps.Users != nil {
		deps.Users.RegisterPublicRoutes(public)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(public)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(deps.Verifier), limit)
	if deps.Users != nil {
		deps.Users.RegisterRoutes(protected)
	}
	if deps.Resumes != nil {
		deps.Resumes.RegisterRoutes(protected)
	}
	if deps.Vacancies != nil {
		deps.Vacancies.RegisterRoutes(protected)
	}
	if deps.Matches != nil {
		deps.Matches.RegisterRoutes(protected)
	}

	return r
}

// rateLimitConfig gives reads twice the write budget.
func rateLimitConfig(deps RouterDeps) middleware.RateLimitConfig {
	rps := deps.Config.RateLimitRPS
	burst := deps.Config.RateLimitBurst
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			rateGroupRead:  {Rate: rps * 2, Burst: burst * 2},
			rateGroupWrite: {Rate: rps, Burst: burst},
		},
		DefaultGroup: rateGroupWrite,
		GroupFor: func(c *gin.Context) string {
			switch strings.ToUpper(c.Request.Method) {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return rateGroupRead
			default:
				return rateGroupWrite
			}
		},
		Limiter: deps.Limiter,
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

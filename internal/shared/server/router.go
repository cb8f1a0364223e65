package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "letters-backend/internal/auth"
	"letters-backend/internal/documents"
	"letters-backend/internal/letters"
	"letters-backend/internal/shared/config"
	"letters-backend/internal/shared/metrics"
	"letters-backend/internal/shared/server/middleware"
	"letters-backend/internal/shared/server/respond"
	"letters-backend/internal/templates"
)

const (
	rateGroupGenerate = "GENERATE"
	rateGroupExport   = "EXPORT"
)

// RouterDeps carries everything the router needs; bootstrap fills it in.
type RouterDeps struct {
	Config           config.Config
	DocumentsHandler *documents.Handler
	TemplatesHandler *templates.Handler
	LettersHandler   *letters.Handler
	GoogleAuth       *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	registerMeRoutes(api)

	firm := api.Group("/firms/:firmId")
	firm.Use(
		middleware.FirmScope(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				rateGroupGenerate: {Rate: 0.5, Burst: 3},
				rateGroupExport:   {Rate: 1, Burst: 5},
			},
			GroupFor: rateGroupFor,
		}),
	)
	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.RegisterRoutes(firm)
	}
	if deps.TemplatesHandler != nil {
		deps.TemplatesHandler.RegisterRoutes(firm)
	}
	if deps.LettersHandler != nil {
		deps.LettersHandler.RegisterRoutes(firm)
	}

	return r
}

// rateGroupFor buckets the expensive endpoints; everything else is unlimited.
func rateGroupFor(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	path := c.Request.URL.Path
	switch {
	case strings.HasSuffix(path, "/generate/letter"):
		return rateGroupGenerate
	case strings.HasSuffix(path, "/finalize"), strings.HasSuffix(path, "/export"):
		return rateGroupExport
	}
	return ""
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

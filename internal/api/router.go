package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/nc-news-api/internal/config"
	"github.com/nc-news-api/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter creates and configures the Gin router.
//
// Middleware order:
//  1. OpenTelemetry tracing
//  2. request id
//  3. request logger
//  4. panic recovery
//  5. Prometheus metrics
//  6. CORS and gzip
//  7. error rendering, innermost so it sees handler errors first
func NewRouter(services *service.Services, db HealthChecker, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	router := gin.New()
	// A trailing slash is served in place by the NoRoute resolver, not redirected.
	router.RedirectTrailingSlash = false

	router.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	router.Use(RequestID())
	router.Use(RequestLogger(log))
	router.Use(Recovery())
	router.Use(Metrics())
	router.Use(corsMiddleware(cfg.API.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))
	router.Use(ErrorMiddleware())

	catalog := NewCatalogHandler(services, log)
	articles := NewArticleHandler(services, log)
	comments := NewCommentHandler(services, log)

	router.GET("/", rootCheck)
	router.GET("/health", healthCheck(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("", catalog.Endpoints)
		api.GET("/topics", catalog.ListTopics)

		api.GET("/articles", articles.ListArticles)
		api.POST("/articles", articles.CreateArticle)
		api.GET("/articles/:article_id", articles.GetArticle)
		api.PATCH("/articles/:article_id", articles.VoteOnArticle)
		api.GET("/articles/:article_id/comments", articles.ListComments)
		api.POST("/articles/:article_id/comments", articles.AddComment)

		api.GET("/comments/:comment_id", comments.GetComment)
		api.PATCH("/comments/:comment_id", comments.VoteOnComment)
		api.DELETE("/comments/:comment_id", comments.DeleteComment)

		api.GET("/users", catalog.ListUsers)
		api.GET("/users/:username", catalog.GetUser)
	}

	// The table is taken after every route above is registered and never changes.
	router.NoRoute(NewMethodResolver(RouteTableFrom(router.Routes())).Handle)

	return router
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader, "Content-Length", "Allow"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"library_catalog/internal/logger"
	"library_catalog/internal/metrics"
	"library_catalog/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const genericErrorMsg = "an unexpected error occurred"

// Handler wires the HTTP layer to services, logging and metrics.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  *metrics.Collector
	webDir   string
	limiter  *ipRateLimiter
}

// NewHandler constructs the HTTP handler. webDir is the directory holding the
// SPA assets; empty disables static serving (tests).
func NewHandler(services *service.Service, log *logger.Logger, collector *metrics.Collector, webDir string) *Handler {
	return &Handler{
		services: services,
		log:      log,
		metrics:  collector,
		webDir:   webDir,
		limiter:  newIPRateLimiter(authRatePerSec, authBurst),
	}
}

// Close stops background goroutines owned by the handler.
func (h *Handler) Close() {
	h.limiter.stop()
}

// InitRoutes builds the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(h.handlePanic))
	if h.metrics != nil {
		router.Use(h.metricsMiddleware)
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerBookRoutes(router)

	// Live catalog feed over the same port.
	router.GET("/ws/catalog", h.catalogFeed)

	h.registerStatic(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/Auth")
	{
		// Pre-auth endpoints are the brute-force surface; rate limit by IP.
		auth.POST("/register", h.limiter.middleware(), h.register)
		auth.POST("/login", h.limiter.middleware(), h.login)
		auth.GET("/me", h.authMiddleware, h.currentUser)
	}
}

func (h *Handler) registerBookRoutes(r *gin.Engine) {
	books := r.Group("/api/Books", h.authMiddleware)
	{
		books.GET("", h.listBooks)
		books.GET("/:id", h.getBook)
		books.POST("", h.createBook)
		books.PUT("/:id", h.updateBook)
		books.DELETE("/:id", h.deleteBook)
	}
}

// registerStatic serves the SPA with an index.html fallback so client-side
// routes survive a reload.
func (h *Handler) registerStatic(r *gin.Engine) {
	if h.webDir == "" {
		return
	}
	index := filepath.Join(h.webDir, "index.html")
	r.StaticFile("/", index)
	r.StaticFile("/app.js", filepath.Join(h.webDir, "app.js"))
	r.StaticFile("/styles.css", filepath.Join(h.webDir, "styles.css"))
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(index)
	})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handlePanic is the process-wide fallback: anything unmapped becomes a
// generic 500 with details kept server-side only.
func (h *Handler) handlePanic(c *gin.Context, recovered any) {
	if h.log != nil {
		h.log.Errorw("panic_recovered", "err", recovered, "path", c.Request.URL.Path)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": genericErrorMsg})
}

func (h *Handler) metricsMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	h.metrics.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
}

// logAndJSONError logs the underlying error server-side and answers the
// client with only the category message.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

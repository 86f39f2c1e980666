package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"catalog-service/internal/domain"
	"catalog-service/internal/metrics"
	productsvc "catalog-service/internal/service/product"
)

type productService interface {
	Create(ctx context.Context, in productsvc.CreateInput) (*domain.Product, error)
	List(ctx context.Context, q productsvc.ListQuery) (domain.Page, error)
	GetByID(ctx context.Context, id string) (*domain.Product, bool, error)
	Update(ctx context.Context, id string, in productsvc.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// Deps groups the collaborators the router needs.
type Deps struct {
	ProductSvc productService
	DB         pinger
	Cache      pinger

	// JWTSecret enables the bearer guard on /products when set.
	JWTSecret      string
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if deps.ProductSvc == nil {
		return nil, errors.New("httpserver: product service is required")
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), metrics.Middleware())
	if len(deps.CORSOrigins) > 0 {
		router.Use(corsMiddleware(deps.CORSOrigins))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.DB, deps.Cache))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	products := router.Group("/products", requestTimeout(deps.RequestTimeout))
	if deps.JWTSecret != "" {
		products.Use(jwtGuard(deps.JWTSecret, logger))
	}
	h := &productHandler{svc: deps.ProductSvc, logger: logger}
	products.POST("", h.create)
	products.GET("", h.list)
	products.GET("/:id", h.get)
	products.PATCH("/:id", h.update)
	products.DELETE("/:id", h.delete)

	router.NoRoute(func(c *gin.Context) {
		writeError(c, logger, domain.ErrNotFound)
	})

	return router, nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}

// requestTimeout bounds the context handed to the service layer.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

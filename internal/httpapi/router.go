package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/rs/zerolog"
	"golang.org/x/text/currency"
)

const version = "1.0.0"

type Options struct {
	Carts    *service.CartService
	Products *service.ProductService
	Metrics  *metrics.Metrics
	Logger   zerolog.Logger

	// CORSOrigins is ignored in development, where any origin is allowed.
	CORSOrigins []string
	Development bool
	// Currency is reported for empty carts and used for products created without one.
	Currency currency.Unit
}

type handler struct {
	carts    *service.CartService
	products *service.ProductService
	currency currency.Unit
}

func NewRouter(opts Options) *gin.Engine {
	if !opts.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	h := &handler{
		carts:    opts.Carts,
		products: opts.Products,
		currency: opts.Currency,
	}

	r := gin.New()
	r.Use(
		requestLogger(opts.Logger, opts.Metrics),
		gin.CustomRecovery(recovered),
		cors.New(corsConfig(opts.CORSOrigins, opts.Development)),
	)

	r.GET("/", banner)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler(opts.Logger)))
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", health)

		products := apiGroup.Group("/products")
		{
			products.GET("", h.listProducts)
			products.GET("/:id", h.getProduct)
			products.POST("", h.createProduct)
			products.PUT("/:id", h.updateProduct)
			products.DELETE("/:id", h.deleteProduct)
		}

		cart := apiGroup.Group("/cart")
		cart.Use(cartID)
		{
			cart.GET("", h.getCart)
			cart.POST("", h.addToCart)
			cart.PUT("/:productId", h.updateCartItem)
			cart.DELETE("/:productId", h.removeFromCart)
			cart.DELETE("", h.clearCart)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, api.Envelope[any]{
			Success: false,
			Message: "Route " + c.Request.URL.RequestURI() + " not found",
		})
	})

	return r
}

func corsConfig(origins []string, development bool) cors.Config {
	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", api.HeaderCartID},
		ExposeHeaders:    []string{"Content-Length", api.HeaderCartID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if development || len(origins) == 0 {
		cfg.AllowOrigins = nil
		cfg.AllowOriginFunc = func(string) bool { return true }
	}
	return cfg
}

func banner(c *gin.Context) {
	c.JSON(http.StatusOK, api.Banner{
		Success: true,
		Message: "E-Commerce API Server",
		Version: version,
		Endpoints: map[string]string{
			"health":   "/api/health",
			"products": "/api/products",
			"cart":     "/api/cart",
		},
	})
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, api.Health{
		Success:   true,
		Message:   api.MsgAPIRunning,
		Timestamp: time.Now().UTC(),
	})
}

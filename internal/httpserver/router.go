package httpserver

import (
	"context"
	"fmt"
	"sync"

	"aurora-commerce/internal/domain"
	"aurora-commerce/internal/kvstore"
	"aurora-commerce/internal/logging"
	cartsvc "aurora-commerce/internal/service/cart"
	catalogsvc "aurora-commerce/internal/service/catalog"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type CatalogService interface {
	List(ctx context.Context, order catalogsvc.Sort) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	AdjustStock(ctx context.Context, id string, delta int) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}

type CartService interface {
	AddItem(ctx context.Context, in cartsvc.AddInput) ([]domain.CartLine, error)
	ChangeQuantity(ctx context.Context, key domain.LineKey, delta int) ([]domain.CartLine, error)
	RemoveItem(ctx context.Context, key domain.LineKey) ([]domain.CartLine, error)
	View(ctx context.Context) (*domain.CartView, error)
	Clear(ctx context.Context) error
}

type CheckoutService interface {
	Checkout(ctx context.Context, customer domain.Customer) (*domain.Order, error)
}

type OrderService interface {
	Find(ctx context.Context, id string) (*domain.Order, error)
	Recent(ctx context.Context) ([]domain.Order, error)
	SetStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

// Deps holds the engine services the routes call into.
type Deps struct {
	Store       kvstore.Store
	CatalogSvc  CatalogService
	CartSvc     CartService
	CheckoutSvc CheckoutService
	OrderSvc    OrderService
}

type handlers struct {
	deps   Deps
	logger *logrus.Logger
}

// buildRouter wires routes for the API.
func buildRouter(logger *logrus.Logger, deps Deps, opts Options) (*gin.Engine, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if deps.CatalogSvc == nil || deps.CartSvc == nil || deps.CheckoutSvc == nil || deps.OrderSvc == nil {
		return nil, fmt.Errorf("httpserver: missing service dependency")
	}
	if opts.AdminKeyHash != "" {
		if _, err := bcrypt.Cost([]byte(opts.AdminKeyHash)); err != nil {
			return nil, fmt.Errorf("httpserver: admin key hash: %w", err)
		}
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestID(), gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(opts.CORSAllowOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = opts.CORSAllowOrigins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, adminKeyHeader, requestIDHeader)
		corsCfg.ExposeHeaders = []string{requestIDHeader}
		router.Use(cors.New(corsCfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Store))

	h := &handlers{deps: deps, logger: logger}

	// The engine reads a whole key, mutates a copy and writes it back; one request at a time.
	engine := router.Group("/", serialize(&sync.Mutex{}))

	engine.GET("/products", h.listProducts)
	engine.GET("/products/:id", h.getProduct)

	engine.GET("/cart", h.getCart)
	engine.POST("/cart/items", h.addCartItem)
	engine.PATCH("/cart/items", h.changeCartItem)
	engine.DELETE("/cart/items", h.removeCartItem)
	engine.DELETE("/cart", h.clearCart)

	engine.POST("/checkout", h.checkout)
	engine.GET("/orders/:id", h.getOrder)

	admin := engine.Group("/admin", adminGuard(opts.AdminKeyHash))
	admin.GET("/orders", h.listOrders)
	admin.PUT("/orders/:id/status", h.setOrderStatus)
	admin.POST("/products/:id/stock", h.adjustStock)
	admin.PUT("/products/:id", h.upsertProduct)

	return router, nil
}

package provider

import (
	"context"
	"time"

	"github.com/mazraa-market/internal/authz"
	"github.com/mazraa-market/internal/cache"
	"github.com/mazraa-market/internal/cart"
	"github.com/mazraa-market/internal/catalog"
	"github.com/mazraa-market/internal/config"
	"github.com/mazraa-market/internal/logger"
	"github.com/mazraa-market/internal/models"
	"github.com/mazraa-market/internal/queue"
	"github.com/mazraa-market/internal/repository"
	"github.com/mazraa-market/internal/service"
)

// Container wires the repositories and services once at startup.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo    repository.UserRepository
	FarmRepo    repository.FarmRepository
	ProductRepo repository.ProductRepository
	OrderRepo   repository.OrderRepository
	HistoryRepo repository.OrderStatusHistoryRepository
	PaymentRepo repository.PaymentRepository
	ContactRepo repository.ContactMessageRepository

	// Cart infrastructure
	CartStorage   cart.Storage
	CartManager   *cart.Manager
	CatalogSource catalog.Source

	// Services
	AuthzService     *authz.Service
	AuthService      *service.AuthService
	CaptchaService   *service.CaptchaService
	FarmService      *service.FarmService
	ProductService   *service.ProductService
	CartService      *service.CartService
	OrderService     *service.OrderService
	PaymentService   *service.PaymentService
	ContactService   *service.ContactService
	UserAdminService *service.UserAdminService
}

// NewContainer builds the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initCart()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.FarmRepo = repository.NewFarmRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.HistoryRepo = repository.NewOrderStatusHistoryRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.ContactRepo = repository.NewContactMessageRepository(db)
}

// initCart picks the cart storage driver and the catalog source. The redis
// driver needs the cache enabled; anything else falls back to file storage.
func (c *Container) initCart() {
	var storage cart.Storage
	if c.Config.Cart.StorageDriver == "redis" && cache.Enabled() {
		rs, err := cart.NewRedisStorage(cache.Client(), c.Config.Redis.Prefix)
		if err != nil {
			logger.Errorw("provider_init_cart_redis_storage_failed", "error", err)
		} else {
			storage = rs
		}
	}
	if storage == nil {
		fs, err := cart.NewFileStorage(c.Config.Cart.StorageDir)
		if err != nil {
			logger.Errorw("provider_init_cart_file_storage_failed", "error", err)
			panic(err)
		}
		storage = fs
	}
	c.CartStorage = storage

	limits := cart.Limits{
		MaxDistinctLines: c.Config.Cart.MaxDistinctLines,
		QuantityCap:      c.Config.Cart.QuantityCap,
		ShippingFee:      c.Config.Cart.ShippingFee,
	}
	c.CartManager = cart.NewManager(storage, limits)
	// Cross-process change hints (file watcher, redis keyspace) reload the
	// affected stores instead of trusting the in-memory copy.
	c.CartManager.WatchStorage(context.Background())

	if baseURL := c.Config.Catalog.BaseURL; baseURL != "" {
		c.CatalogSource = catalog.NewClient(baseURL, time.Duration(c.Config.Catalog.TimeoutMS)*time.Millisecond)
	} else {
		c.CatalogSource = service.NewDBCatalogSource(repository.NewProductRepository(models.DB))
	}
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.AuthzService)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.FarmService = service.NewFarmService(c.FarmRepo, c.UserRepo, c.AuthzService)
	c.ProductService = service.NewProductService(c.ProductRepo, c.FarmRepo)
	c.CartService = service.NewCartService(c.CartManager, c.CatalogSource, c.ProductRepo)
	c.OrderService = service.NewOrderService(c.Config, c.OrderRepo, c.HistoryRepo, c.ProductRepo, c.FarmRepo, c.CartService, c.QueueClient)
	c.PaymentService = service.NewPaymentService(c.Config, c.PaymentRepo, c.OrderService)
	c.ContactService = service.NewContactService(c.ContactRepo)
	c.UserAdminService = service.NewUserAdminService(c.UserRepo)
}

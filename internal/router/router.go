package router

import (
	"fmt"
	"strings"

	"github.com/mazraa-market/internal/cache"
	"github.com/mazraa-market/internal/config"
	"github.com/mazraa-market/internal/constants"
	adminhandlers "github.com/mazraa-market/internal/http/handlers/admin"
	farmerhandlers "github.com/mazraa-market/internal/http/handlers/farmer"
	publichandlers "github.com/mazraa-market/internal/http/handlers/public"
	"github.com/mazraa-market/internal/logger"
	"github.com/mazraa-market/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the HTTP engine and wires every route group.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	farmerHandler := farmerhandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = constants.RedisPrefixDefault
	}
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		MessageKey:    "error.login_too_many",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// Uploaded farm and product images.
	r.Static("/uploads", "./uploads")

	apiV1 := r.Group("/api/v1")
	{
		// Browsing needs no account.
		public := apiV1.Group("/public")
		{
			public.GET("/farms", publicHandler.ListFarms)
			public.GET("/farms/:id", publicHandler.GetFarm)
			public.GET("/farms/:id/products", publicHandler.ListFarmProducts)
			public.GET("/products", publicHandler.ListProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
			public.GET("/captcha/image", publicHandler.GetImageCaptcha)
			public.POST("/contact", publicHandler.SubmitContactMessage)
		}

		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.Register)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.Login)
		}

		// Payment gateway callbacks authenticate via secret token, not JWT.
		apiV1.POST("/payments/webhook", publicHandler.PaymentWebhook)

		// Consumer surface: account, cart, checkout, payments.
		user := apiV1.Group("/user")
		user.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), RoleRBACMiddleware(c.AuthzService))
		{
			user.GET("/me", publicHandler.CurrentUser)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.PUT("/me/password", publicHandler.ChangePassword)
			user.POST("/logout", publicHandler.Logout)

			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.PUT("/cart/items/:ident", publicHandler.UpdateCartItem)
			user.DELETE("/cart/items/:ident", publicHandler.RemoveCartItem)
			user.DELETE("/cart", publicHandler.ClearCart)
			user.POST("/cart/reconcile", publicHandler.ReconcileCart)

			user.POST("/orders", publicHandler.Checkout)
			user.GET("/orders", publicHandler.ListOrders)
			user.GET("/orders/:id", publicHandler.GetOrder)
			user.GET("/orders/:id/timeline", publicHandler.GetOrderTimeline)
			user.POST("/orders/:id/cancel", publicHandler.CancelOrder)

			user.POST("/orders/:id/payments", publicHandler.CreatePayment)
			user.GET("/orders/:id/payments", publicHandler.GetPayment)
			user.POST("/orders/:id/payments/sync", publicHandler.SyncPayment)
		}

		// Farmer surface: own farms, products and incoming orders.
		farmer := apiV1.Group("/farmer")
		farmer.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), RoleRBACMiddleware(c.AuthzService))
		{
			farmer.GET("/farms", farmerHandler.ListFarms)
			farmer.POST("/farms", farmerHandler.CreateFarm)
			farmer.PUT("/farms/:id", farmerHandler.UpdateFarm)
			farmer.DELETE("/farms/:id", farmerHandler.DeleteFarm)

			farmer.GET("/farms/:id/products", farmerHandler.ListFarmProducts)
			farmer.POST("/farms/:id/products", farmerHandler.CreateProduct)
			farmer.PUT("/products/:id", farmerHandler.UpdateProduct)
			farmer.DELETE("/products/:id", farmerHandler.DeleteProduct)

			farmer.GET("/orders", farmerHandler.ListOrders)
			farmer.GET("/orders/:id", farmerHandler.GetOrder)
			farmer.PATCH("/orders/:id/status", farmerHandler.UpdateOrderStatus)
		}

		// Admin surface: accounts, contact inbox, order oversight.
		admin := apiV1.Group("/admin")
		admin.Use(UserJWTAuthMiddleware(cfg.JWT.SecretKey, c.UserRepo), RoleRBACMiddleware(c.AuthzService))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/:id", adminHandler.GetUser)
			admin.PATCH("/users/:id/status", adminHandler.SetUserStatus)

			admin.GET("/contact-messages", adminHandler.ListContactMessages)
			admin.PATCH("/contact-messages/:id/read", adminHandler.MarkContactMessageRead)

			admin.PATCH("/orders/:id/status", adminHandler.UpdateOrderStatus)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

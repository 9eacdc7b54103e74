package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"apotek-store/internal/core/auth"
	"apotek-store/internal/core/config"
	"apotek-store/internal/core/logger"
	"apotek-store/internal/core/server"
	"apotek-store/internal/core/store"

	addradapters "apotek-store/internal/features/addresses/adapters"
	addrhandler "apotek-store/internal/features/addresses/handler"
	addrservice "apotek-store/internal/features/addresses/service"
	cartadapters "apotek-store/internal/features/carts/adapters"
	carthandler "apotek-store/internal/features/carts/handler"
	cartservice "apotek-store/internal/features/carts/service"
	catalogadapters "apotek-store/internal/features/catalog/adapters"
	cataloghandler "apotek-store/internal/features/catalog/handler"
	catalogservice "apotek-store/internal/features/catalog/service"
	invadapters "apotek-store/internal/features/inventory/adapters"
	orderadapters "apotek-store/internal/features/orders/adapters"
	orderhandler "apotek-store/internal/features/orders/handler"
	orderservice "apotek-store/internal/features/orders/service"
	paymentadapters "apotek-store/internal/features/payments/adapters"
	paymenthandler "apotek-store/internal/features/payments/handler"
	paymentservice "apotek-store/internal/features/payments/service"
	shippingadapters "apotek-store/internal/features/shipping/adapters"
	shippinghandler "apotek-store/internal/features/shipping/handler"
	shippingservice "apotek-store/internal/features/shipping/service"
	useradapters "apotek-store/internal/features/users/adapters"
	userhandler "apotek-store/internal/features/users/handler"
	userservice "apotek-store/internal/features/users/service"

	"go.uber.org/zap"
)

// @title Apotek Store API
// @version 1.0
// @description Online pharmacy storefront with an order lifecycle and stock reservation engine.
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := store.New(cfg.Redis.URL)
	if err != nil {
		logger.Get().Fatal("failed to connect to redis", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		logger.Get().Fatal("redis is unreachable", zap.Error(err))
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)

	client := db.Client()
	ledger := invadapters.NewRedisLedger(client)
	productRepo := catalogadapters.NewRedisProductRepository(client)
	cartRepo := cartadapters.NewRedisCartRepository(client)
	addressRepo := addradapters.NewRedisAddressRepository(client)
	userRepo := useradapters.NewRedisUserRepository(client)
	orderRepo := orderadapters.NewRedisOrderRepository(client)
	paymentRepo := paymentadapters.NewRedisPaymentRepository(client)
	shippingRepo := shippingadapters.NewRedisShippingRepository(client)

	catalogSvc := catalogservice.NewProductService(productRepo, ledger)
	cartSvc := cartservice.NewCartService(cartRepo, productRepo)
	addressSvc := addrservice.NewAddressService(addressRepo)
	userSvc := userservice.NewUserService(userRepo, tokens)
	orderSvc := orderservice.NewOrderService(
		orderRepo,
		cartSvc,
		addressSvc,
		productRepo,
		orderservice.NewFlatRateCalculator(cfg.Orders.FlatShippingCost),
		shippingRepo,
		cfg.Orders,
	)
	paymentSvc := paymentservice.NewPaymentService(paymentRepo, orderRepo, userSvc)
	shippingSvc := shippingservice.NewShippingService(shippingRepo, orderSvc, orderRepo, userRepo)

	catalogHdl := cataloghandler.NewProductHandler(catalogSvc)
	cartHdl := carthandler.NewCartHandler(cartSvc)
	addressHdl := addrhandler.NewAddressHandler(addressSvc)
	authHdl := userhandler.NewAuthHandler(userSvc)
	orderHdl := orderhandler.NewOrderHandler(orderSvc)
	paymentHdl := paymenthandler.NewPaymentHandler(paymentSvc)
	shippingHdl := shippinghandler.NewShippingHandler(shippingSvc)

	srv := server.New(cfg)
	app := srv.App

	// Public surface.
	app.Post("/api/auth/register", authHdl.Register)
	app.Post("/api/auth/login", authHdl.Login)
	app.Get("/api/products", catalogHdl.List)
	app.Get("/api/products/:id", catalogHdl.Get)

	// Authenticated surface.
	api := app.Group("/api", auth.Authenticate(tokens))
	api.Get("/cart", cartHdl.List)
	api.Post("/cart/items", cartHdl.SetLine)
	api.Delete("/cart/items/:productId", cartHdl.RemoveLine)
	api.Delete("/cart", cartHdl.Clear)

	api.Post("/addresses", addressHdl.Create)
	api.Get("/addresses", addressHdl.List)
	api.Put("/addresses/:id", addressHdl.Update)
	api.Delete("/addresses/:id", addressHdl.Delete)

	api.Post("/orders/checkout", orderHdl.Checkout)
	api.Get("/orders/my", orderHdl.MyOrders)
	api.Get("/orders/my/:id", orderHdl.MyOrderDetail)
	api.Post("/orders/:id/cancel", orderHdl.Cancel)
	api.Post("/orders/:id/completed", orderHdl.ConfirmCompleted)

	api.Post("/payments/pay/:orderId", paymentHdl.Pay)
	api.Get("/shipping/track/:orderId", shippingHdl.Track)

	// Back office.
	admin := api.Group("/admin", auth.RequireRole(auth.RoleAdmin))
	admin.Post("/products", catalogHdl.Create)
	admin.Put("/products/:id", catalogHdl.Update)
	admin.Delete("/products/:id", catalogHdl.Delete)

	admin.Get("/orders", orderHdl.AdminList)
	admin.Get("/orders/:id", orderHdl.AdminDetail)
	admin.Put("/orders/:id/status", orderHdl.AdminSetStatus)
	admin.Post("/orders/:id/cancel", orderHdl.AdminCancel)

	admin.Get("/shipping", shippingHdl.AdminList)
	admin.Post("/shipping/:orderId/tracking", shippingHdl.AdminAddTracking)
	admin.Put("/shipping/:orderId/status", shippingHdl.AdminUpdateStatus)
	admin.Get("/shipping/order/:orderId", shippingHdl.AdminByOrder)
	admin.Get("/shipping/tracking/:trackingNumber", shippingHdl.AdminByTracking)

	sweeper := orderservice.NewSweeper(orderSvc, time.Duration(cfg.Orders.SweepIntervalSeconds)*time.Second)
	sweeper.Run(ctx)
	defer sweeper.Close()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Get().Info("shutting down")
		sweeper.Close()
		_ = app.Shutdown()
	}()

	if err := srv.Run(); err != nil {
		logger.Get().Fatal("server stopped", zap.Error(err))
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dkochetov/storefront/internal/app"
	"github.com/dkochetov/storefront/internal/config"
	"github.com/dkochetov/storefront/internal/events"
	"github.com/dkochetov/storefront/internal/gateway"
	"github.com/dkochetov/storefront/internal/handler"
	"github.com/dkochetov/storefront/internal/middleware"
	"github.com/dkochetov/storefront/internal/postgres"
	"github.com/dkochetov/storefront/internal/redisx"
	"github.com/dkochetov/storefront/internal/repo"
	"github.com/dkochetov/storefront/internal/service"
	"github.com/dkochetov/storefront/pkg/cache"
	"github.com/dkochetov/storefront/pkg/trm"

	"github.com/joho/godotenv"
)

func main() {
	conf := config.New()
	logger := newLogger(conf.Env)
	panicIfErr("invalid config", conf.Validate())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := postgres.New(conf.Postgres)
	panicIfErr("failed to connect to db", err)
	defer db.Close()
	logger.Info("postgres connected")

	redisClient, err := redisx.New(ctx, conf.Redis)
	panicIfErr("failed to connect to redis", err)
	defer redisClient.Close()
	logger.Info("redis connected")

	var producer events.Producer = events.NopProducer{}
	if len(conf.Kafka.Brokers) > 0 {
		producer = events.NewKafkaProducer(logger, conf.Kafka)
		logger.Info("kafka producer enabled")
	}

	userRepo := repo.NewUserRepo(db)
	productRepo := repo.NewProductRepo(db)
	cartRepo := repo.NewCartRepo(db)
	orderRepo := repo.NewOrderRepo(db)

	txManager := trm.NewManager(db)
	productCache := cache.NewLRUCache(conf.Cache.Capacity, conf.Cache.TTL)
	productCache.StartJanitor(ctx)
	idemStore := redisx.NewStore(redisClient)
	razorpay := gateway.NewClient(conf.Gateway)

	authService := service.NewAuthService(logger, userRepo, conf.JWT)
	userService := service.NewUserService(logger, userRepo)
	productService := service.NewProductService(logger, productRepo, productCache)
	cartService := service.NewCartService(logger, cartRepo, productRepo)
	orderService := service.NewOrderService(logger, txManager, orderRepo, productRepo, producer)
	paymentService := service.NewPaymentService(logger, razorpay, productRepo, idemStore)

	auth := middleware.NewAuth(authService)

	handler.RegisterMetrics()

	application := app.New(logger, conf)
	application.SetHTTPHandlers(
		handler.NewAuthHandler(logger, authService),
		handler.NewUserHandler(logger, userService, auth),
		handler.NewProductHandler(logger, productService, auth),
		handler.NewCartHandler(logger, cartService, auth),
		handler.NewOrderHandler(logger, orderService, auth),
		handler.NewPaymentHandler(logger, paymentService, auth),
	)
	application.SetClosers(producer)

	application.Start()
	<-ctx.Done()
	application.Stop()
}

func init() {
	godotenv.Load()
}

func newLogger(env string) *slog.Logger {
	switch env {
	case "production":
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

func panicIfErr(prefix string, err error) {
	if err != nil {
		panic(prefix + ": " + err.Error())
	}
}

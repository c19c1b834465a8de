package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/dariga-s/bakehouse/internal/adapter/channel"
	httpAdapter "github.com/dariga-s/bakehouse/internal/adapter/http"
	"github.com/dariga-s/bakehouse/internal/adapter/postgres"
	"github.com/dariga-s/bakehouse/internal/adapter/rabbitmq"
	redisAdapter "github.com/dariga-s/bakehouse/internal/adapter/redis"
	"github.com/dariga-s/bakehouse/internal/app/inventory"
	"github.com/dariga-s/bakehouse/internal/app/loyalty"
	"github.com/dariga-s/bakehouse/internal/app/notification"
	"github.com/dariga-s/bakehouse/internal/app/order"
	"github.com/dariga-s/bakehouse/internal/app/payment"
	"github.com/dariga-s/bakehouse/internal/config"
	"github.com/dariga-s/bakehouse/internal/eventbus"
	"github.com/dariga-s/bakehouse/internal/interfaces"
	"github.com/dariga-s/bakehouse/internal/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 3000, "HTTP port")
	dev := flag.Bool("dev", false, "Development logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	lgr, err := logger.New("bakehouse", *dev)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer lgr.Sync()

	ctx := context.Background()

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		lgr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	lgr.Info("connected to postgres",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database))

	// Event bus is built once at startup and injected everywhere; nothing
	// publishes or subscribes before this point.
	bus := eventbus.New(lgr)

	// Repositories
	orderRepo := postgres.NewOrderRepository(db)
	ingredientRepo := postgres.NewIngredientRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	loyaltyRepo := postgres.NewLoyaltyRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)

	var balanceCache interfaces.BalanceCache = redisAdapter.NopCache{}
	if cfg.Redis.Enabled {
		balanceCache = redisAdapter.NewBalanceCache(cfg.Redis)
		lgr.Info("loyalty balance cache enabled", zap.String("host", cfg.Redis.Host))
	}

	// Use cases
	orderService := order.NewService(orderRepo, bus, lgr)
	inventoryService := inventory.NewService(ingredientRepo, bus, lgr)
	loyaltyService := loyalty.NewService(loyaltyRepo, customerRepo, balanceCache, lgr)
	paymentService := payment.NewService(paymentRepo, orderRepo, loyaltyService, bus, lgr)

	// Notification channels
	channels := buildChannels(cfg, lgr)
	dispatcher := notification.NewDispatcher(channels, cfg.Notification.DefaultRecipient, lgr)
	dispatcher.Register(bus)

	// HTTP
	orderHandler := httpAdapter.NewOrderHandler(orderService, lgr)
	inventoryHandler := httpAdapter.NewInventoryHandler(inventoryService, lgr)
	paymentHandler := httpAdapter.NewPaymentHandler(paymentService, lgr)
	loyaltyHandler := httpAdapter.NewLoyaltyHandler(loyaltyService, lgr)

	router := httpAdapter.NewRouter(orderHandler, inventoryHandler, paymentHandler, loyaltyHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("bakehouse api started", zap.Int("port", *port))

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("error during shutdown", zap.Error(err))
		}
		// Let in-flight detached event publishes settle before exit.
		bus.Drain()
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server error", zap.Error(err))
	}
}

func buildChannels(cfg *config.Config, lgr *zap.Logger) []interfaces.NotificationChannel {
	var channels []interfaces.NotificationChannel
	for _, name := range cfg.Notification.Channels {
		switch name {
		case "email":
			channels = append(channels, channel.NewEmailChannel(lgr))
		case "sms":
			channels = append(channels, channel.NewSMSChannel(lgr))
		case "whatsapp":
			channels = append(channels, channel.NewWhatsAppChannel(lgr))
		case "queue":
			if !cfg.RabbitMQ.Enabled {
				lgr.Warn("queue channel requested but rabbitmq is disabled")
				continue
			}
			conn, err := rabbitmq.Connect(cfg.RabbitMQ)
			if err != nil {
				lgr.Error("failed to connect to rabbitmq, queue channel disabled", zap.Error(err))
				continue
			}
			channels = append(channels, channel.NewQueueChannel(conn))
		default:
			lgr.Warn("unknown notification channel", zap.String("channel", name))
		}
	}
	return channels
}

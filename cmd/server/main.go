package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fastfood/config"
	"fastfood/internal/api"
	"fastfood/internal/broker"
	"fastfood/internal/cart"
	"fastfood/internal/catalog"
	"fastfood/internal/identity"
	"fastfood/internal/orders"
	"fastfood/internal/seed"
	"fastfood/internal/service"
	"fastfood/internal/session"
	"fastfood/internal/util"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting fastfood service")

	tp, err := util.InitTracer("fastfood", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	// The identity slot is the only durable state; everything else below
	// starts from compiled-in seed data.
	var slot session.Store
	if cfg.Session.Backend == "memory" {
		slot = session.NewMemoryStore()
		log.Println("Session slot: in-memory (no persistence)")
	} else {
		redisSlot, err := session.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Session.Key)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisSlot.Close()
		slot = redisSlot
		log.Println("Session slot: redis")
	}

	var publisher broker.Publisher = broker.NoopPublisher{}
	if cfg.Kafka.Enabled {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		log.Println("Kafka producer initialized")
	}

	catalogStore := catalog.NewStore(seed.FoodItems())
	carts := cart.NewManager()
	orderStore := orders.NewStore(seed.Orders())

	ids, err := identity.NewService(slot, carts)
	if err != nil {
		log.Fatalf("Failed to initialize identity service: %v", err)
	}
	if err := ids.Restore(context.Background()); err != nil {
		log.Printf("Failed to restore session: %v", err)
	}

	orderSvc := service.NewOrderService(orderStore, carts, publisher)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(catalogStore, carts, orderStore, orderSvc, ids)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

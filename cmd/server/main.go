package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/vkosarev/food_delivery/internal/config"
	"github.com/vkosarev/food_delivery/internal/delivery"
	"github.com/vkosarev/food_delivery/internal/es"
	"github.com/vkosarev/food_delivery/internal/handlers"
	"github.com/vkosarev/food_delivery/internal/handlers/cart"
	"github.com/vkosarev/food_delivery/internal/logging"
	loggingmw "github.com/vkosarev/food_delivery/internal/middleware/logging"
	"github.com/vkosarev/food_delivery/internal/mykafka"
	"github.com/vkosarev/food_delivery/internal/order"
	"github.com/vkosarev/food_delivery/internal/repo"
	"github.com/vkosarev/food_delivery/internal/session"
	httpserver "github.com/vkosarev/food_delivery/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(configuration.JWT_SECRET, "JWT_SECRET")

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	jwtSecret := []byte(configuration.JWT_SECRET)

	brokers := config.CSV(configuration.KAFKA_ADDRESS)
	prod, err := mykafka.NewProducer(brokers)
	if err != nil {
		log.Fatal(err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	archive := &repo.OrderArchive{DB: db}
	catalog := &repo.Catalog{DB: db}
	store := session.NewStore().WithBookLoader(func(userID string) (*order.Book, error) {
		return archive.LoadBook(context.Background(), userID)
	})

	consumer := delivery.NewConsumer(brokers, configuration.DELIVERY_TOPIC, "food_delivery_server", store, archive)
	consumerCtx, stopConsumer := context.WithCancel(logging.IntoContext(context.Background(), logger))
	go func() {
		if err := consumer.Run(consumerCtx); err != nil {
			logger.Error("delivery consumer stopped", "error", err)
		}
	}()

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		CartHandler:       &cart.CartHandler{Store: store, Archive: archive, Producer: prod, JWTSecret: jwtSecret},
		OrdersHandler:     &handlers.OrdersHandler{Store: store, JWTSecret: jwtSecret},
		RestaurantHandler: &handlers.RestaurantHandler{Repo: catalog},
		SearchHandler:     &handlers.SearchHandler{ES: esClient, Index: "restaurant"},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	stopConsumer()
	if err := consumer.Close(); err != nil {
		log.Printf("consumer close error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}

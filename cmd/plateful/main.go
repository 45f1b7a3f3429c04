package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	. "github.com/plateful/plateful/internal"
	"github.com/plateful/plateful/internal/notify"
	"github.com/plateful/plateful/internal/storage"
)

func main() {
	//decimals at json as numbers, not strings
	//https://github.com/shopspring/decimal/issues/21
	decimal.MarshalJSONWithoutQuotes = true

	cfg := NewConfig()
	z, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer z.Sync()
	sugaredLogger := z.Sugar()

	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		sugaredLogger.Fatalf("bad tax rate %q: %s", cfg.TaxRate, err)
	}

	store, err := storage.Connect(context.Background(), cfg.DatabaseURI, sugaredLogger)
	if err != nil {
		sugaredLogger.Fatal(err)
	}
	defer store.Close()

	var publisher IStatusPublisher = notify.Noop{}
	if cfg.AMQPURI != "" {
		p, err := notify.NewPublisher(cfg.AMQPURI)
		if err != nil {
			sugaredLogger.Fatal(err)
		}
		defer p.Close()
		publisher = p
	}

	service := NewService(store, publisher, taxRate, sugaredLogger)
	handlers := NewHandlers(service, sugaredLogger)

	app := fiber.New()
	app.Use(logger.New())

	api := app.Group("/api", AuthMiddleware(cfg.AuthSecret))

	orders := api.Group("/orders")
	orders.Post("/", handlers.CreateOrder)
	orders.Get("/:id", handlers.GetOrder)
	orders.Get("/:id/history", handlers.GetOrderHistory)
	orders.Patch("/:id/status", handlers.TransitionOrder)
	orders.Patch("/:id/payment", handlers.UpdateOrderPayment)

	loyalty := api.Group("/loyalty")
	loyalty.Get("/settings", handlers.GetLoyaltySettings)
	loyalty.Put("/settings", handlers.UpdateLoyaltySettings)
	loyalty.Get("/customers/:customerID", handlers.GetLoyaltyAccount)
	loyalty.Post("/customers/:customerID/redeem", handlers.RedeemPoints)
	loyalty.Post("/customers/:customerID/adjust", handlers.AdjustPoints)

	go func() {
		if err := app.Listen(cfg.RunAddress); err != nil {
			sugaredLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sugaredLogger.Info("Shutting down service...")
	if err := app.Shutdown(); err != nil {
		sugaredLogger.Errorf("shutdown: %s", err)
	}
}

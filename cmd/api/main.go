package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"marketplace-api/internal/client"
	"marketplace-api/internal/config"
	"marketplace-api/internal/notify"
	"marketplace-api/internal/repository"
	"marketplace-api/internal/server"
	"marketplace-api/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitSqliteClient(cfg.DatabasePath)
	gatewayClient := client.NewGatewayClient(&cfg.Gateway)

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	notifier := notify.NewLogNotifier()

	checkoutService := service.NewCheckoutService(gatewayClient, cfg.BaseURL)
	paymentEventService := service.NewPaymentEventService(
		gatewayClient,
		orderRepo,
		webhookEventRepo,
		notifier,
		cfg.Gateway.WebhookSecret,
	)
	vendorService := service.NewVendorService(orderRepo, vendorRepo, productRepo)
	adminService := service.NewAdminService(gatewayClient, orderRepo, productRepo)

	srv := server.NewServer(
		checkoutService,
		paymentEventService,
		vendorService,
		adminService,
		cfg.AdminKey,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}

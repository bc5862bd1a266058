package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-pos-receipts/internal/config"
	"go-pos-receipts/internal/export"
	"go-pos-receipts/internal/handler"
	"go-pos-receipts/internal/model"
	"go-pos-receipts/internal/repository"
	"go-pos-receipts/internal/service"
	"go-pos-receipts/internal/ws"
	"go-pos-receipts/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// 2. Setup Database
	db := database.ConnectDB(cfg.DSN())
	// Auto Migrate (use a separate migration tool in production)
	db.AutoMigrate(&model.Product{}, &model.Receipt{})

	// 3. Setup WebSocket Hub for live dashboard events
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. PDF export (optional, requires a Gotenberg endpoint)
	var pdfExporter *export.PDFExporter
	if cfg.GotenbergURL != "" {
		pdfExporter, err = export.NewPDFExporter(cfg.GotenbergURL, &http.Client{Timeout: 30 * time.Second})
		if err != nil {
			log.Fatal(err)
		}
	} else {
		log.Println("Warning: GOTENBERG_URL not set, PDF export disabled")
	}

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	receiptRepo := repository.NewReceiptRepo(db)

	catalogService := service.NewCatalogService(productRepo, wsHub)
	receiptService := service.NewReceiptService(receiptRepo, wsHub)
	analyticsService := service.NewAnalyticsService(receiptRepo)

	productHandler := handler.NewProductHandler(catalogService)
	receiptHandler := handler.NewReceiptHandler(receiptService, pdfExporter)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS Receipt Generator v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// Product Catalog Routes
	api.Get("/products", productHandler.GetProducts)
	api.Post("/products", productHandler.CreateProduct)
	api.Get("/products/:id", productHandler.GetProduct)
	api.Put("/products/:id", productHandler.UpdateProduct)
	api.Delete("/products/:id", productHandler.DeleteProduct)

	// Receipt Routes (receipts are immutable: create and read only)
	api.Get("/receipts", receiptHandler.GetReceipts)
	api.Post("/receipts", receiptHandler.CreateReceipt)
	api.Get("/receipts/:id", receiptHandler.GetReceipt)
	api.Get("/receipts/:id/pdf", receiptHandler.DownloadPDF)

	// Analytics Route
	api.Get("/analytics", analyticsHandler.GetSummary)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/cache"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/generative"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/httpserver"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/logger"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/payments"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/storage"
)

func main() {
	_ = godotenv.Load()
	lg := logger.New()
	defer lg.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		lg.Fatalw("DATABASE_URL is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		lg.Fatalw("db connect failed", "error", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Session{}, &models.UserProfile{},
		&models.CreditWallet{}, &models.Subscription{}, &models.CreditLog{},
		&models.Contract{}, &models.Quote{}, &models.HistoryItem{},
		&models.CompanyProfile{},
	); err != nil {
		lg.Fatalw("automigrate failed", "error", err)
	}

	deps := httpserver.Deps{
		DB:            db,
		Log:           lg,
		Cache:         cache.New(os.Getenv("REDIS_ADDR"), lg),
		WebhookSecret: os.Getenv("BILLING_WEBHOOK_SECRET"),
	}

	storageDir := os.Getenv("STORAGE_DIR")
	if storageDir == "" {
		storageDir = "./uploads"
	}
	local, err := storage.NewLocal(storageDir, os.Getenv("PUBLIC_BASE_URL"))
	if err != nil {
		lg.Fatalw("storage init failed", "error", err)
	}
	deps.Storage = local
	deps.StaticDir = local.Dir()

	if url := os.Getenv("PAGSEGURO_CHECKOUT_URL"); url != "" {
		deps.Checkout = payments.NewCheckoutClient(url)
	} else {
		lg.Warnw("PAGSEGURO_CHECKOUT_URL not set, checkout disabled")
	}
	if url := os.Getenv("GENAI_URL"); url != "" {
		deps.Drafter = generative.NewClient(url, os.Getenv("GENAI_KEY"))
	} else {
		lg.Warnw("GENAI_URL not set, AI drafting disabled")
	}

	router := httpserver.NewRouter(deps)
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	lg.Infow("listening", "port", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}

package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/auth"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/cache"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/entitlement"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/generative"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/httpserver/handlers"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/payments"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/storage"
)

// Deps carries the singleton collaborators, constructed once in main and
// passed by reference. Optional fields may be nil; the affected endpoints
// degrade or answer 503.
type Deps struct {
	DB            *gorm.DB
	Log           *zap.SugaredLogger
	Cache         *cache.StatusCache
	Storage       storage.Storage
	StaticDir     string
	Checkout      *payments.CheckoutClient
	Drafter       generative.Drafter
	WebhookSecret string
}

func NewRouter(d Deps) http.Handler {
	gate := entitlement.NewGate(d.DB, d.Log)
	gate.OnDebit = func(ctx context.Context, userID string) {
		d.Cache.Invalidate(ctx, userID)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)

	r.Post("/v1/auth/register", handlers.Register(d.DB, d.Log))
	r.Post("/v1/auth/login", handlers.Login(d.DB, d.Log))

	// Public signing link: no session by design.
	r.Get("/assinatura/{id}", handlers.GetPublicContract(d.DB, d.Log))
	r.Post("/assinatura/{id}", handlers.SignPublicContract(d.DB, d.Log))

	r.Post("/v1/billing/webhook", handlers.BillingWebhook(d.DB, d.Log, d.WebhookSecret, d.Cache))

	r.Group(func(protected chi.Router) {
		protected.Use(auth.JWTAuth(d.DB))
		protected.Get("/v1/me", handlers.Me(d.DB, d.Log))
		protected.Post("/v1/auth/logout", handlers.Logout(d.DB))
		protected.Post("/v1/auth/password", handlers.ChangePassword(d.DB, d.Log))
		protected.Get("/v1/status", handlers.Status(d.DB, d.Log, d.Cache))

		protected.Post("/v1/contracts", handlers.CreateContract(d.DB, d.Log, gate))
		protected.Get("/v1/contracts", handlers.ListContracts(d.DB, d.Log))
		protected.Get("/v1/contracts/stats", handlers.ContractStats(d.DB, d.Log))
		protected.Post("/v1/ai/contract-draft", handlers.DraftContractWithAI(d.DB, d.Log, gate, d.Drafter))

		protected.Post("/v1/quotes", handlers.CreateQuote(d.DB, d.Log, gate))
		protected.Get("/v1/quotes", handlers.ListQuotes(d.DB, d.Log))

		protected.Post("/v1/signatures/default", handlers.SaveDefaultSignature(d.DB, d.Log, gate))

		protected.Get("/v1/company", handlers.GetCompanyProfile(d.DB, d.Log))
		protected.Put("/v1/company", handlers.UpsertCompanyProfile(d.DB, d.Log))
		protected.Post("/v1/company/logo", handlers.UploadCompanyLogo(d.DB, d.Log, d.Storage))

		protected.Get("/v1/history", handlers.History(d.DB, d.Log))
		protected.Get("/v1/notifications", handlers.Notifications(d.DB, d.Log))

		protected.Post("/v1/billing/checkout", handlers.StartCheckout(d.DB, d.Log, d.Checkout))
	})

	if d.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(d.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/auth"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/cache"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/payments"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/wallet"
)

// StartCheckout opens a gateway checkout session and hands back the redirect
// URL. Completion is out-of-band: the webhook below flips the wallet or
// subscription later.
func StartCheckout(db *gorm.DB, lg *zap.SugaredLogger, client *payments.CheckoutClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			http.Error(w, "checkout not configured", http.StatusServiceUnavailable)
			return
		}
		var req struct {
			Tipo      string  `json:"tipo"`
			Valor     float64 `json:"valor"`
			Descricao string  `json:"descricao"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Tipo != payments.TipoMensal && req.Tipo != payments.TipoCreditos {
			http.Error(w, "tipo must be mensal or creditos", http.StatusBadRequest)
			return
		}
		uid := auth.Subject(r.Context())

		var u models.User
		if err := db.First(&u, "id = ?", uid).Error; err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		name := "Cliente AssinaPro"
		var profile models.UserProfile
		if db.First(&profile, "user_id = ?", uid).Error == nil && profile.Nome != "" {
			name = profile.Nome
		}

		url, err := client.Start(r.Context(), payments.CheckoutRequest{
			Tipo:      req.Tipo,
			Valor:     req.Valor,
			Descricao: req.Descricao,
			Customer:  payments.Customer{Name: name, Email: u.Email},
			UserID:    uid,
		})
		if err != nil {
			lg.Errorw("checkout start failed", "user_id", uid, "error", err)
			http.Error(w, "checkout failed", http.StatusBadGateway)
			return
		}
		respondJSON(w, map[string]any{"checkoutUrl": url})
	}
}

type webhookEvent struct {
	UserID     string  `json:"user_id"`
	Evento     string  `json:"evento"` // "creditos" | "assinatura"
	Quantidade int     `json:"quantidade,omitempty"`
	Descricao  string  `json:"descricao,omitempty"`
	TipoPlano  string  `json:"tipo_plano,omitempty"`
	DataFim    *string `json:"data_fim,omitempty"` // RFC3339
}

// BillingWebhook is the gateway's out-of-band writer: it tops up credits or
// activates a subscription after payment settles. Requests must carry a
// valid HMAC signature.
func BillingWebhook(db *gorm.DB, lg *zap.SugaredLogger, secret string, c *cache.StatusCache) http.HandlerFunc {
	store := wallet.NewStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !payments.VerifySignature(secret, body, r.Header.Get("X-Webhook-Signature")) {
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
		var ev webhookEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if ev.UserID == "" {
			http.Error(w, "user_id required", http.StatusBadRequest)
			return
		}

		switch ev.Evento {
		case "creditos":
			if ev.Quantidade <= 0 {
				http.Error(w, "quantidade must be positive", http.StatusBadRequest)
				return
			}
			descricao := ev.Descricao
			if descricao == "" {
				descricao = "Créditos adicionados via PagSeguro"
			}
			if _, err := store.AddCredits(r.Context(), ev.UserID, ev.Quantidade, descricao); err != nil {
				lg.Errorw("credit top-up failed", "user_id", ev.UserID, "error", err)
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		case "assinatura":
			plano := ev.TipoPlano
			if plano == "" {
				plano = models.PlanoMensal
			}
			var fim *time.Time
			if ev.DataFim != nil {
				if t, err := time.Parse(time.RFC3339, *ev.DataFim); err == nil {
					fim = &t
				}
			}
			if _, err := store.ActivateSubscription(r.Context(), ev.UserID, plano, time.Now(), fim); err != nil {
				lg.Errorw("subscription activation failed", "user_id", ev.UserID, "error", err)
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		default:
			http.Error(w, "unknown evento", http.StatusBadRequest)
			return
		}

		c.Invalidate(r.Context(), ev.UserID)
		lg.Infow("billing webhook applied", "user_id", ev.UserID, "evento", ev.Evento)
		respondJSON(w, map[string]any{"ok": true})
	}
}

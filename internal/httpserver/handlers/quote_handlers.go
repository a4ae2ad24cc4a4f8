package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/auth"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/documents"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/entitlement"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/history"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
)

func CreateQuote(db *gorm.DB, lg *zap.SugaredLogger, gate *entitlement.Gate) http.HandlerFunc {
	svc := documents.NewService(db, lg)
	feed := history.NewFeed(db, lg)
	return func(w http.ResponseWriter, r *http.Request) {
		var req documents.QuoteInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.NomeCliente) == "" {
			http.Error(w, "nome_cliente required", http.StatusBadRequest)
			return
		}
		uid := auth.Subject(r.Context())

		var created *models.Quote
		dec, err := gate.Run(r.Context(), uid, entitlement.ActionOrcamento, func(ctx context.Context) error {
			q, err := svc.CreateQuote(ctx, uid, req)
			if err != nil {
				return err
			}
			created = q
			return nil
		})
		if !respondGateOutcome(w, dec, err) {
			return
		}
		_ = feed.Append(r.Context(), &uid, nil, history.AcaoCriouOrcamento, fmt.Sprintf("Cliente: %s", req.NomeCliente))
		respondJSON(w, created)
	}
}

func ListQuotes(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	svc := documents.NewService(db, lg)
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.Subject(r.Context())
		qs, err := svc.ListQuotes(r.Context(), uid)
		if err != nil {
			lg.Errorw("quote list failed", "user_id", uid, "error", err)
			qs = []models.Quote{}
		}
		respondJSON(w, qs)
	}
}

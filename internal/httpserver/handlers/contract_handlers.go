package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/auth"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/documents"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/entitlement"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/generative"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/history"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/wallet"
)

// respondGateOutcome maps a gated call's result: denials come back as a 403
// with the decision body (motivo "upgrade" drives the upgrade prompt), debit
// conflicts as 409, anything else as 500.
func respondGateOutcome(w http.ResponseWriter, dec entitlement.Decision, err error) bool {
	if err != nil {
		switch {
		case errors.Is(err, entitlement.ErrNotAuthenticated):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		case errors.Is(err, wallet.ErrInsufficientCredits), errors.Is(err, wallet.ErrTrialConsumed):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return false
	}
	if !dec.Permitido {
		respondStatusJSON(w, http.StatusForbidden, dec)
		return false
	}
	return true
}

func CreateContract(db *gorm.DB, lg *zap.SugaredLogger, gate *entitlement.Gate) http.HandlerFunc {
	svc := documents.NewService(db, lg)
	feed := history.NewFeed(db, lg)
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Titulo string `json:"titulo"`
			Texto  string `json:"texto"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Titulo) == "" {
			http.Error(w, "titulo required", http.StatusBadRequest)
			return
		}
		uid := auth.Subject(r.Context())

		var created *models.Contract
		dec, err := gate.Run(r.Context(), uid, entitlement.ActionCriarContrato, func(ctx context.Context) error {
			c, err := svc.Create(ctx, uid, req.Titulo, req.Texto)
			if err != nil {
				return err
			}
			created = c
			return nil
		})
		if !respondGateOutcome(w, dec, err) {
			return
		}
		_ = feed.Append(r.Context(), &uid, &created.ID, history.AcaoCriouContrato, "")
		respondJSON(w, created)
	}
}

// DraftContractWithAI generates the contract text through the generative
// collaborator inside the gated unit of work: a failed generation surfaces
// as an error and costs nothing.
func DraftContractWithAI(db *gorm.DB, lg *zap.SugaredLogger, gate *entitlement.Gate, drafter generative.Drafter) http.HandlerFunc {
	svc := documents.NewService(db, lg)
	feed := history.NewFeed(db, lg)
	return func(w http.ResponseWriter, r *http.Request) {
		if drafter == nil {
			http.Error(w, "generative service not configured", http.StatusServiceUnavailable)
			return
		}
		var req struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			http.Error(w, "prompt required", http.StatusBadRequest)
			return
		}
		uid := auth.Subject(r.Context())

		var created *models.Contract
		dec, err := gate.Run(r.Context(), uid, entitlement.ActionCriarContrato, func(ctx context.Context) error {
			draft, err := drafter.DraftContract(ctx, req.Prompt)
			if err != nil {
				return err
			}
			c, err := svc.Create(ctx, uid, draft.Titulo, draft.Texto)
			if err != nil {
				return err
			}
			created = c
			return nil
		})
		if !respondGateOutcome(w, dec, err) {
			return
		}
		_ = feed.Append(r.Context(), &uid, &created.ID, history.AcaoCriouContrato, "Gerado com IA")
		respondJSON(w, created)
	}
}

func ListContracts(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	svc := documents.NewService(db, lg)
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.Subject(r.Context())
		cs, err := svc.ListByOwner(r.Context(), uid)
		if err != nil {
			lg.Errorw("contract list failed", "user_id", uid, "error", err)
			cs = []models.Contract{}
		}
		respondJSON(w, cs)
	}
}

// ContractStats backs the dashboard counters.
func ContractStats(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	svc := documents.NewService(db, lg)
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.Subject(r.Context())
		out := map[string]int64{}
		for _, status := range []string{models.DocumentDraft, models.DocumentPending, models.DocumentSigned} {
			n, err := svc.CountByStatus(r.Context(), uid, status)
			if err != nil {
				lg.Errorw("contract count failed", "status", status, "error", err)
			}
			out[status] = n
		}
		sent, err := svc.CountSentQuotes(r.Context(), uid)
		if err != nil {
			lg.Errorw("quote count failed", "user_id", uid, "error", err)
		}
		out["orcamentos_enviados"] = sent
		respondJSON(w, out)
	}
}

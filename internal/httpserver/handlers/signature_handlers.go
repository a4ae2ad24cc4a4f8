package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/auth"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/entitlement"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/signature"
	"gorm.io/gorm/clause"
)

// SaveDefaultSignature captures a signature in any of the three modes and
// stores it as the company profile's assinatura_padrao. Capturing a
// signature is itself a gated action.
func SaveDefaultSignature(db *gorm.DB, lg *zap.SugaredLogger, gate *entitlement.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signature.CaptureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		uid := auth.Subject(r.Context())

		logoURL := ""
		if req.Tipo == models.TipoAssinaturaStamp {
			var profile models.CompanyProfile
			if db.First(&profile, "user_id = ?", uid).Error == nil {
				logoURL = profile.LogoURL
			}
		}

		var saved models.SignatureArtifact
		dec, err := gate.Run(r.Context(), uid, entitlement.ActionAssinatura, func(ctx context.Context) error {
			art, err := signature.Capture(req, logoURL)
			if err != nil {
				return err
			}
			saved = art
			profile := models.CompanyProfile{
				UserID:           uid,
				AssinaturaPadrao: art.String(),
				TipoAssinatura:   req.Tipo,
			}
			return db.WithContext(ctx).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"assinatura_padrao", "tipo_assinatura"}),
			}).Create(&profile).Error
		})
		if !respondGateOutcome(w, dec, err) {
			return
		}
		respondJSON(w, map[string]any{
			"assinatura_padrao": saved.String(),
			"tipo_assinatura":   req.Tipo,
		})
	}
}

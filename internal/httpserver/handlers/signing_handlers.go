package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/documents"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/signature"
)

// publicContract is the unauthenticated view of a contract. When the stored
// artifact is the logo sentinel, assinatura_logo_url carries the owner's
// company logo so renderers never try to decode "logo" as image data.
type publicContract struct {
	models.Contract
	AssinaturaLogoURL string `json:"assinatura_logo_url,omitempty"`
}

func publicView(db *gorm.DB, c *models.Contract) publicContract {
	out := publicContract{Contract: *c}
	if c.AssinaturaCliente == nil {
		return out
	}
	art, err := models.ParseArtifact(*c.AssinaturaCliente)
	if err != nil || !art.IsLogo() {
		return out
	}
	var profile models.CompanyProfile
	if db.First(&profile, "user_id = ?", c.UserID).Error == nil {
		out.AssinaturaLogoURL = profile.LogoURL
	}
	return out
}

// GetPublicContract resolves the signing link. No session: any holder of the
// id can view title, text and status.
func GetPublicContract(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	svc := documents.NewService(db, lg)
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		c, err := svc.FetchByID(r.Context(), id)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		respondJSON(w, publicView(db, c))
	}
}

// SignPublicContract is the sole entry point for sign(): unauthenticated,
// one-shot. A second sign attempt is rejected, never overwritten.
func SignPublicContract(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	svc := documents.NewService(db, lg)
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req signature.CaptureRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		c, err := svc.FetchByID(r.Context(), id)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		logoURL := ""
		if req.Tipo == models.TipoAssinaturaStamp {
			var profile models.CompanyProfile
			if db.First(&profile, "user_id = ?", c.UserID).Error == nil {
				logoURL = profile.LogoURL
			}
		}

		art, err := signature.Capture(req, logoURL)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		signed, err := svc.Sign(r.Context(), id, art)
		switch {
		case errors.Is(err, documents.ErrAlreadySigned):
			http.Error(w, err.Error(), http.StatusConflict)
			return
		case err != nil:
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, publicView(db, signed))
	}
}

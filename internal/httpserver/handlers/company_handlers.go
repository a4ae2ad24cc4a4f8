package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/auth"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/storage"
)

func GetCompanyProfile(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.Subject(r.Context())
		var profile models.CompanyProfile
		err := db.First(&profile, "user_id = ?", uid).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondJSON(w, nil)
			return
		}
		if err != nil {
			lg.Errorw("company profile read failed", "user_id", uid, "error", err)
			respondJSON(w, nil)
			return
		}
		respondJSON(w, profile)
	}
}

// UpsertCompanyProfile writes the 1:1 perfis_empresa row. Profile editing is
// not gated by entitlement.
func UpsertCompanyProfile(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			NomeEmpresa   string `json:"nome_empresa"`
			Identificador string `json:"identificador"`
			Endereco      string `json:"endereco"`
			Telefone      string `json:"telefone"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		uid := auth.Subject(r.Context())
		profile := models.CompanyProfile{
			UserID:        uid,
			NomeEmpresa:   req.NomeEmpresa,
			Identificador: req.Identificador,
			Endereco:      req.Endereco,
			Telefone:      req.Telefone,
		}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"nome_empresa", "identificador", "endereco", "telefone"}),
		}).Create(&profile).Error
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		var saved models.CompanyProfile
		_ = db.First(&saved, "user_id = ?", uid).Error
		respondJSON(w, saved)
	}
}

const maxLogoSize = 5 << 20

// UploadCompanyLogo stores the logo through the object-storage collaborator
// and records the public URL on the company profile.
func UploadCompanyLogo(db *gorm.DB, lg *zap.SugaredLogger, store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			http.Error(w, "storage not configured", http.StatusServiceUnavailable)
			return
		}
		uid := auth.Subject(r.Context())
		if err := r.ParseMultipartForm(maxLogoSize); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("logo")
		if err != nil {
			http.Error(w, "logo file required", http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxLogoSize))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		name := fmt.Sprintf("%s-%d%s", uid, time.Now().UnixMilli(), filepath.Ext(header.Filename))
		url, err := store.Upload(r.Context(), name, data)
		if err != nil {
			lg.Errorw("logo upload failed", "user_id", uid, "error", err)
			http.Error(w, "upload failed", http.StatusInternalServerError)
			return
		}

		profile := models.CompanyProfile{UserID: uid, LogoURL: url}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"logo_url"}),
		}).Create(&profile).Error
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, map[string]any{"logo_url": url})
	}
}

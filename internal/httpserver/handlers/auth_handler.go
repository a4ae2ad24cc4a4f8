package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/auth"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/wallet"
)

type registerReq struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Nome      string `json:"nome"`
	Telefone  string `json:"telefone"`
	Idade     string `json:"idade,omitempty"`
	Sexo      string `json:"sexo,omitempty"`
	Profissao string `json:"profissao,omitempty"`
}

// Register creates the account, its usuarios_perfil row and the initial
// wallet (0 credits, trial available) in one transaction, then signs the
// user in.
func Register(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || req.Password == "" {
			http.Error(w, "email and password required", http.StatusBadRequest)
			return
		}
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			http.Error(w, "hash error", http.StatusInternalServerError)
			return
		}

		u := models.User{Email: req.Email, PasswordHash: hash, IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&u).Error; err != nil {
				return err
			}
			profile := models.UserProfile{
				UserID:    u.ID,
				Nome:      req.Nome,
				Email:     req.Email,
				Telefone:  req.Telefone,
				Idade:     req.Idade,
				Sexo:      req.Sexo,
				Profissao: req.Profissao,
				UserAgent: r.UserAgent(),
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
			_, err := wallet.NewStore(tx).CreateInitial(r.Context(), u.ID)
			return err
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		tok, err := issueSession(db, u.ID)
		if err != nil {
			http.Error(w, "token error", http.StatusInternalServerError)
			return
		}
		lg.Infow("user registered", "user_id", u.ID)
		respondJSON(w, map[string]any{"id": u.ID, "email": u.Email, "token": tok})
	}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var u models.User
		if err := db.First(&u, "email = ?", strings.ToLower(req.Email)).Error; err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if !u.IsActive {
			http.Error(w, "account disabled", http.StatusForbidden)
			return
		}
		tok, err := issueSession(db, u.ID)
		if err != nil {
			http.Error(w, "token error", http.StatusInternalServerError)
			return
		}
		now := time.Now()
		_ = db.Model(&models.UserProfile{}).
			Where("user_id = ?", u.ID).
			Updates(map[string]interface{}{"ultimo_acesso": now, "user_agent": r.UserAgent()}).Error
		respondJSON(w, map[string]any{"token": tok})
	}
}

func issueSession(db *gorm.DB, userID string) (string, error) {
	tok, jti, exp, err := auth.Sign(userID)
	if err != nil {
		return "", err
	}
	sess := models.Session{JTI: jti, UserID: userID, ExpiresAt: exp, CreatedAt: time.Now()}
	if err := db.Create(&sess).Error; err != nil {
		return "", err
	}
	return tok, nil
}

func Logout(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.FromContext(r.Context())
		now := time.Now()
		_ = db.Model(&models.Session{}).
			Where("jti = ?", claims.JWTID).
			Update("revoked_at", now).Error
		respondJSON(w, map[string]any{"ok": true})
	}
}

func Me(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := auth.Subject(r.Context())
		var u models.User
		if err := db.First(&u, "id = ?", sub).Error; err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		var profile models.UserProfile
		_ = db.First(&profile, "user_id = ?", sub).Error
		respondJSON(w, map[string]any{
			"id": u.ID, "email": u.Email, "is_active": u.IsActive, "perfil": profile,
		})
	}
}

func ChangePassword(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Current string `json:"current_password"`
			New     string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.New == "" {
			http.Error(w, "new_password required", http.StatusBadRequest)
			return
		}
		sub := auth.Subject(r.Context())
		var u models.User
		if err := db.First(&u, "id = ?", sub).Error; err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err := auth.CheckPassword(u.PasswordHash, req.Current); err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		hash, err := auth.HashPassword(req.New)
		if err != nil {
			http.Error(w, "hash error", http.StatusInternalServerError)
			return
		}
		if err := db.Model(&u).Updates(map[string]interface{}{"password_hash": hash, "updated_at": time.Now()}).Error; err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		respondJSON(w, map[string]any{"updated": true})
	}
}

package history

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
)

// Action tags recorded in historico rows.
const (
	AcaoCriouContrato      = "criou_contrato"
	AcaoCriouOrcamento     = "criou_orcamento"
	AcaoTrialEncerrado     = "trial_encerrado"
	AcaoTentativaBloqueada = "tentativa_bloqueada"
	AcaoAssinaturaSemLogin = "assinatura_sem_login"
)

// Feed is the append-only historico writer and its reverse-chronological
// reader. The same rows back both the recent-activity list and the
// notifications dropdown, just with different limits.
type Feed struct {
	db *gorm.DB
	lg *zap.SugaredLogger
}

func NewFeed(db *gorm.DB, lg *zap.SugaredLogger) *Feed {
	return &Feed{db: db, lg: lg}
}

// Append records one event. userID nil means anonymous attribution (public
// signing); contratoID is optional.
func (f *Feed) Append(ctx context.Context, userID, contratoID *string, acao, valor string) error {
	item := models.HistoryItem{UserID: userID, ContratoID: contratoID, Acao: acao, Valor: valor}
	if err := f.db.WithContext(ctx).Create(&item).Error; err != nil {
		f.lg.Errorw("history append failed", "acao", acao, "error", err)
		return err
	}
	return nil
}

// Recent returns the user's latest entries, newest first, with the linked
// contract preloaded for title previews. Read failures degrade to an empty
// feed; they are logged, never fatal.
func (f *Feed) Recent(ctx context.Context, userID string, limit int) []models.HistoryItem {
	if limit <= 0 {
		limit = 5
	}
	var items []models.HistoryItem
	err := f.db.WithContext(ctx).
		Preload("Contrato").
		Where("user_id = ?", userID).
		Order("data desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		f.lg.Errorw("history read failed", "user_id", userID, "error", err)
		return []models.HistoryItem{}
	}
	return items
}

// Notifications is the same feed read with the dropdown's limit.
func (f *Feed) Notifications(ctx context.Context, userID string) []models.HistoryItem {
	return f.Recent(ctx, userID, 10)
}

package documents

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/history"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
)

// ErrAlreadySigned rejects a repeated sign call. A completed signature is
// immutable; it is never overwritten or versioned.
var ErrAlreadySigned = errors.New("contrato já assinado")

// Service manages the contract state machine. Only draft → signed is driven
// here; pending and archived are reserved for an external workflow.
type Service struct {
	db   *gorm.DB
	feed *history.Feed
	lg   *zap.SugaredLogger
}

func NewService(db *gorm.DB, lg *zap.SugaredLogger) *Service {
	return &Service{db: db, feed: history.NewFeed(db, lg), lg: lg}
}

// Create produces a draft. Callers route this through the action gate with
// the criar_contrato kind.
func (s *Service) Create(ctx context.Context, userID, titulo, texto string) (*models.Contract, error) {
	c := models.Contract{UserID: userID, Titulo: titulo, Texto: texto, Status: models.DocumentDraft}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FetchByID is the public read behind the signing link: no session required,
// any holder of the id can view the contract.
func (s *Service) FetchByID(ctx context.Context, id string) (*models.Contract, error) {
	var c models.Contract
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// Sign attaches the artifact and moves the contract to signed, exactly once.
// It is callable without a session; the signer usually is not a system user,
// so the history entry carries nil attribution.
func (s *Service) Sign(ctx context.Context, id string, artifact models.SignatureArtifact) (*models.Contract, error) {
	if artifact.IsZero() {
		return nil, models.ErrInvalidArtifact
	}
	wire := artifact.String()
	res := s.db.WithContext(ctx).Model(&models.Contract{}).
		Where("id = ? AND status <> ?", id, models.DocumentSigned).
		Updates(map[string]interface{}{
			"status":             models.DocumentSigned,
			"assinatura_cliente": wire,
			"atualizado_em":      time.Now(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Either the contract does not exist or it is already signed.
		var c models.Contract
		if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
			return nil, err
		}
		return nil, ErrAlreadySigned
	}
	_ = s.feed.Append(ctx, nil, &id, history.AcaoAssinaturaSemLogin, "Assinatura recebida com sucesso")
	return s.FetchByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, userID string) ([]models.Contract, error) {
	var cs []models.Contract
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("criado_em desc").
		Find(&cs).Error
	return cs, err
}

func (s *Service) CountByStatus(ctx context.Context, userID, status string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Contract{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&n).Error
	return n, err
}

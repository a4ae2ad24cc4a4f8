package wallet

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
)

var (
	// ErrInsufficientCredits is returned when the conditional decrement
	// finds fewer credits than requested. It is a hard failure, distinct
	// from a normal entitlement denial.
	ErrInsufficientCredits = errors.New("créditos insuficientes")
	// ErrTrialConsumed is returned when the trial flags were already
	// flipped by an earlier gated action.
	ErrTrialConsumed = errors.New("trial já utilizado")
)

// Store is the data access layer for carteira_creditos, assinaturas and
// creditos_log. All balance mutations are single conditional UPDATEs so two
// concurrent debits can never drive the balance negative.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateInitial creates the wallet row for a freshly registered user:
// zero credits, trial available.
func (s *Store) CreateInitial(ctx context.Context, userID string) (*models.CreditWallet, error) {
	w := models.CreditWallet{UserID: userID, Creditos: 0, TrialAtivo: true, TrialUsado: false}
	if err := s.db.WithContext(ctx).Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// Ensure backfills a wallet for accounts that predate the credit feature.
func (s *Store) Ensure(ctx context.Context, userID string) (*models.CreditWallet, error) {
	var w models.CreditWallet
	err := s.db.WithContext(ctx).
		Where(models.CreditWallet{UserID: userID}).
		Attrs(models.CreditWallet{Creditos: 0, TrialAtivo: true, TrialUsado: false}).
		FirstOrCreate(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Store) Get(ctx context.Context, userID string) (*models.CreditWallet, error) {
	var w models.CreditWallet
	if err := s.db.WithContext(ctx).First(&w, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// ActiveSubscription returns the user's ativo subscription, or nil when none
// exists. Absence is not an error.
func (s *Store) ActiveSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).
		First(&sub, "user_id = ? AND status = ?", userID, models.SubscriptionAtivo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// SpendCredits debits qty credits and appends the creditos_log row. The
// decrement is guarded at the storage layer: UPDATE ... SET creditos =
// creditos - qty WHERE creditos >= qty. Zero rows affected means the balance
// moved underneath us.
func (s *Store) SpendCredits(ctx context.Context, userID string, qty int, descricao string) (*models.CreditWallet, error) {
	if qty <= 0 {
		return s.Get(ctx, userID)
	}
	var out *models.CreditWallet
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CreditWallet{}).
			Where("user_id = ? AND creditos >= ?", userID, qty).
			UpdateColumn("creditos", gorm.Expr("creditos - ?", qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientCredits
		}
		log := models.CreditLog{UserID: userID, Tipo: models.CreditoLogDebito, Quantidade: qty, Descricao: descricao}
		if err := tx.Create(&log).Error; err != nil {
			return err
		}
		var w models.CreditWallet
		if err := tx.First(&w, "user_id = ?", userID).Error; err != nil {
			return err
		}
		out = &w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ConsumeTrial flips trial_ativo=false, trial_usado=true in one conditional
// update, so the trial can only ever be consumed once.
func (s *Store) ConsumeTrial(ctx context.Context, userID string) (*models.CreditWallet, error) {
	res := s.db.WithContext(ctx).Model(&models.CreditWallet{}).
		Where("user_id = ? AND trial_ativo = ? AND trial_usado = ?", userID, true, false).
		Updates(map[string]interface{}{"trial_ativo": false, "trial_usado": true})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrTrialConsumed
	}
	return s.Get(ctx, userID)
}

// AddCredits is the webhook-side top-up, mirrored by a creditos_log row with
// tipo=credito.
func (s *Store) AddCredits(ctx context.Context, userID string, qty int, descricao string) (*models.CreditWallet, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CreditWallet{}).
			Where("user_id = ?", userID).
			UpdateColumn("creditos", gorm.Expr("creditos + ?", qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		log := models.CreditLog{UserID: userID, Tipo: models.CreditoLogCredito, Quantidade: qty, Descricao: descricao}
		return tx.Create(&log).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// ActivateSubscription expires any previous ativo row before inserting the
// new one, keeping at most one active subscription per user.
func (s *Store) ActivateSubscription(ctx context.Context, userID, tipoPlano string, inicio time.Time, fim *time.Time) (*models.Subscription, error) {
	sub := models.Subscription{
		UserID:     userID,
		TipoPlano:  tipoPlano,
		Status:     models.SubscriptionAtivo,
		DataInicio: inicio,
		DataFim:    fim,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Subscription{}).
			Where("user_id = ? AND status = ?", userID, models.SubscriptionAtivo).
			Update("status", models.SubscriptionExpirado).Error; err != nil {
			return err
		}
		return tx.Create(&sub).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

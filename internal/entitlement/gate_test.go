package entitlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/history"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/wallet"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.CreditWallet{}, &models.Subscription{},
		&models.CreditLog{}, &models.Contract{}, &models.HistoryItem{},
	))
	return db
}

func seedWallet(t *testing.T, db *gorm.DB, userID string, creditos int, trialAtivo, trialUsado bool) {
	t.Helper()
	w := models.CreditWallet{UserID: userID, Creditos: creditos, TrialAtivo: trialAtivo, TrialUsado: trialUsado}
	require.NoError(t, db.Create(&w).Error)
}

func getWallet(t *testing.T, db *gorm.DB, userID string) models.CreditWallet {
	t.Helper()
	var w models.CreditWallet
	require.NoError(t, db.First(&w, "user_id = ?", userID).Error)
	return w
}

func historyRows(t *testing.T, db *gorm.DB, acao string) []models.HistoryItem {
	t.Helper()
	var items []models.HistoryItem
	require.NoError(t, db.Where("acao = ?", acao).Find(&items).Error)
	return items
}

func newTestGate(db *gorm.DB) *Gate {
	return NewGate(db, zap.NewNop().Sugar())
}

func TestGateRequiresAuthentication(t *testing.T) {
	db := testDB(t)
	gate := newTestGate(db)

	_, err := gate.Run(context.Background(), "", ActionCriarContrato, func(ctx context.Context) error {
		t.Fatal("work must not run without a user")
		return nil
	})
	require.ErrorIs(t, err, ErrNotAuthenticated)

	var n int64
	require.NoError(t, db.Model(&models.HistoryItem{}).Count(&n).Error)
	assert.Zero(t, n, "no history entry for unauthenticated aborts")
}

func TestGateTrialConsumption(t *testing.T) {
	db := testDB(t)
	gate := newTestGate(db)
	uid := "user-trial"
	seedWallet(t, db, uid, 0, true, false)

	ran := false
	dec, err := gate.Run(context.Background(), uid, ActionCriarContrato, func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.True(t, dec.Permitido)
	assert.Equal(t, ModeTrial, dec.Modo)

	w := getWallet(t, db, uid)
	assert.False(t, w.TrialAtivo)
	assert.True(t, w.TrialUsado)
	assert.Equal(t, 0, w.Creditos)

	rows := historyRows(t, db, history.AcaoTrialEncerrado)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].UserID)
	assert.Equal(t, uid, *rows[0].UserID)
}

func TestGateCreditDebit(t *testing.T) {
	db := testDB(t)
	gate := newTestGate(db)
	uid := "user-credit"
	seedWallet(t, db, uid, 2, false, true)

	dec, err := gate.Run(context.Background(), uid, ActionOrcamento, func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, ModeCredito, dec.Modo)

	w := getWallet(t, db, uid)
	assert.Equal(t, 1, w.Creditos, "exactly one credit debited")

	var logs []models.CreditLog
	require.NoError(t, db.Where("user_id = ?", uid).Find(&logs).Error)
	require.Len(t, logs, 1, "exactly one creditos_log row")
	assert.Equal(t, models.CreditoLogDebito, logs[0].Tipo)
	assert.Equal(t, 1, logs[0].Quantidade)
}

func TestGateSubscriptionMode(t *testing.T) {
	db := testDB(t)
	gate := newTestGate(db)
	uid := "user-sub"
	seedWallet(t, db, uid, 5, false, true)
	sub := models.Subscription{UserID: uid, TipoPlano: models.PlanoMensal, Status: models.SubscriptionAtivo, DataInicio: time.Now()}
	require.NoError(t, db.Create(&sub).Error)

	dec, err := gate.Run(context.Background(), uid, ActionAssinatura, func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, ModePlanoMensal, dec.Modo)

	w := getWallet(t, db, uid)
	assert.Equal(t, 5, w.Creditos, "no debit under an active subscription")

	var n int64
	require.NoError(t, db.Model(&models.CreditLog{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestGateNoDebitOnFailure(t *testing.T) {
	db := testDB(t)
	gate := newTestGate(db)
	uid := "user-fail"
	seedWallet(t, db, uid, 1, true, false)

	boom := errors.New("generation failed")
	_, err := gate.Run(context.Background(), uid, ActionCriarContrato, func(ctx context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	w := getWallet(t, db, uid)
	assert.Equal(t, 1, w.Creditos)
	assert.True(t, w.TrialAtivo)
	assert.False(t, w.TrialUsado)

	var n int64
	require.NoError(t, db.Model(&models.HistoryItem{}).Count(&n).Error)
	assert.Zero(t, n, "no history append when the unit of work fails")
}

func TestGateDenialRecordsBlockedAttempt(t *testing.T) {
	db := testDB(t)
	gate := newTestGate(db)
	uid := "user-blocked"
	seedWallet(t, db, uid, 0, false, true)

	ran := false
	dec, err := gate.Run(context.Background(), uid, ActionAssinatura, func(ctx context.Context) error {
		ran = true
		return nil
	})
	require.NoError(t, err, "denial is a normal return value, not an error")
	assert.False(t, ran, "work must not run when denied")
	assert.False(t, dec.Permitido)
	assert.Equal(t, MotivoUpgrade, dec.Motivo)

	rows := historyRows(t, db, history.AcaoTentativaBloqueada)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0].Valor, string(ActionAssinatura))
	assert.Contains(t, rows[0].Valor, MotivoUpgrade)

	w := getWallet(t, db, uid)
	assert.Equal(t, 0, w.Creditos)
	assert.True(t, w.TrialUsado)
}

func TestGateMissingWalletDeniesWithDiagnostic(t *testing.T) {
	db := testDB(t)
	gate := newTestGate(db)

	dec, err := gate.Run(context.Background(), "ghost-user", ActionOrcamento, func(ctx context.Context) error {
		t.Fatal("work must not run")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, dec.Permitido)
	assert.NotEqual(t, MotivoUpgrade, dec.Motivo)
	assert.Contains(t, dec.Motivo, "carteira")
}

func TestGateOnDebitHook(t *testing.T) {
	db := testDB(t)
	gate := newTestGate(db)
	uid := "user-hook"
	seedWallet(t, db, uid, 1, false, true)

	var invalidated []string
	gate.OnDebit = func(ctx context.Context, userID string) {
		invalidated = append(invalidated, userID)
	}

	_, err := gate.Run(context.Background(), uid, ActionOrcamento, func(ctx context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, []string{uid}, invalidated)
}

func TestGateCustomCosts(t *testing.T) {
	db := testDB(t)
	gate := newTestGate(db)
	gate.Costs = CostTable{ActionCriarContrato: 2}
	uid := "user-pricing"
	seedWallet(t, db, uid, 3, false, true)

	_, err := gate.Run(context.Background(), uid, ActionCriarContrato, func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	w := getWallet(t, db, uid)
	assert.Equal(t, 1, w.Creditos)
}

func TestGateInsufficientAtDecrementIsHardError(t *testing.T) {
	db := testDB(t)
	gate := newTestGate(db)
	uid := "user-race"
	seedWallet(t, db, uid, 1, false, true)

	// Simulate a concurrent debit landing between evaluation and the
	// decrement: the wrapped work spends the last credit itself.
	store := wallet.NewStore(db)
	_, err := gate.Run(context.Background(), uid, ActionOrcamento, func(ctx context.Context) error {
		_, err := store.SpendCredits(ctx, uid, 1, "concurrent spend")
		return err
	})
	require.ErrorIs(t, err, wallet.ErrInsufficientCredits)

	w := getWallet(t, db, uid)
	assert.Equal(t, 0, w.Creditos, "balance never goes negative")
}

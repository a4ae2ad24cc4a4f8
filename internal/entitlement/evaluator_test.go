package entitlement

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
)

func activeSub() *models.Subscription {
	return &models.Subscription{
		TipoPlano:  models.PlanoMensal,
		Status:     models.SubscriptionAtivo,
		DataInicio: time.Now().Add(-24 * time.Hour),
	}
}

func TestEvaluate(t *testing.T) {
	costs := DefaultCosts()

	tests := []struct {
		name      string
		sub       *models.Subscription
		wallet    *models.CreditWallet
		walletErr error
		acao      ActionKind
		want      Decision
	}{
		{
			name:   "active subscription wins regardless of wallet state",
			sub:    activeSub(),
			wallet: &models.CreditWallet{Creditos: 0, TrialAtivo: false, TrialUsado: true},
			acao:   ActionCriarContrato,
			want:   Decision{Permitido: true, Modo: ModePlanoMensal},
		},
		{
			name:   "active subscription wins even with credits available",
			sub:    activeSub(),
			wallet: &models.CreditWallet{Creditos: 10},
			acao:   ActionOrcamento,
			want:   Decision{Permitido: true, Modo: ModePlanoMensal},
		},
		{
			name:   "expired subscription is ignored",
			sub:    &models.Subscription{Status: models.SubscriptionExpirado},
			wallet: &models.CreditWallet{Creditos: 3},
			acao:   ActionAssinatura,
			want:   Decision{Permitido: true, Modo: ModeCredito},
		},
		{
			name:      "unreadable wallet denies with diagnostic motivo",
			walletErr: errors.New("store unreachable"),
			acao:      ActionCriarContrato,
			want:      Decision{Permitido: false, Motivo: motivoCarteiraIlegivel},
		},
		{
			name:   "positive balance permits in credito mode",
			wallet: &models.CreditWallet{Creditos: 1, TrialAtivo: true},
			acao:   ActionOrcamento,
			want:   Decision{Permitido: true, Modo: ModeCredito},
		},
		{
			name:   "live trial permits gated action",
			wallet: &models.CreditWallet{Creditos: 0, TrialAtivo: true, TrialUsado: false},
			acao:   ActionAssinatura,
			want:   Decision{Permitido: true, Modo: ModeTrial},
		},
		{
			name:   "consumed trial denies with upgrade sentinel",
			wallet: &models.CreditWallet{Creditos: 0, TrialAtivo: false, TrialUsado: true},
			acao:   ActionCriarContrato,
			want:   Decision{Permitido: false, Motivo: MotivoUpgrade},
		},
		{
			name:   "trial does not cover ungated action kinds",
			wallet: &models.CreditWallet{Creditos: 0, TrialAtivo: true, TrialUsado: false},
			acao:   ActionKind("exportar_pdf"),
			want:   Decision{Permitido: false, Motivo: MotivoUpgrade},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.sub, tt.wallet, tt.walletErr, tt.acao, costs)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	w := &models.CreditWallet{Creditos: 2, TrialAtivo: true, TrialUsado: false}
	sub := activeSub()
	before := *w
	subBefore := *sub

	for _, acao := range []ActionKind{ActionCriarContrato, ActionAssinatura, ActionOrcamento} {
		_ = Evaluate(sub, w, nil, acao, DefaultCosts())
	}

	assert.Equal(t, before, *w)
	assert.Equal(t, subBefore, *sub)
}

func TestCostTable(t *testing.T) {
	costs := DefaultCosts()
	for _, acao := range []ActionKind{ActionCriarContrato, ActionAssinatura, ActionOrcamento} {
		assert.Equal(t, 1, costs.Cost(acao))
		assert.True(t, costs.Gated(acao))
	}
	assert.False(t, costs.Gated(ActionKind("exportar_pdf")))

	custom := CostTable{ActionCriarContrato: 3}
	assert.Equal(t, 3, custom.Cost(ActionCriarContrato))
	assert.False(t, custom.Gated(ActionOrcamento))
}

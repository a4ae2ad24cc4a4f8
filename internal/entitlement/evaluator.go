package entitlement

import (
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/models"
)

// ActionKind identifies a billable action.
type ActionKind string

const (
	ActionCriarContrato ActionKind = "criar_contrato"
	ActionAssinatura    ActionKind = "assinatura"
	ActionOrcamento     ActionKind = "orcamento"
)

// Mode is the entitlement basis under which an action was permitted.
type Mode string

const (
	ModePlanoMensal Mode = "plano_mensal"
	ModeCredito     Mode = "credito"
	ModeTrial       Mode = "trial"
)

// MotivoUpgrade is the sentinel denial reason the UI maps to an upgrade
// call-to-action. Other motivos are human-readable diagnostics.
const MotivoUpgrade = "upgrade"

const motivoCarteiraIlegivel = "Não foi possível verificar sua carteira de créditos."

// Decision is the evaluator's verdict. Denials are normal values, not errors.
type Decision struct {
	Permitido bool   `json:"permitido"`
	Modo      Mode   `json:"modo,omitempty"`
	Motivo    string `json:"motivo,omitempty"`
}

// CostTable maps an action kind to its credit cost. Kinds absent from the
// table are not gated.
type CostTable map[ActionKind]int

// DefaultCosts: every gated action costs one credit (and one trial use).
func DefaultCosts() CostTable {
	return CostTable{
		ActionCriarContrato: 1,
		ActionAssinatura:    1,
		ActionOrcamento:     1,
	}
}

func (t CostTable) Cost(k ActionKind) int {
	if c, ok := t[k]; ok {
		return c
	}
	return 1
}

func (t CostTable) Gated(k ActionKind) bool {
	_, ok := t[k]
	return ok
}

// Evaluate decides whether acao may run and under which mode. Priority
// encodes business intent: paid access first, then prepaid credit, then the
// one-shot trial. The function is pure; all mutation happens in the Gate
// after the protected work succeeds.
func Evaluate(sub *models.Subscription, w *models.CreditWallet, walletErr error, acao ActionKind, costs CostTable) Decision {
	if sub != nil && sub.Status == models.SubscriptionAtivo {
		return Decision{Permitido: true, Modo: ModePlanoMensal}
	}
	if walletErr != nil || w == nil {
		return Decision{Permitido: false, Motivo: motivoCarteiraIlegivel}
	}
	if w.Creditos > 0 {
		return Decision{Permitido: true, Modo: ModeCredito}
	}
	if w.TrialAtivo && !w.TrialUsado && costs.Gated(acao) {
		return Decision{Permitido: true, Modo: ModeTrial}
	}
	return Decision{Permitido: false, Motivo: MotivoUpgrade}
}

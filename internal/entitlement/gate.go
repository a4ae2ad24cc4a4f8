package entitlement

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/history"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/wallet"
)

// ErrNotAuthenticated aborts a gated call before any evaluation or history
// write happens.
var ErrNotAuthenticated = errors.New("login necessário para realizar esta ação")

// UnitOfWork is the protected business action. It runs only after a
// permitted evaluation, and the debit only lands after it returns nil.
type UnitOfWork func(ctx context.Context) error

// Gate wraps a unit of work in the entitlement check and the matching debit.
// Debits happen at most once per call and only after the work succeeds, so a
// failed AI generation or a failed write never costs a credit or the trial.
type Gate struct {
	wallets *wallet.Store
	feed    *history.Feed
	lg      *zap.SugaredLogger

	// Costs maps action kinds to credit cost; replace for differential
	// pricing without touching Run's control flow.
	Costs CostTable
	// OnDebit, when set, is called after any wallet mutation (cache
	// invalidation hook). Nil-safe.
	OnDebit func(ctx context.Context, userID string)
}

func NewGate(db *gorm.DB, lg *zap.SugaredLogger) *Gate {
	return &Gate{
		wallets: wallet.NewStore(db),
		feed:    history.NewFeed(db, lg),
		lg:      lg,
		Costs:   DefaultCosts(),
	}
}

// Run checks permission for acao, executes work when permitted, and debits
// afterwards according to the decision's mode. A denial is returned as the
// Decision with a nil error; errors are reserved for the work itself and for
// unexpected store failures.
func (g *Gate) Run(ctx context.Context, userID string, acao ActionKind, work UnitOfWork) (Decision, error) {
	if userID == "" {
		return Decision{}, ErrNotAuthenticated
	}

	sub, err := g.wallets.ActiveSubscription(ctx, userID)
	if err != nil {
		// The evaluator treats an unreadable store as a denial with a
		// diagnostic motivo, not a crash.
		g.lg.Errorw("subscription read failed", "user_id", userID, "error", err)
	}
	w, werr := g.wallets.Get(ctx, userID)

	dec := Evaluate(sub, w, werr, acao, g.Costs)
	if !dec.Permitido {
		valor := fmt.Sprintf("Ação: %s, Motivo: %s", acao, dec.Motivo)
		_ = g.feed.Append(ctx, &userID, nil, history.AcaoTentativaBloqueada, valor)
		return dec, nil
	}

	if err := work(ctx); err != nil {
		g.lg.Warnw("gated action failed, cost not debited", "acao", acao, "error", err)
		return dec, err
	}

	switch dec.Modo {
	case ModeTrial:
		if _, err := g.wallets.ConsumeTrial(ctx, userID); err != nil {
			return dec, err
		}
		_ = g.feed.Append(ctx, &userID, nil, history.AcaoTrialEncerrado, "Primeiro recurso do trial foi utilizado.")
	case ModeCredito:
		descricao := fmt.Sprintf("Uso para %s", acao)
		if _, err := g.wallets.SpendCredits(ctx, userID, g.Costs.Cost(acao), descricao); err != nil {
			return dec, err
		}
	case ModePlanoMensal:
		// No debit under an active subscription.
	}

	if dec.Modo != ModePlanoMensal && g.OnDebit != nil {
		g.OnDebit(ctx, userID)
	}
	return dec, nil
}

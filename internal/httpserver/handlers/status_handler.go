package handlers

import (
	"net/http"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/auth"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/cache"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/wallet"
)

// Status returns the wallet plus the active subscription in one payload,
// cache-aside when Redis is configured. Wallets are lazily backfilled for
// accounts that predate the credit feature.
func Status(db *gorm.DB, lg *zap.SugaredLogger, c *cache.StatusCache) http.HandlerFunc {
	store := wallet.NewStore(db)
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.Subject(r.Context())
		if st, ok := c.Get(r.Context(), uid); ok {
			respondJSON(w, st)
			return
		}
		wal, err := store.Ensure(r.Context(), uid)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		sub, err := store.ActiveSubscription(r.Context(), uid)
		if err != nil {
			lg.Errorw("subscription read failed", "user_id", uid, "error", err)
		}
		st := &cache.UserStatus{Wallet: wal, Subscription: sub}
		c.Set(r.Context(), uid, st)
		respondJSON(w, st)
	}
}

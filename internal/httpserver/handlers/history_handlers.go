package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/auth"
	"github.com/silvaleandrogestor-rgb/ASSINA-PRO/internal/history"
)

// History returns the recent-activity feed, newest first. ?limit defaults
// to 5 and is capped at 50.
func History(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	feed := history.NewFeed(db, lg)
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.Subject(r.Context())
		limit := 5
		if s := r.URL.Query().Get("limit"); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				limit = n
			}
		}
		if limit > 50 {
			limit = 50
		}
		respondJSON(w, feed.Recent(r.Context(), uid, limit))
	}
}

// Notifications is the same feed with the dropdown's fixed limit.
func Notifications(db *gorm.DB, lg *zap.SugaredLogger) http.HandlerFunc {
	feed := history.NewFeed(db, lg)
	return func(w http.ResponseWriter, r *http.Request) {
		uid := auth.Subject(r.Context())
		respondJSON(w, feed.Notifications(r.Context(), uid))
	}
}

package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/money-gurus/guru-server/internal/export"
	"github.com/money-gurus/guru-server/internal/model"
	"github.com/money-gurus/guru-server/internal/store"
)

// handleExport streams the user's history as CSV (default) or XLSX.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		respondError(w, http.StatusBadRequest, "uid is required")
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		respondError(w, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}

	user := model.User{UID: uid, Username: "User", CurrencySymbol: "₹"}
	var entries []model.MonthEntry

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		u, err := s.store.GetUser(ctx, uid)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		user = *u
		return nil
	})
	g.Go(func() error {
		var err error
		entries, err = s.store.History(ctx, uid)
		return err
	})
	if err := g.Wait(); err != nil {
		respondStoreError(w, err, "export")
		return
	}

	now := time.Now().UTC()
	report := export.Report{User: user, Entries: entries, Now: now}
	stamp := now.Format("2006-01-02")

	var err error
	switch format {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="moneyguru-history-%s.xlsx"`, stamp))
		err = report.WriteXLSX(w)
	default:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="moneyguru-history-%s.csv"`, stamp))
		err = report.WriteCSV(w)
	}
	if err != nil {
		// Headers are already written; log and give up on this response.
		zap.L().Error("server: export render failed",
			zap.String("uid", uid),
			zap.String("format", format),
			zap.Error(err),
		)
	}
}

package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/godilite/procurement-server/internal/service"
)

func getCurrencyRates(log *zap.Logger, svc BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		table := svc.CurrencyRates(ctx)
		log.Debug("served currency rates", zap.String("source", string(table.Source)))
		render.JSON(w, r, table)
	}
}

func summarizeBudget(log *zap.Logger, svc BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.BudgetSummaryRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Info("invalid budget summary body", zap.Error(err))
			badRequest(w, r, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		render.JSON(w, r, svc.Summarize(ctx, req))
	}
}

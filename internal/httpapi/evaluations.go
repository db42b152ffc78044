package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/godilite/procurement-server/internal/evaluation"
	"github.com/godilite/procurement-server/internal/export"
	"github.com/godilite/procurement-server/internal/service"
)

type scoringTypesResponse struct {
	ScoringTypes []service.ScoringTypeInfo `json:"scoringTypes"`
}

type evaluationListResponse struct {
	Evaluations []service.EvaluationRecord `json:"evaluations"`
}

func listScoringTypes(log *zap.Logger, svc EvaluationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "httpapi.listScoringTypes"

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		types, err := svc.ScoringTypes(ctx)
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}
		render.JSON(w, r, scoringTypesResponse{ScoringTypes: types})
	}
}

func getQuestionBank(log *zap.Logger, svc EvaluationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "httpapi.getQuestionBank"

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		bank, err := svc.QuestionBank(ctx, r.URL.Query().Get("type"))
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}
		render.JSON(w, r, bank)
	}
}

func submitEvaluation(log *zap.Logger, svc EvaluationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "httpapi.submitEvaluation"

		var req service.SubmitEvaluationRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Info("invalid evaluation body", zap.Error(err))
			badRequest(w, r, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		res, err := svc.Submit(ctx, req)
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, res)
	}
}

func getEvaluation(log *zap.Logger, svc EvaluationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "httpapi.getEvaluation"

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		rec, err := svc.Get(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}
		render.JSON(w, r, rec)
	}
}

func listSupplierEvaluations(log *zap.Logger, svc EvaluationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "httpapi.listSupplierEvaluations"

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		list, err := svc.ListBySupplier(ctx, chi.URLParam(r, "supplierID"))
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}
		render.JSON(w, r, evaluationListResponse{Evaluations: list})
	}
}

func exportEvaluation(log *zap.Logger, svc EvaluationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "httpapi.exportEvaluation"

		ctx, cancel := context.WithTimeout(r.Context(), exportTimeout)
		defer cancel()

		rec, err := svc.Get(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}

		// Question texts are a nicety; the export still works without them.
		var questions []evaluation.Question
		if bank, err := svc.QuestionBank(ctx, rec.ScoringType); err == nil {
			questions = bank.Questions
		} else {
			log.Warn("exporting without question texts", zap.String("id", rec.ID), zap.Error(err))
		}

		data, err := export.EvaluationWorkbook(rec, questions)
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}

		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(rec)))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			log.Warn("failed to write export", zap.String("id", rec.ID), zap.Error(err))
		}
	}
}

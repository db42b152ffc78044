package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/godilite/procurement-server/internal/service"
)

type answerRequest struct {
	Value   string `json:"value"`
	Comment string `json:"comment"`
}

type changeTypeRequest struct {
	ScoringType string `json:"scoringType"`
}

func startSession(log *zap.Logger, svc SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "httpapi.startSession"

		var req service.StartSessionRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			badRequest(w, r, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		view, err := svc.Start(ctx, req)
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, view)
	}
}

// sessionAction adapts a session operation that only needs the session id.
func sessionAction(log *zap.Logger, op string, fn func(ctx context.Context, id string) (service.SessionView, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		view, err := fn(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}
		render.JSON(w, r, view)
	}
}

func answerQuestion(log *zap.Logger, svc SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "httpapi.answerQuestion"

		var req answerRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			badRequest(w, r, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		view, err := svc.Answer(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "questionID"), req.Value, req.Comment)
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}
		render.JSON(w, r, view)
	}
}

func updateSessionHeader(log *zap.Logger, svc SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "httpapi.updateSessionHeader"

		var header service.EvaluationHeader
		if err := render.DecodeJSON(r.Body, &header); err != nil {
			badRequest(w, r, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		view, err := svc.UpdateHeader(ctx, chi.URLParam(r, "id"), header)
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}
		render.JSON(w, r, view)
	}
}

func changeSessionType(log *zap.Logger, svc SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "httpapi.changeSessionType"

		var req changeTypeRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			badRequest(w, r, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		view, err := svc.ChangeType(ctx, chi.URLParam(r, "id"), req.ScoringType)
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}
		render.JSON(w, r, view)
	}
}

func submitSession(log *zap.Logger, svc SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "httpapi.submitSession"

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		res, err := svc.Submit(ctx, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, res)
	}
}

func discardSession(log *zap.Logger, svc SessionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "httpapi.discardSession"

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		if err := svc.Discard(ctx, chi.URLParam(r, "id")); err != nil {
			writeError(w, r, log, op, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/godilite/procurement-server/internal/drafts"
)

// Free-form drafts (order and requisition forms) live under their own prefix
// so they cannot collide with evaluation sessions.
const formDraftPrefix = "form:"

func draftKey(r *http.Request) (string, bool) {
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	return formDraftPrefix + key, key != ""
}

func loadDraft(log *zap.Logger, store drafts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "httpapi.loadDraft"

		key, ok := draftKey(r)
		if !ok {
			badRequest(w, r, "draft key is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var value any
		if err := store.Load(ctx, key, &value); err != nil {
			writeError(w, r, log, op, err)
			return
		}
		render.JSON(w, r, value)
	}
}

func saveDraft(log *zap.Logger, store drafts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "httpapi.saveDraft"

		key, ok := draftKey(r)
		if !ok {
			badRequest(w, r, "draft key is required")
			return
		}

		var value any
		if err := render.DecodeJSON(r.Body, &value); err != nil {
			badRequest(w, r, "invalid request body")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		if err := store.Save(ctx, key, value); err != nil {
			writeError(w, r, log, op, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteDraft(log *zap.Logger, store drafts.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "httpapi.deleteDraft"

		key, ok := draftKey(r)
		if !ok {
			badRequest(w, r, "draft key is required")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		if err := store.Delete(ctx, key); err != nil {
			writeError(w, r, log, op, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

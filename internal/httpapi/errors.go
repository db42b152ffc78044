package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/godilite/procurement-server/internal/drafts"
	"github.com/godilite/procurement-server/internal/service"
)

type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, op string, err error) {
	code := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code, msg = http.StatusGatewayTimeout, "request timed out"
	case errors.Is(err, service.ErrInvalidInput):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotFound), errors.Is(err, drafts.ErrNotFound):
		code, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrStaticBank):
		code, msg = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrStorageFailure):
		msg = "database error"
	}

	if code >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("op", op), zap.Error(err))
	} else {
		log.Info("request rejected", zap.String("op", op), zap.Int("status", code), zap.Error(err))
	}

	render.Status(r, code)
	render.JSON(w, r, errorResponse{Error: msg, Status: http.StatusText(code)})
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errorResponse{Error: msg, Status: http.StatusText(http.StatusBadRequest)})
}

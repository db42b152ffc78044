// Package httpapi exposes the procurement services over REST for the web
// front end.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/godilite/procurement-server/internal/drafts"
)

const (
	requestTimeout = 5 * time.Second
	exportTimeout  = 15 * time.Second
)

// Services bundles what the router dispatches to.
type Services struct {
	Evaluations EvaluationService
	Budget      BudgetService
	Sessions    SessionService
	Drafts      drafts.Store
}

type healthResponse struct {
	Status string `json:"status"`
}

// NewRouter wires every REST route. allowedOrigins feeds the CORS policy; an
// empty list allows any origin.
func NewRouter(log *zap.Logger, svc Services, allowedOrigins []string) *chi.Mux {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("http")

	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: len(allowedOrigins) > 0,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(log))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, healthResponse{Status: "ok"})
	})

	router.Route("/api", func(r chi.Router) {
		if svc.Budget != nil {
			r.Get("/currency-rates", getCurrencyRates(log, svc.Budget))
			r.Post("/budget/summary", summarizeBudget(log, svc.Budget))
		}

		if svc.Evaluations != nil {
			r.Get("/scoring-types", listScoringTypes(log, svc.Evaluations))
			r.Get("/evaluation-questions", getQuestionBank(log, svc.Evaluations))
			r.Post("/evaluations", submitEvaluation(log, svc.Evaluations))
			r.Get("/evaluations/{id}", getEvaluation(log, svc.Evaluations))
			r.Get("/evaluations/{id}/export", exportEvaluation(log, svc.Evaluations))
			r.Get("/suppliers/{supplierID}/evaluations", listSupplierEvaluations(log, svc.Evaluations))
		}

		if svc.Sessions != nil {
			sessions := svc.Sessions
			r.Route("/evaluation-sessions", func(r chi.Router) {
				r.Post("/", startSession(log, sessions))
				r.Get("/{id}", sessionAction(log, "httpapi.getSession", sessions.Get))
				r.Delete("/{id}", discardSession(log, sessions))
				r.Put("/{id}/answers/{questionID}", answerQuestion(log, sessions))
				r.Put("/{id}/header", updateSessionHeader(log, sessions))
				r.Post("/{id}/next", sessionAction(log, "httpapi.nextStep", sessions.Next))
				r.Post("/{id}/back", sessionAction(log, "httpapi.previousStep", sessions.Back))
				r.Post("/{id}/type", changeSessionType(log, sessions))
				r.Post("/{id}/submit", submitSession(log, sessions))
			})
		}

		if svc.Drafts != nil {
			r.Get("/drafts/{key}", loadDraft(log, svc.Drafts))
			r.Put("/drafts/{key}", saveDraft(log, svc.Drafts))
			r.Delete("/drafts/{key}", deleteDraft(log, svc.Drafts))
		}
	})

	return router
}

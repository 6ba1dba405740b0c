package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func NewRouter(h FundHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(Recoverer(logger))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/", h.Greeting)
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/funds", h.ListFunds)
		r.Get("/mutual-funds", h.ListFunds)
		r.Get("/data", h.Data)
		r.Post("/recommendations", h.Recommend)
		r.Get("/analyze/{fundId}", h.AnalyzeFund)
		r.Get("/fund/{fundId}", h.GetFund)
		r.Post("/predict", h.Predict)
	})

	return r
}

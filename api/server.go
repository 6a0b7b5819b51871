/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logging:    One slog line per request, request-scoped logger
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/state, /api/profile     Worker state
  /api/days/*, /api/import     Day records
  /api/fortnights/*            Fortnight aggregates
  /api/pay-periods/*           Summaries and exports
  /api/reconciliation/*        Employer statement matching
  /api/rules                   Rules document
  /api/scenarios/*             Demo scenarios
  /api/reset                   Data reset

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/warp/shiftlock/logging"
)

// NewRouter creates a new router with all routes configured. corsOrigins
// lists the frontend origins allowed to call the API.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(logging.Middleware(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.GetState)
		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)

		r.Route("/days", func(r chi.Router) {
			r.Get("/", h.ListDays)
			r.Get("/{date}", h.GetDay)
			r.Put("/{date}", h.PutDay)
		})
		r.Post("/import", h.ImportDays)

		r.Route("/fortnights", func(r chi.Router) {
			r.Get("/", h.ListFortnights)
			r.Get("/{date}", h.GetFortnight)
		})

		r.Route("/pay-periods", func(r chi.Router) {
			r.Get("/", h.ListPayPeriods)
			r.Get("/{id}/summary", h.GetSummary)
			r.Get("/{id}/export", h.ExportPayPeriod)
		})
		r.Get("/summary", h.GetSummaryForDate)

		r.Route("/reconciliation", func(r chi.Router) {
			r.Post("/", h.Reconcile)
			r.Get("/runs", h.ListReconciliationRuns)
		})

		r.Get("/rules", h.GetRules)
		r.Put("/rules", h.PutRules)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
		r.Post("/reset", h.ResetDatabase)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>ShiftLock</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>ShiftLock API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/state">/api/state</a> - Profile and recorded days</li>
<li><a href="/api/pay-periods">/api/pay-periods</a> - Pay-period table</li>
<li><a href="/api/fortnights">/api/fortnights</a> - Current fortnight</li>
<li><a href="/api/rules">/api/rules</a> - Rules in force</li>
<li><a href="/api/scenarios">/api/scenarios</a> - Demo scenarios</li>
</ul>
</body>
</html>`))
	})

	return r
}

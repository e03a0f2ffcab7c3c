/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/calendar/*         Resolution, snapshots, import, reports
  /api/locations/*        Location master
  /api/holidays/*         Holiday master
  /api/weekly-off-rules/* Weekly-off rule master

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

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
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Calendar routes
		r.Route("/calendar", func(r chi.Router) {
			r.Post("/resolve", h.ResolveCalendar)
			r.Post("/working-days", h.CountWorkingDays)
			r.Get("/month/{locationID}/{year}/{month}", h.GetMonthCalendar)

			r.Post("/snapshot", h.CreateSnapshot)
			r.Get("/snapshot/{id}", h.GetSnapshot)

			r.Post("/holidays/bulk-import", h.BulkImportHolidays)
			r.Post("/cache/clear", h.ClearCache)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/holidays", h.HolidayReport)
				r.Get("/working-days", h.WorkingDaysReport)
			})
		})

		// Location routes
		r.Route("/locations", func(r chi.Router) {
			r.Get("/", h.ListLocations)
			r.Post("/", h.CreateLocation)
			r.Get("/{id}", h.GetLocation)
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		// Weekly-off rule routes
		r.Route("/weekly-off-rules", func(r chi.Router) {
			r.Get("/", h.ListWeeklyOffRules)
			r.Post("/", h.CreateWeeklyOffRule)
			r.Post("/{id}/end-date", h.EndDateWeeklyOffRule)
			r.Delete("/{id}", h.DeleteWeeklyOffRule)
		})
	})

	// Landing page with an API index
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Calendar Resolution Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Calendar Resolution Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><code>POST /api/calendar/resolve</code> - Classify a date or range</li>
<li><code>POST /api/calendar/working-days</code> - Count working days in a range</li>
<li><code>GET /api/calendar/month/{location}/{year}/{month}</code> - Month calendar</li>
<li><a href="/api/locations">/api/locations</a> - List locations</li>
<li><a href="/api/holidays">/api/holidays</a> - List holidays</li>
<li><a href="/api/weekly-off-rules">/api/weekly-off-rules</a> - List weekly-off rules</li>
</ul>
</body>
</html>`))
	})

	return r
}

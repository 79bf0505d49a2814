// Tenderlens - Government Procurement Analytics and Market Visualization
// Copyright 2026 Tenderlens Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tenderlens/tenderlens

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires the handler and middleware into the Chi route tree.
type Router struct {
	handler    *Handler
	middleware *ChiMiddleware
}

// NewRouter creates a router for the handler. A nil middleware config uses
// production defaults.
func NewRouter(handler *Handler, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:    handler,
		middleware: NewChiMiddleware(mwConfig),
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())
	r.Use(RequestLogger)

	// Health endpoints stay outside the rate limiter so monitoring checks
	// cannot starve themselves out.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HandleHealthLive)
		r.Get("/ready", router.handler.HandleHealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(PrometheusMetrics)

		r.Get("/projects", router.handler.HandleProjects)
		r.Get("/projects/export", router.handler.HandleProjectsExport)
		r.Post("/import/csv", router.handler.HandleImportCSV)

		r.Route("/filters", func(r chi.Router) {
			r.Get("/options", router.handler.HandleFilterOptions)
			r.Get("/companies", router.handler.HandleCompanies)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", router.handler.HandleAnalyticsSummary)
			r.Get("/periods", router.handler.HandleAnalyticsPeriods)
			r.Get("/concentration", router.handler.HandleAnalyticsConcentration)
			r.Get("/price-cut", router.handler.HandleAnalyticsPriceCut)
			r.Get("/companies", router.handler.HandleAnalyticsCompanies)
			r.Get("/competition", router.handler.HandleAnalyticsCompetition)
		})
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}

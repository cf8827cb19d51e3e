// Cropwise - Crop Recommendation API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropwise

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/cropwise/internal/middleware"
)

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	// Health and discovery are not rate limited so probes never see 429.
	r.Group(func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/", router.handler.Root)
		r.Get("/health", router.handler.Health)
		r.Get("/health/live", router.handler.HealthLive)
		r.Get("/health/ready", router.handler.HealthReady)
	})

	// Predictions and lookups
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		r.Post("/predict/soil-params", router.handler.PredictSoilParams)
		r.Post("/batch-predict/soil-params", router.handler.PredictSoilParams)
		r.Post("/predict/soil-image", router.handler.PredictSoilImage)
		r.Post("/predict/region", router.handler.PredictRegion)

		r.Get("/search/regions", router.handler.SearchRegions)
		r.Route("/available", func(r chi.Router) {
			r.Get("/states", router.handler.AvailableStates)
			r.Get("/districts", router.handler.AvailableDistricts)
			r.Get("/crops", router.handler.AvailableCrops)
		})
		r.Get("/soil-types", router.handler.SoilTypes)
		r.Get("/crop-categories", router.handler.CropCategories)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", router.handler.ListHistory)
			r.Patch("/{id}", router.handler.UpdateHistory)
		})
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", router.handler.AnalyticsSummary)
			r.Get("/methods", router.handler.AnalyticsMethods)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}

// Package server assembles the HTTP surface: routing, auth, CORS and the
// cross-cutting middleware.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"quizzie/internal/activity"
	"quizzie/internal/auth"
	"quizzie/pkg/logger"
	"quizzie/pkg/metrics"
	"quizzie/pkg/response"
)

type Deps struct {
	Auth           *auth.Service
	Activity       *activity.Service
	Log            logrus.FieldLogger
	Metrics        *metrics.Metrics
	AllowedOrigins []string
}

// NewRouter wires every route under /api/v1 plus /healthz and /metrics.
func NewRouter(d Deps) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.Use(Recoverer(d.Log), logger.Middleware(d.Log))
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware)
		router.Handle("/metrics", d.Metrics.Handler()).Methods(http.MethodGet)
	}

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, "ok", nil)
	}).Methods(http.MethodGet)
	router.HandleFunc("/api/v1", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, "Welcome to the quizzie API", map[string]string{"version": "v1"})
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	auth.NewHandler(d.Auth, d.Log).RegisterRoutes(api.PathPrefix("/user").Subrouter())

	protected := api.PathPrefix("/activity").Subrouter()
	protected.Use(auth.JWTMiddleware(d.Auth))
	public := api.PathPrefix("/activity").Subrouter()
	activity.NewHandler(d.Activity, d.Log).RegisterRoutes(public, protected)

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(router)
}

// Recoverer turns a panic in a handler into the generic 500 envelope.
func Recoverer(log logrus.FieldLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.WithFields(logrus.Fields{
						"panic":  rec,
						"method": r.Method,
						"path":   r.URL.Path,
					}).Error("handler panicked")
					response.Fail(w, http.StatusInternalServerError, "Internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

package http

import (
	"net/http"

	"lifesaver-qr/internal/delivery/http/handler"
	"lifesaver-qr/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

const serviceBanner = "Life Saver QR API"

type Router struct {
	router            *mux.Router
	recordHandler     *handler.EmergencyRecordHandler
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
	metricsHandler    http.Handler
}

func NewRouter(
	recordHandler *handler.EmergencyRecordHandler,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		recordHandler:     recordHandler,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
		metricsHandler:    metricsHandler,
	}
}

func (r *Router) Setup() *mux.Router {
	api := r.router.PathPrefix("/api").Subrouter()

	// Service info
	api.HandleFunc("/", r.root).Methods(http.MethodGet)
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Records (OPTIONS is routed so preflight reaches the CORS middleware)
	api.HandleFunc("/details", r.recordHandler.Create).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/details/{id}", r.recordHandler.GetRecord).Methods(http.MethodGet, http.MethodOptions)

	// Public profile and artifacts
	api.HandleFunc("/profile/{id}", r.recordHandler.GetProfile).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/qr-code/{id}", r.recordHandler.GetQRCode).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/generate-pdf/{id}", r.recordHandler.GetDocument).Methods(http.MethodGet, http.MethodOptions)

	if r.metricsHandler != nil {
		r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)
	}

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) root(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "` + serviceBanner + `"}`))
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

package http

import (
	"net/http"

	"kinhealth/internal/delivery/http/handler"
	"kinhealth/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Router struct {
	router             *mux.Router
	serviceName        string
	log                *logrus.Logger
	authHandler        *handler.AuthHandler
	memberHandler      *handler.MemberHandler
	healthEventHandler *handler.HealthEventHandler
	chatHandler        *handler.ChatHandler
	auditLogHandler    *handler.AuditLogHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
}

func NewRouter(
	serviceName string,
	log *logrus.Logger,
	authHandler *handler.AuthHandler,
	memberHandler *handler.MemberHandler,
	healthEventHandler *handler.HealthEventHandler,
	chatHandler *handler.ChatHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		serviceName:        serviceName,
		log:                log,
		authHandler:        authHandler,
		memberHandler:      memberHandler,
		healthEventHandler: healthEventHandler,
		chatHandler:        chatHandler,
		auditLogHandler:    auditLogHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.Use(otelmux.Middleware(r.serviceName))
	r.router.Use(middleware.RequestLogger(r.log))
	r.router.Use(r.corsMiddleware.Handle)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Everything below is scoped to the caller's own family
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/members", r.memberHandler.CreateMember).Methods(http.MethodPost)
	protected.HandleFunc("/members", r.memberHandler.GetMembers).Methods(http.MethodGet)
	protected.HandleFunc("/members/{id}", r.memberHandler.GetMember).Methods(http.MethodGet)
	protected.HandleFunc("/members/{id}/events", r.healthEventHandler.GetEvents).Methods(http.MethodGet)
	protected.HandleFunc("/members/{id}/events", r.healthEventHandler.CreateEvent).Methods(http.MethodPost)

	protected.HandleFunc("/chat", r.chatHandler.Chat).Methods(http.MethodPost)
	protected.HandleFunc("/activity", r.auditLogHandler.GetActivity).Methods(http.MethodGet)

	// mux only runs middleware on a matched route, so preflights need one of their own
	r.router.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

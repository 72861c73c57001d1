package rest

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"ascendant/internal/service"
	"ascendant/internal/transport/rest/handler"
	"ascendant/internal/transport/rest/middleware"
	"ascendant/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	SessionService *service.SessionService
	WSHub          *ws.Hub
	Assets         fs.FS
	AllowedOrigins string
	Logger         *zap.Logger
}

// NewRouter creates the router: page, assets and the session API
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	pageHandler := handler.NewPageHandler(c.Assets)
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.Logger)
	wsHandler := ws.NewHandler(c.WSHub, c.SessionService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.SessionService.Tokens())

	r.Use(middleware.Logging(c.Logger))
	r.Use(middleware.CORS(c.AllowedOrigins))

	// Health check
	r.HandleFunc("/health", handler.Health).Methods("GET")

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/session", wsHandler.SessionWS).Methods("GET")

	// Session routes (require session token)
	sessionRoutes := v1.NewRoute().Subrouter()
	sessionRoutes.Use(authMW.RequireSession)

	sessionRoutes.HandleFunc("/session", sessionHandler.Get).Methods("GET", "OPTIONS")
	sessionRoutes.HandleFunc("/session/events", sessionHandler.Event).Methods("POST", "OPTIONS")

	// Page and static assets
	r.HandleFunc("/", pageHandler.Index).Methods("GET", "HEAD")
	r.PathPrefix("/").HandlerFunc(pageHandler.Assets).Methods("GET", "HEAD")

	return r
}

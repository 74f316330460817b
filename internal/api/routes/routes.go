package routes

import (
	"time"

	"chat-realtime/internal/api/handlers"
	"chat-realtime/internal/api/middleware"
	"chat-realtime/internal/auth"
	"chat-realtime/internal/websocket"

	"github.com/gin-gonic/gin"
)

type Router struct {
	engine      *gin.Engine
	wsHandler   *handlers.WSHandler
	rateLimitMW *middleware.RateLimitMiddleware
	authMW      *middleware.AuthMiddleware
	wsConnects  int
	health      map[string]handlers.HealthCheck
}

// Options configures the optional parts of the router.
type Options struct {
	AllowedOrigins []string

	// Limiter enables per-IP limiting of WebSocket handshakes when set
	Limiter             middleware.RateLimiter
	WSConnectsPerMinute int

	// OnlineUsers adds tracked presence to the stats endpoint when set
	OnlineUsers handlers.OnlineUsers

	// HealthChecks are run by /healthz
	HealthChecks map[string]handlers.HealthCheck
}

func NewRouter(hub *websocket.Hub, authenticator auth.Authenticator, opts Options) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	// Add middlewares
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(opts.AllowedOrigins))
	engine.Use(middleware.LogApi("/healthz"))

	r := &Router{
		engine:     engine,
		wsHandler:  handlers.NewWSHandler(hub, authenticator, websocket.NewUpgrader(opts.AllowedOrigins), opts.OnlineUsers),
		authMW:     middleware.NewAuthMiddleware(authenticator),
		wsConnects: opts.WSConnectsPerMinute,
		health:     opts.HealthChecks,
	}
	if opts.Limiter != nil && opts.WSConnectsPerMinute > 0 {
		r.rateLimitMW = middleware.NewRateLimitMiddleware(opts.Limiter)
	}
	return r
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", handlers.Health(r.health))

	api := r.engine.Group("/api/v1")

	// WebSocket endpoint, authenticated by the handler itself before the upgrade
	ws := []gin.HandlerFunc{}
	if r.rateLimitMW != nil {
		ws = append(ws, r.rateLimitMW.RateLimitIP(r.wsConnects, time.Minute))
	}
	ws = append(ws, r.wsHandler.HandleWebSocket)
	api.GET("/ws", ws...)

	api.GET("/ws/stats", r.authMW.RequireAuth(), r.wsHandler.Stats)
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

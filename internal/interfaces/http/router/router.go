package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RegistrarFunc adapts a plain function to the RouteRegistrar interface
type RegistrarFunc func(rg *gin.RouterGroup)

// RegisterRoutes implements RouteRegistrar
func (f RegistrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

// Router manages HTTP route registration
type Router struct {
	engine         *gin.Engine
	apiVersion     string
	registrars     []RouteRegistrar
	public         []RouteRegistrar
	authMiddleware []gin.HandlerFunc
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAuthMiddleware sets the middleware chain applied to authenticated routes.
func WithAuthMiddleware(middleware ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.authMiddleware = middleware
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
		public:     make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar whose routes require an authenticated user.
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// RegisterPublic adds a RouteRegistrar whose routes bypass identity checks,
// e.g. provider webhooks that authenticate with their own signatures.
func (r *Router) RegisterPublic(registrar RouteRegistrar) *Router {
	r.public = append(r.public, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.public {
		registrar.RegisterRoutes(api)
	}

	authed := api.Group("", r.authMiddleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(authed)
	}
}

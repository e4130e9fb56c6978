package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/iliyamo/glovo-marketplace/internal/handler"
	"github.com/iliyamo/glovo-marketplace/internal/middleware"
	"github.com/iliyamo/glovo-marketplace/internal/utils"
)

// Deps is everything the HTTP surface needs.  Nil handlers leave their
// routes unregistered.
type Deps struct {
	Logger       *zap.Logger
	DB           handler.Pinger
	Issuer       *utils.TokenIssuer
	Auth         *handler.AuthHandler
	Social       *handler.SocialHandler
	Resources    Resources
	LoginLimiter *middleware.TokenBucket
	Cache        *middleware.ResponseCache
}

// New builds the echo instance with the global middleware chain and all
// routes.
func New(d Deps) *echo.Echo {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()

	e.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Logger),
		middleware.Metrics(),
		echomw.Recover(),
		echomw.BodyLimit("1M"),
	)

	RegisterRoutes(e, d.DB)
	if d.Auth != nil {
		RegisterAuth(e, d.Auth, d.Issuer, d.LoginLimiter)
	}
	if d.Social != nil {
		RegisterSocial(e, d.Social)
	}
	RegisterResources(e, d.Resources, d.Cache)
	return e
}

// RegisterRoutes registers the operational endpoints: health check and
// Prometheus metrics.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the authentication routes.  Only login is rate
// limited; /auth/me requires a valid access token of any role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, issuer *utils.TokenIssuer, limiter *middleware.TokenBucket) {
	g := e.Group("/auth")
	g.POST("/register/", a.Register)

	var loginMW []echo.MiddlewareFunc
	if limiter != nil {
		loginMW = append(loginMW, limiter.Middleware())
	}
	g.POST("/login", a.Login, loginMW...)
	g.POST("/logout/", a.Logout)
	g.POST("/refresh/", a.Refresh)

	if issuer != nil {
		g.GET("/me", a.Me,
			middleware.JWTAuth(issuer),
			middleware.RequireRole("client", "courier", "owner"),
		)
	}
}

// RegisterSocial registers the social login redirects.
func RegisterSocial(e *echo.Echo, s *handler.SocialHandler) {
	e.GET("/oauth/:provider/", s.Redirect)
}

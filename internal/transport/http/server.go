package http

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"carrental/internal/bootstrap"
	"carrental/internal/transport/http/handler"
	"carrental/internal/transport/http/middleware"
)

// NewRouter wires every route. ctx bounds background helpers such as the
// rate limiter's eviction loop.
func NewRouter(ctx context.Context, app *bootstrap.App) *gin.Engine {
	cfg := app.Config
	if cfg.App.GinMode != "" {
		gin.SetMode(cfg.App.GinMode)
	}
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.App.TrustedProxies); err != nil {
		slog.Error("invalid trusted proxies, trusting none", "error", err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(middleware.RequestLogger(), gin.Recovery())

	secret := cfg.Auth.JWTSecret
	cookieName := cfg.Auth.CookieName
	requireAuth := middleware.AuthJWT(secret, cookieName)

	healthHandler := handler.NewHealthHandler(app)
	pageHandler := handler.NewPageHandler(cfg.App.WebDir)
	authHandler := handler.NewAuthHandler(app.Auth, handler.CookieOptions{
		Name:   cookieName,
		Secure: cfg.Auth.CookieSecure,
		MaxAge: cfg.JWTExpiration(),
	})
	carHandler := handler.NewCarHandler(app.Catalog, app.Bookings)
	bookingHandler := handler.NewBookingHandler(app.Bookings)

	router.GET("/healthz", healthHandler.Check)
	router.GET("/dashboard", middleware.RequirePage(secret, cookieName, "/"), pageHandler.Dashboard)

	api := router.Group("/api")
	limited := middleware.RateLimit(ctx, cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst)
	api.POST("/register", limited, authHandler.Register)
	api.POST("/login", limited, authHandler.Login)
	api.POST("/logout", authHandler.Logout)
	api.GET("/me", requireAuth, authHandler.Me)

	api.GET("/cars", carHandler.List)
	api.PATCH("/cars/:carId/availability", requireAuth, carHandler.SetAvailability)
	api.GET("/car-availability/:carId", carHandler.Availability)

	api.POST("/bookings", bookingHandler.Create)
	api.GET("/bookings", bookingHandler.List)
	api.GET("/bookings/:bookingId/events", bookingHandler.Events)

	router.NoRoute(pageHandler.Fallback)
	return router
}

// Package webserver hosts the echo HTTP server. Handlers register
// themselves through the ApiGET/ApiPOST/... helpers; everything under /api
// except the login route sits behind JWT auth.
package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stocklane/stocklane/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dbContextKey = "stocklane_db"

type WebServer struct {
	cfg  *config.AppConfig
	root *echo.Echo
	api  *echo.Group
}

var server *WebServer

// Init builds the global web server. The gorm handle is injected into every
// request context so handlers can fetch it with GetDB.
func Init(cfg *config.AppConfig, db *gorm.DB) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(dbContextKey, db)
			return next(c)
		}
	})
	e.Use(requestLogger())

	api := e.Group("/api")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.JwtSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return jwt.MapClaims{}
		},
		Skipper: func(c echo.Context) bool {
			// login is the only open API route
			return c.Path() == "/api/auth/login"
		},
	}))

	server = &WebServer{cfg: cfg, root: e, api: api}
	return server
}

// requestLogger logs every request through zap
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Error(v.Error))
			return nil
		},
	})
}

// Listen starts serving and blocks until the context is cancelled
func Listen(ctx context.Context) error {
	if server == nil {
		return fmt.Errorf("webserver not initialized")
	}
	addr := fmt.Sprintf("%s:%d", server.cfg.Web.Host, server.cfg.Web.Port)
	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("web server listening", zap.String("addr", addr))
		if err := server.root.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.root.Shutdown(shutdownCtx)
	}
}

// Echo exposes the underlying engine (used in tests)
func Echo() *echo.Echo {
	if server == nil {
		return nil
	}
	return server.root
}

// GetDB retrieves the request-scoped database handle
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(dbContextKey).(*gorm.DB)
}

// ApiGET registers an authenticated GET route under /api
func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

// ApiPOST registers an authenticated POST route under /api
func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

// ApiPUT registers an authenticated PUT route under /api
func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

// ApiDELETE registers an authenticated DELETE route under /api
func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

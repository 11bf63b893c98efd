// Package web gin server
package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/Laisky/attachment-service/library/log"
)

const (
	// DefaultRequestTimeout bounds every request when no timeout is configured.
	DefaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// RouteRegistrar mounts a group of handlers.
type RouteRegistrar interface {
	RegisterRoutes(r gin.IRouter)
}

// Options configures the HTTP server.
type Options struct {
	Addr           string
	CORSOrigins    []string
	RequestTimeout time.Duration
	Debug          bool
}

// NewEngine builds the gin engine with the shared middlewares and the given routes.
func NewEngine(opt Options, registrars ...RouteRegistrar) *gin.Engine {
	if !opt.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if opt.RequestTimeout <= 0 {
		opt.RequestTimeout = DefaultRequestTimeout
	}

	server := gin.New()
	// let handlers that pass *gin.Context downstream observe the request deadline
	server.ContextWithFallback = true
	server.Use(
		gin.Recovery(),
		gmw.NewLoggerMiddleware(
			gmw.WithLogger(log.Logger.Named("gin")),
		),
		newCORS(opt.CORSOrigins),
		requestTimeout(opt.RequestTimeout),
	)

	health := newStatusHandler()
	server.GET("/health", health)
	server.HEAD("/health", health)

	for _, r := range registrars {
		r.RegisterRoutes(server)
	}

	return server
}

// RunServer serves until ctx is cancelled, then shuts down gracefully.
func RunServer(ctx context.Context, opt Options, registrars ...RouteRegistrar) error {
	srv := &http.Server{
		Addr:              opt.Addr,
		Handler:           NewEngine(opt, registrars...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Logger.Info("listening on http", zap.String("addr", opt.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server exit")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown http server")
	}

	log.Logger.Info("http server stopped")
	return nil
}

// newStatusHandler answers health probes.
func newStatusHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Header("Allow", "GET, HEAD")
		if ctx.Request.Method == http.MethodHead {
			ctx.Status(http.StatusOK)
			return
		}

		ctx.String(http.StatusOK, "ok")
	}
}

// requestTimeout attaches a deadline to every request context.
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), timeout)
		defer cancel()

		ctx.Request = ctx.Request.WithContext(reqCtx)
		ctx.Next()
	}
}

// newCORS allows the configured origins. "*" allows any origin.
// The Location header is exposed so browsers can read the id of a created attachment.
func newCORS(origins []string) gin.HandlerFunc {
	allowAny := false
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		origin = strings.ToLower(strings.TrimRight(strings.TrimSpace(origin), "/"))
		switch origin {
		case "":
		case "*":
			allowAny = true
		default:
			allowed[origin] = struct{}{}
		}
	}

	return func(ctx *gin.Context) {
		origin := strings.TrimSpace(ctx.Request.Header.Get("Origin"))
		if origin == "" {
			ctx.Next()
			return
		}

		_, ok := allowed[strings.ToLower(origin)]
		if !ok && !allowAny {
			if ctx.Request.Method == http.MethodOptions {
				ctx.AbortWithStatus(http.StatusForbidden)
				return
			}

			ctx.Next()
			return
		}

		ctx.Header("Access-Control-Allow-Origin", origin)
		ctx.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		ctx.Header("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, X-Requested-With")
		ctx.Header("Access-Control-Expose-Headers", "Location")
		ctx.Header("Access-Control-Max-Age", "86400") // 24 hours
		ctx.Header("Vary", "Origin")

		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}

		ctx.Next()
	}
}

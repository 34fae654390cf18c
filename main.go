package main

import (
	"context"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"memgate/internal/memory"
)

func main() {
	cfg := loadConfig()
	logInfo("Starting memgate in %s mode", map[bool]string{true: "production", false: "development"}[cfg.IsProduction])

	content, err := loadContent(cfg.ContentFile)
	if err != nil {
		logFatal("Failed to load content: %v", err)
	}

	app := newApp(cfg, content)
	if _, err := memory.NewGate(app.gateConfig(nil)); err != nil {
		logFatal("Invalid gate configuration: %v", err)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := app.setupRouter(templateDir(cfg.IsProduction), staticDir(cfg.IsProduction))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go app.runSessionSweeper(ctx, time.Minute)

	app.startServer(router)
}

// newApp wires an App from config and content.
func newApp(cfg Config, content Content) *App {
	app := &App{
		Config:       cfg,
		GateSessions: make(map[string]*GateSession),
		LimiterMap:   make(map[string]*rate.Limiter),
		HTTPClient:   &http.Client{Timeout: cfg.SubscribeTimeout},
		StartTime:    time.Now(),
	}
	app.setContent(content)
	return app
}

func templateDir(production bool) string {
	if production && dirExists("dist/templates") {
		logInfo("Serving templates from dist/ directory")
		return "dist/templates"
	}
	return "templates"
}

func staticDir(production bool) string {
	if production && dirExists("dist/static") {
		return "dist/static"
	}
	return "static"
}

// setupRouter registers middleware, templates and routes.
func (app *App) setupRouter(templates, static string) *gin.Engine {
	router := gin.Default()
	router.Use(requestIDMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression,
		ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif", ".webp"}),
		ginGzip.WithExcludedPaths([]string{"/static/fonts"})))
	router.Use(app.cacheHeadersMiddleware())

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.SetFuncMap(template.FuncMap{
		"hasPrefix": strings.HasPrefix,
		"join":      strings.Join,
	})
	router.LoadHTMLGlob(templates + "/*.html")
	router.Static("/static", static)

	router.GET(RouteHome, app.homeHandler)
	router.GET(RouteAbout, app.aboutHandler)
	router.GET(RouteSkills, app.skillsHandler)
	router.GET(RouteProjects, app.projectsHandler)
	router.GET(RouteProject, app.projectHandler)
	router.GET(RouteExperience, app.experienceHandler)
	router.GET(RouteContact, app.contactHandler)
	router.NoRoute(app.notFoundHandler)

	router.GET(RouteGate, app.gateStateHandler)
	limited := router.Group("/", app.rateLimitMiddleware())
	limited.POST(RouteGateStart, app.gateStartHandler)
	limited.POST(RouteGateFlip, app.gateFlipHandler)
	limited.POST(RouteGateRestart, app.gateRestartHandler)
	limited.POST(RouteGateUnlock, app.gateUnlockHandler)
	limited.POST(RouteGateDismiss, app.gateDismissHandler)
	limited.POST(RouteSubscribe, app.subscribeHandler)

	router.GET(RouteHealthz, app.healthzHandler)
	return router
}

func (app *App) startServer(router *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + app.Config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		logInfo("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", app.Config.Port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logFatal("Server failed to start: %v", err)
	}
	<-idleConnsClosed

	closed := app.cleanupIdleSessions(0)
	logInfo("Server shutdown complete, closed %d sessions", closed)
}

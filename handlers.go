package main

import (
	"net/http"
	"strconv"
	"time"

	"memgate/internal/types"

	"github.com/gin-gonic/gin"
)

// renderPage renders a full page with the session's gate overlay.
func (app *App) renderPage(c *gin.Context, status int, name, title string, data gin.H) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	gs, err := app.getGateSession(ctx, sessionID)
	if err != nil {
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	page := gin.H{
		"title":   title + " | " + app.Content.Profile.Name,
		"profile": app.Content.Profile,
		"path":    c.Request.URL.Path,
		"gate":    gs.Gate.View(),
		"year":    time.Now().Year(),
	}
	for k, v := range data {
		page[k] = v
	}
	c.HTML(status, name, page)
}

// homeHandler renders the landing page.
func (app *App) homeHandler(c *gin.Context) {
	featured := app.Content.Projects
	if len(featured) > 3 {
		featured = featured[:3]
	}
	app.renderPage(c, http.StatusOK, "index.html", "Home", gin.H{"featured": featured})
}

// aboutHandler renders the about page.
func (app *App) aboutHandler(c *gin.Context) {
	app.renderPage(c, http.StatusOK, "about.html", "About", nil)
}

// skillsHandler renders the skills page.
func (app *App) skillsHandler(c *gin.Context) {
	app.renderPage(c, http.StatusOK, "skills.html", "Skills", gin.H{"skills": app.Content.Skills})
}

// experienceHandler renders the experience timeline.
func (app *App) experienceHandler(c *gin.Context) {
	app.renderPage(c, http.StatusOK, "experience.html", "Experience", gin.H{"jobs": app.Content.Experience})
}

// contactHandler renders the contact page.
func (app *App) contactHandler(c *gin.Context) {
	app.renderPage(c, http.StatusOK, "contact.html", "Contact", nil)
}

// projectsHandler renders the project grid, optionally filtered by ?category=.
func (app *App) projectsHandler(c *gin.Context) {
	category := c.DefaultQuery("category", AllProjectCategory)
	projects := filterProjects(app.Content.Projects, category)
	app.renderPage(c, http.StatusOK, "projects.html", "Projects", gin.H{
		"projects":       projects,
		"categories":     app.Categories,
		"activeCategory": category,
	})
}

// projectHandler renders one project's detail page, or a 404 page.
func (app *App) projectHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	project, ok := app.Projects[id]
	if err != nil || !ok {
		logWarn("%sProject not found: %q", reqPrefix(c.Request.Context()), c.Param("id"))
		app.renderPage(c, http.StatusNotFound, "not_found.html", "Not Found", gin.H{"message": ErrorProjectNotFound})
		return
	}
	app.renderPage(c, http.StatusOK, "project.html", project.Title, gin.H{"project": project})
}

// notFoundHandler renders the 404 page for unknown routes.
func (app *App) notFoundHandler(c *gin.Context) {
	app.renderPage(c, http.StatusNotFound, "not_found.html", "Not Found", nil)
}

// gateSessionFor resolves the caller's gate or aborts the request.
func (app *App) gateSessionFor(c *gin.Context) (*GateSession, bool) {
	sessionID := app.getOrCreateSession(c)
	gs, err := app.getGateSession(c.Request.Context(), sessionID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": http.StatusText(http.StatusInternalServerError)})
		return nil, false
	}
	return gs, true
}

func respondGate(c *gin.Context, gs *GateSession, err error, extra gin.H) {
	body := gin.H{"gate": gs.Gate.View()}
	for k, v := range extra {
		body[k] = v
	}
	if err != nil {
		status, msg := gateErrorStatus(err)
		body["error"] = msg
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

// gateStateHandler returns the session's gate as JSON.
func (app *App) gateStateHandler(c *gin.Context) {
	gs, ok := app.gateSessionFor(c)
	if !ok {
		return
	}
	respondGate(c, gs, nil, nil)
}

// gateStartHandler starts the memory game.
func (app *App) gateStartHandler(c *gin.Context) {
	gs, ok := app.gateSessionFor(c)
	if !ok {
		return
	}
	respondGate(c, gs, app.startGate(c.Request.Context(), gs), nil)
}

// gateFlipHandler flips one card.
func (app *App) gateFlipHandler(c *gin.Context) {
	gs, ok := app.gateSessionFor(c)
	if !ok {
		return
	}
	var req types.FlipRequest
	if err := c.ShouldBind(&req); err != nil {
		logWarn("%sInvalid flip request: %v", reqPrefix(c.Request.Context()), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrorInvalidFlip, "gate": gs.Gate.View()})
		return
	}
	result := app.flipCard(c.Request.Context(), gs, *req.Index)
	respondGate(c, gs, nil, gin.H{"result": result.String()})
}

// gateRestartHandler deals a fresh deck.
func (app *App) gateRestartHandler(c *gin.Context) {
	gs, ok := app.gateSessionFor(c)
	if !ok {
		return
	}
	respondGate(c, gs, app.restartGate(c.Request.Context(), gs), nil)
}

// gateUnlockHandler reveals the portfolio after a win.
func (app *App) gateUnlockHandler(c *gin.Context) {
	gs, ok := app.gateSessionFor(c)
	if !ok {
		return
	}
	respondGate(c, gs, app.unlockGate(c.Request.Context(), gs), nil)
}

// gateDismissHandler closes the overlay without a win, if allowed.
func (app *App) gateDismissHandler(c *gin.Context) {
	gs, ok := app.gateSessionFor(c)
	if !ok {
		return
	}
	respondGate(c, gs, app.dismissGate(c.Request.Context(), gs), nil)
}

// healthzHandler returns a JSON health check with server stats.
func (app *App) healthzHandler(c *gin.Context) {
	uptime := time.Since(app.StartTime)
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"env":             map[bool]string{true: "production", false: "development"}[app.Config.IsProduction],
		"projects_loaded": len(app.Content.Projects),
		"sessions":        app.gateSessionCount(),
		"gate_pairs":      app.Config.GatePairs,
		"uptime":          formatUptime(uptime),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

package main

import "time"

// Gate defaults, overridable from the environment
const (
	DefaultGatePairs     = 4
	DefaultMatchDelay    = 500 * time.Millisecond
	DefaultMismatchDelay = 1000 * time.Millisecond
)

// Session configuration constants
const (
	SessionCookieName = "session_id"
)

// Route constants
const (
	RouteHome          = "/"
	RouteAbout         = "/about"
	RouteSkills        = "/skills"
	RouteProjects      = "/projects"
	RouteProject       = "/projects/:id"
	RouteExperience    = "/experience"
	RouteContact       = "/contact"
	RouteGate          = "/api/gate"
	RouteGateStart     = "/api/gate/start"
	RouteGateFlip      = "/api/gate/flip"
	RouteGateRestart   = "/api/gate/restart"
	RouteGateUnlock    = "/api/gate/unlock"
	RouteGateDismiss   = "/api/gate/dismiss"
	RouteSubscribe     = "/api/subscribe"
	RouteHealthz       = "/healthz"
	AllProjectCategory = "All"
)

// Error message constants
const (
	ErrorGameNotStarted      = "Start the game first."
	ErrorGameAlreadyStarted  = "The game is already running."
	ErrorGateNotWon          = "Match every pair to unlock the portfolio."
	ErrorDismissNotAllowed   = "The gate can only be closed by winning."
	ErrorInvalidFlip         = "A card index is required."
	ErrorSessionClosed       = "Session expired. Reload the page."
	ErrorInvalidEmail        = "Please enter a valid email address."
	ErrorSubscribeDisabled   = "Subscriptions are not available right now."
	ErrorSubscribeFailed     = "Subscription failed! Please try again."
	ErrorProjectNotFound     = "Project not found."
	MessageSubscribeAccepted = "You're all set! Thanks for subscribing."
)

// Context key constants
const (
	requestIDKey contextKey = "request_id"
)

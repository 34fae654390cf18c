package main

import (
	"net/http"
	"sync"
	"time"

	"memgate/internal/memory"
	"memgate/internal/types"

	"golang.org/x/time/rate"
)

type contextKey string

type (
	Content    = types.Content
	Project    = types.Project
	SkillGroup = types.SkillGroup
	Job        = types.Job
)

// App holds the server's configuration, site content and live sessions.
type App struct {
	Config Config

	Content    Content
	Projects   map[int]Project
	Categories []string

	GateSessions map[string]*GateSession
	SessionMutex sync.RWMutex

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex

	// Scheduler and Rand are nil in production; tests inject deterministic ones.
	Scheduler memory.Scheduler
	Rand      func(n int) int

	HTTPClient *http.Client
	StartTime  time.Time
}

// GateSession is one visitor's gate plus bookkeeping.
type GateSession struct {
	ID             string
	Gate           *memory.Gate
	LastAccessTime time.Time
	UnlockedAt     time.Time
}

// Config is read once from the environment at startup.
type Config struct {
	Port             string
	IsProduction     bool
	SessionTimeout   time.Duration
	CookieMaxAge     time.Duration
	StaticCacheAge   time.Duration
	RateLimitRPS     int
	RateLimitBurst   int
	GatePairs        int
	MatchDelay       time.Duration
	MismatchDelay    time.Duration
	AllowDismiss     bool
	SubscribeURL     string
	SubscribeTimeout time.Duration
	ContentFile      string
}

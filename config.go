package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// loadConfig reads .env (if present) and then the process environment.
func loadConfig() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logWarn("Failed to load .env: %v", err)
	}

	cfg := Config{
		Port:             getEnvString("PORT", "8080"),
		IsProduction:     os.Getenv("GIN_MODE") == "release" || os.Getenv("ENV") == "production",
		SessionTimeout:   getEnvDuration("SESSION_TIMEOUT", 2*time.Hour),
		CookieMaxAge:     getEnvDuration("COOKIE_MAX_AGE", 2*time.Hour),
		StaticCacheAge:   getEnvDuration("STATIC_CACHE_AGE", 5*time.Minute),
		RateLimitRPS:     getEnvInt("RATE_LIMIT_RPS", 5),
		RateLimitBurst:   getEnvInt("RATE_LIMIT_BURST", 10),
		GatePairs:        getEnvInt("GATE_PAIRS", DefaultGatePairs),
		MatchDelay:       getEnvDuration("GATE_MATCH_DELAY", DefaultMatchDelay),
		MismatchDelay:    getEnvDuration("GATE_MISMATCH_DELAY", DefaultMismatchDelay),
		AllowDismiss:     getEnvBool("GATE_ALLOW_DISMISS", false),
		SubscribeURL:     getEnvString("SUBSCRIBE_URL", ""),
		SubscribeTimeout: getEnvDuration("SUBSCRIBE_TIMEOUT", 5*time.Second),
		ContentFile:      getEnvString("CONTENT_FILE", "data/content.json"),
	}
	return cfg
}

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"memgate/internal/memory"
	"memgate/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// noSwap keeps the deck in catalog order: pair k sits at k and k+pairs.
func noSwap(n int) int { return n - 1 }

func testConfig() Config {
	return Config{
		Port:             "0",
		SessionTimeout:   time.Hour,
		CookieMaxAge:     time.Hour,
		StaticCacheAge:   5 * time.Minute,
		RateLimitRPS:     1000,
		RateLimitBurst:   1000,
		GatePairs:        2,
		MatchDelay:       500 * time.Millisecond,
		MismatchDelay:    time.Second,
		SubscribeTimeout: 2 * time.Second,
		ContentFile:      "data/content.json",
	}
}

func testContent() Content {
	return Content{
		Profile: types.Profile{
			Name:  "Test Person",
			Title: "Backend Engineer",
			Email: "test@example.com",
			About: []string{"I write Go."},
		},
		Skills:  []SkillGroup{{Category: "Languages", Items: []string{"Go"}}},
		Experience: []Job{{
			Role: "Engineer", Company: "Acme", Start: "2020", End: "Present",
			Bullets: []string{"Shipped things."},
		}},
		Projects: []Project{
			{ID: 1, Title: "Queue Inspector", Category: "Web", TechStack: []string{"Go", "Gin"}},
			{ID: 2, Title: "Dotfiles Sync", Category: "CLI", TechStack: []string{"Go"}},
			{ID: 3, Title: "Recipe Box", Category: "Web"},
		},
	}
}

// newTestApp returns an app whose gates run on a manual clock with an
// unshuffled deck.
func newTestApp(t *testing.T, mutate ...func(*Config)) (*App, *memory.ManualScheduler) {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	app := newApp(cfg, testContent())
	sched := &memory.ManualScheduler{}
	app.Scheduler = sched
	app.Rand = noSwap
	return app, sched
}

func newTestRouter(t *testing.T, app *App) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return app.setupRouter("templates", "static")
}

// client replays the session cookie across requests.
type client struct {
	t       *testing.T
	router  http.Handler
	cookies []*http.Cookie
}

func newClient(t *testing.T, router http.Handler) *client {
	return &client{t: t, router: router}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}
	return w
}

type gateResponse struct {
	Gate   memory.GateView `json:"gate"`
	Error  string          `json:"error"`
	Result string          `json:"result"`
}

func decodeGate(t *testing.T, w *httptest.ResponseRecorder) gateResponse {
	t.Helper()
	var resp gateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body %q", w.Body.String())
	return resp
}

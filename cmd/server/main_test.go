package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Skribblers/skribbler/crypto"
	"github.com/Skribblers/skribbler/game"
	"github.com/Skribblers/skribbler/policy"
	"github.com/Skribblers/skribbler/shared/configs"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOriginGate(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)
	r := CreateServer([]string{"http://localhost:3000", "https://skribbler.example"})
	r.GET("/rooms", func(ctx *gin.Context) { ctx.String(http.StatusOK, "[]") })
	r.POST("/play", func(ctx *gin.Context) { ctx.String(http.StatusOK, "ws://x/socket") })

	tests := []struct {
		name        string
		method      string
		path        string
		headers     map[string]string
		wantCode    int
		wantBody    string
		wantHeaders map[string]string
	}{
		{
			name:     "health ignores origin",
			method:   http.MethodGet,
			path:     "/health",
			headers:  map[string]string{"Origin": "http://evil.com"},
			wantCode: http.StatusOK,
			wantBody: "healthy",
		},
		{
			name:     "mirror client sends no origin",
			method:   http.MethodPost,
			path:     "/play",
			wantCode: http.StatusOK,
			wantBody: "ws://x/socket",
		},
		{
			name:     "browser on the site lists rooms",
			method:   http.MethodGet,
			path:     "/rooms",
			headers:  map[string]string{"Origin": "https://skribbler.example"},
			wantCode: http.StatusOK,
			wantBody: "[]",
			wantHeaders: map[string]string{
				"Access-Control-Allow-Origin":      "https://skribbler.example",
				"Access-Control-Allow-Credentials": "true",
			},
		},
		{
			name:     "foreign site is refused",
			method:   http.MethodPost,
			path:     "/play",
			headers:  map[string]string{"Origin": "http://evil.com"},
			wantCode: http.StatusForbidden,
			wantBody: "forbidden origin",
			wantHeaders: map[string]string{
				"Access-Control-Allow-Origin": "",
			},
		},
		{
			name:   "preflight for play",
			method: http.MethodOptions,
			path:   "/play",
			headers: map[string]string{
				"Origin":                        "http://localhost:3000",
				"Access-Control-Request-Method": "POST",
			},
			wantCode: http.StatusNoContent,
			wantHeaders: map[string]string{
				"Access-Control-Allow-Origin":  "http://localhost:3000",
				"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tc.method, tc.path, nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			res := httptest.NewRecorder()
			r.ServeHTTP(res, req)

			assert.Equal(t, tc.wantCode, res.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, res.Body.String())
			}
			for k, v := range tc.wantHeaders {
				assert.Equal(t, v, res.Header().Get(k), k)
			}
		})
	}
}

func TestOriginChecker(t *testing.T) {
	t.Parallel()
	check := originChecker([]string{"https://skribbler.example"})

	for origin, allowed := range map[string]bool{
		"":                          true,
		"https://skribbler.example": true,
		"https://evil.example":      false,
	} {
		req := httptest.NewRequest(http.MethodGet, "/socket", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		assert.Equal(t, allowed, check(req), origin)
	}
}

func TestTicketIssuer(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ticketIssuer(configs.Config{}))

	issuer := ticketIssuer(configs.Config{JWTKey: []byte("secret"), TicketTTL: 60e9})
	require.NotNil(t, issuer)
	assert.IsType(t, &crypto.TicketManager{}, issuer)
}

type fixedWords []string

func (w fixedWords) Generate(lang, count int) []string {
	return w[:min(count, len(w))]
}

func TestBuildServer(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := configs.Config{
		AllowedOrigins:  []string{"https://skribbler.example"},
		PublicURL:       "https://skribbler.example",
		DefaultSettings: policy.DefaultSettings(0),
	}
	r := buildServer(ctx, cfg, fixedWords{"apple"})

	res := httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/rooms", nil))
	assert.Equal(t, http.StatusOK, res.Code)
	var rooms []map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &rooms))
	assert.Empty(t, rooms)

	req := httptest.NewRequest(http.MethodPost, "/play", strings.NewReader(url.Values{"lang": {"2"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res = httptest.NewRecorder()
	r.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "wss://skribbler.example/socket", res.Body.String())

	res = httptest.NewRecorder()
	r.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/rooms/nope/invite.png", nil))
	assert.Equal(t, http.StatusNotFound, res.Code)
}

type recordingSeeder struct {
	lang  int
	words []string
	err   error
}

func (s *recordingSeeder) AddWords(ctx context.Context, lang int, words []string) error {
	s.lang, s.words = lang, words
	return s.err
}

func TestSeedDictionary(t *testing.T) {
	t.Parallel()

	seeder := &recordingSeeder{lang: -1}
	require.NoError(t, seedDictionary(context.Background(), seeder, game.NewDictionary([]string{"apple", "pear"})))
	assert.Equal(t, 0, seeder.lang)
	assert.Equal(t, []string{"apple", "pear"}, seeder.words)

	empty := &recordingSeeder{lang: -1}
	require.NoError(t, seedDictionary(context.Background(), empty, game.NewDictionary(nil)))
	assert.Nil(t, empty.words)

	failing := &recordingSeeder{err: assert.AnError}
	assert.ErrorIs(t, seedDictionary(context.Background(), failing, game.LoadWords()), assert.AnError)
}

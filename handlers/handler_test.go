package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"musicapp/config"
	"musicapp/middleware"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse-battery"

func newTestApp(t *testing.T) (*fiber.App, *memStore) {
	t.Helper()
	mem := newMemStore()
	sessions := middleware.NewSessions(nil, config.SessionConfig{CookieName: "session_id", Expiration: "1h"})
	h := New(mem, sessions, log.New(io.Discard), WithPasswordCost(bcrypt.MinCost))
	return NewApp(h), mem
}

// client keeps the session cookie between requests, like a browser would.
type client struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
	userID uuid.UUID
}

func anonymous(t *testing.T, app *fiber.App) *client {
	return &client{t: t, app: app}
}

// signup registers username through the signup form and returns its logged in client.
func signup(t *testing.T, app *fiber.App, mem *memStore, username string) *client {
	t.Helper()
	c := anonymous(t, app)
	resp := c.post("/accounts/signup/", url.Values{
		"username":  {username},
		"password1": {testPassword},
		"password2": {testPassword},
	})
	require.Equal(t, fiber.StatusFound, resp.StatusCode)
	require.NotNil(t, c.cookie)

	user, err := mem.GetUserByUsername(t.Context(), username)
	require.NoError(t, err)
	c.userID = user.ID
	return c
}

func (c *client) do(req *http.Request) *http.Response {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)

	for _, ck := range resp.Cookies() {
		if ck.Name != "session_id" {
			continue
		}
		if ck.Value == "" || ck.MaxAge < 0 {
			c.cookie = nil
		} else {
			c.cookie = ck
		}
	}
	return resp
}

func (c *client) get(path string) *http.Response {
	c.t.Helper()
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *http.Response {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return c.do(req)
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func formErrors(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	errs, ok := decode(t, resp)["errors"].(map[string]any)
	require.True(t, ok)
	return errs
}

func assertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, location, resp.Header.Get(fiber.HeaderLocation))
}

func loginRedirect(path string) string {
	return middleware.LoginURL + "?next=" + url.QueryEscape(path)
}

func TestHome(t *testing.T) {
	app, mem := newTestApp(t)

	body := decode(t, anonymous(t, app).get("/"))
	assert.Equal(t, "home", body["view"])
	assert.Equal(t, false, body["authenticated"])

	alice := signup(t, app, mem, "alice")
	body = decode(t, alice.get("/"))
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, "alice", body["username"])
}

func TestHealth(t *testing.T) {
	app, mem := newTestApp(t)

	resp := anonymous(t, app).get("/healthz")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode(t, resp)["status"])

	mem.pingErr = errors.New("connection refused")
	resp = anonymous(t, app).get("/healthz")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestErrorHandler(t *testing.T) {
	app, mem := newTestApp(t)

	tests := []struct {
		name string
		path string
		code int
	}{
		{name: "Unknown Route", path: "/nowhere/", code: fiber.StatusNotFound},
		{name: "Malformed ID", path: "/songs/not-a-uuid/", code: fiber.StatusNotFound},
		{name: "Missing Song", path: "/songs/" + uuid.NewString() + "/", code: fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := anonymous(t, app).get(tt.path)
			assert.Equal(t, tt.code, resp.StatusCode)
			assert.Equal(t, "Not Found", decode(t, resp)["error"])
		})
	}

	t.Run("Store Failure", func(t *testing.T) {
		alice := signup(t, app, mem, "alice")
		mem.failErr = errors.New("disk full")
		defer func() { mem.failErr = nil }()

		resp := alice.post("/songs/new/", songForm("Title"))
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "Internal Server Error", decode(t, resp)["error"])
	})
}

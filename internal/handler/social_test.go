package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/glovo-marketplace/internal/config"
	"github.com/iliyamo/glovo-marketplace/internal/handler"
)

func TestSocialRedirect(t *testing.T) {
	e := newEcho()
	h := handler.NewSocialHandler(config.OAuthConfig{
		GitHub: config.OAuthProvider{
			ClientID:    "gh-client",
			RedirectURL: "http://localhost:8080/oauth/github/callback",
			Scopes:      []string{"read:user"},
		},
	}, false)
	e.GET("/oauth/:provider/", h.Redirect)

	req := httptest.NewRequest(http.MethodGet, "/oauth/github/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "github.com", loc.Host)
	assert.Equal(t, "/login/oauth/authorize", loc.Path)
	assert.Equal(t, "gh-client", loc.Query().Get("client_id"))
	assert.Equal(t, "http://localhost:8080/oauth/github/callback", loc.Query().Get("redirect_uri"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookies[0].Value, loc.Query().Get("state"))
	assert.True(t, cookies[0].HttpOnly)

	for _, p := range []string{"google", "twitter"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/oauth/"+p+"/", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, p)
	}
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	e := newEcho()
	e.GET("/up", handler.Health(pinger{}))
	e.GET("/down", handler.Health(pinger{err: errors.New("refused")}))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/up", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","database":"up"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/down", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

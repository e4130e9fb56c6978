package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/iliyamo/glovo-marketplace/internal/config"
)

// stateCookie carries the OAuth state so a callback can verify it.
const stateCookie = "oauth_state"

// SocialHandler redirects browsers to a social login provider.  Only the
// authorize leg is served here.
type SocialHandler struct {
	providers map[string]*oauth2.Config
	secure    bool
}

// NewSocialHandler builds one oauth2.Config per configured provider.
// Providers without a client id or redirect URL are left out and answer
// 404.
func NewSocialHandler(cfg config.OAuthConfig, secureCookies bool) *SocialHandler {
	h := &SocialHandler{providers: map[string]*oauth2.Config{}, secure: secureCookies}
	add := func(name string, p config.OAuthProvider, ep oauth2.Endpoint) {
		if !p.Configured() {
			return
		}
		h.providers[name] = &oauth2.Config{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RedirectURL:  p.RedirectURL,
			Scopes:       p.Scopes,
			Endpoint:     ep,
		}
	}
	add("github", cfg.GitHub, endpoints.GitHub)
	add("google", cfg.Google, endpoints.Google)
	return h
}

// Redirect: GET /oauth/:provider/
func (h *SocialHandler) Redirect(c echo.Context) error {
	p, ok := h.providers[c.Param("provider")]
	if !ok {
		return errorJSON(c, http.StatusNotFound, "unknown provider")
	}
	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusTemporaryRedirect, p.AuthCodeURL(state))
}

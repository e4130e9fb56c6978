package config

// OAuthProvider holds the pre-registered credentials of one social login
// provider.  RedirectURL is the callback registered with the provider.
type OAuthProvider struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Configured reports whether the provider has enough settings to build an
// authorize URL.
func (p OAuthProvider) Configured() bool {
	return p.ClientID != "" && p.RedirectURL != ""
}

// OAuthConfig is built once at startup and handed to the social login
// handler.
type OAuthConfig struct {
	GitHub OAuthProvider
	Google OAuthProvider
}

// LoadOAuthConfig reads GITHUB_* and GOOGLE_* variables.
func LoadOAuthConfig() OAuthConfig {
	return OAuthConfig{
		GitHub: OAuthProvider{
			ClientID:     getenv("GITHUB_CLIENT_ID", ""),
			ClientSecret: getenv("GITHUB_KEY", ""),
			RedirectURL:  getenv("GITHUB_URL", ""),
			Scopes:       []string{"read:user", "user:email"},
		},
		Google: OAuthProvider{
			ClientID:     getenv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getenv("GOOGLE_KEY", ""),
			RedirectURL:  getenv("GOOGLE_URL", ""),
			Scopes:       []string{"openid", "email", "profile"},
		},
	}
}

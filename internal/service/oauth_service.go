package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/chaching/backend/internal/config"
)

// GoogleUserInfo contains the identity attributes fetched from Google.
type GoogleUserInfo struct {
	Email   string
	Name    string
	Picture string
}

// Provider is the narrow interface over the OAuth code exchange and
// user-info fetch. The gate and reconciler only ever see these three
// fields, so tests can substitute a fake without network access.
type Provider interface {
	// AuthURL returns the provider's consent page URL for the given state.
	AuthURL(state string) string

	// Exchange trades an authorization code for the user's identity.
	Exchange(ctx context.Context, code string) (*GoogleUserInfo, error)
}

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type googleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a Google OAuth provider client.
func NewGoogleProvider(cfg config.AuthConfig) Provider {
	return &googleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  cfg.OAuthCallbackURL + "/auth/google/callback",
			Scopes:       []string{"email", "profile"},
		},
	}
}

func (p *googleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *googleProvider) Exchange(ctx context.Context, code string) (*GoogleUserInfo, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google API returned status %d", resp.StatusCode)
	}

	var data struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode Google user response: %w", err)
	}

	return &GoogleUserInfo{
		Email:   data.Email,
		Name:    data.Name,
		Picture: data.Picture,
	}, nil
}

var _ Provider = (*googleProvider)(nil)

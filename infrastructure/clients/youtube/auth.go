package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"

	"ytbulkedit/domain/model"
	"ytbulkedit/infrastructure/logger"
)

// Scopes grants read and write access to the channel's videos.
var Scopes = []string{youtube.YoutubeForceSslScope}

// TokenStore persists the OAuth token between runs.
type TokenStore interface {
	GetToken() (*oauth2.Token, error)
	UpsertToken(tok *oauth2.Token) error
}

// NewOAuthConfig reads credentialsFile when it exists, otherwise uses clientID and clientSecret.
// redirectURL, when set, replaces the one in the credentials file.
func NewOAuthConfig(credentialsFile, clientID, clientSecret, redirectURL string) (*oauth2.Config, error) {
	if credentialsFile != "" {
		data, err := os.ReadFile(credentialsFile)
		switch {
		case err == nil:
			cfg, err := google.ConfigFromJSON(data, Scopes...)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", credentialsFile, err)
			}
			if redirectURL != "" {
				cfg.RedirectURL = redirectURL
			}
			return cfg, nil
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to read %s: %w", credentialsFile, err)
		}
	}
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: no credentials file and no client id/secret configured", model.ErrNotConnected)
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
		Endpoint:     google.Endpoint,
	}, nil
}

// NewHTTPClient returns a client that refreshes the token on demand and saves every new token.
func NewHTTPClient(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, store TokenStore) *http.Client {
	src := &savingTokenSource{
		base:  cfg.TokenSource(ctx, tok),
		store: store,
		last:  tok.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src))
}

// savingTokenSource writes refreshed tokens to the store. A refresh failure is an auth failure.
type savingTokenSource struct {
	base  oauth2.TokenSource
	store TokenStore

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: token refresh: %v", model.ErrAuth, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if s.store != nil {
			if err := s.store.UpsertToken(tok); err != nil {
				logger.GetLogger().WithField("error", err).Warn("Failed to persist refreshed token")
			}
		}
	}
	return tok, nil
}

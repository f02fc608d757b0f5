package persistence

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/oauth2"

	"ytbulkedit/infrastructure/logger"
)

// ErrNoToken is returned when the account has not been authorized yet.
var ErrNoToken = errors.New("no saved token")

// OAuthTokenRepository keeps the OAuth token as JSON in a single file.
type OAuthTokenRepository struct {
	path string
}

func NewOAuthTokenRepository(path string) *OAuthTokenRepository {
	return &OAuthTokenRepository{path: path}
}

func (r *OAuthTokenRepository) Path() string { return r.path }

func (r *OAuthTokenRepository) GetToken() (*oauth2.Token, error) {
	var tok oauth2.Token
	if err := readJSON(r.path, &tok); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoToken
		}
		return nil, err
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, ErrNoToken
	}
	return &tok, nil
}

// UpsertToken replaces the saved token. The file is private to the user.
func (r *OAuthTokenRepository) UpsertToken(tok *oauth2.Token) error {
	if err := writeJSONAtomic(r.path, tok, ""); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return os.Chmod(r.path, 0o600)
}

// Rotate copies the token to <path>.bak and removes it so the next connect re-authorizes.
func (r *OAuthTokenRepository) Rotate() error {
	src, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open token: %w", err)
	}
	defer src.Close()

	w, err := NewAtomicWriter(r.path + ".bak")
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, src); err != nil {
		_ = w.Abort()
		return fmt.Errorf("failed to back up token: %w", err)
	}
	if err := w.Commit(); err != nil {
		return err
	}
	if err := os.Remove(r.path); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	logger.GetLogger().WithField("backup", r.path+".bak").Info("Token rotated")
	return nil
}

package http

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"ytbulkedit/infrastructure/logger"
)

// IYouTubeAuthHandler defines the interface for YouTube authentication handlers
type IYouTubeAuthHandler interface {
	GetAuthURL(ctx *gin.Context)
	HandleCallback(ctx *gin.Context)
	Status(ctx *gin.Context)
}

// TokenSaver persists the token obtained by the callback.
type TokenSaver interface {
	GetToken() (*oauth2.Token, error)
	UpsertToken(tok *oauth2.Token) error
}

// YouTubeAuthHandler runs the installed-app OAuth2 flow.
type YouTubeAuthHandler struct {
	oauth2Config *oauth2.Config
	tokens       TokenSaver
	state        string

	once sync.Once
	done chan *oauth2.Token
}

// NewYouTubeAuthHandler creates a new YouTube auth handler
func NewYouTubeAuthHandler(cfg *oauth2.Config, tokens TokenSaver) *YouTubeAuthHandler {
	return &YouTubeAuthHandler{
		oauth2Config: cfg,
		tokens:       tokens,
		state:        generateRandomState(),
		done:         make(chan *oauth2.Token, 1),
	}
}

// AuthURL is the consent page the user must open.
func (h *YouTubeAuthHandler) AuthURL() string {
	return h.oauth2Config.AuthCodeURL(h.state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Done yields the token once the first callback has been saved.
func (h *YouTubeAuthHandler) Done() <-chan *oauth2.Token { return h.done }

// GetAuthURL handles GET /auth/youtube
func (h *YouTubeAuthHandler) GetAuthURL(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"auth_url": h.AuthURL(),
	})
}

// HandleCallback handles GET /auth/youtube/callback
func (h *YouTubeAuthHandler) HandleCallback(ctx *gin.Context) {
	// Check for OAuth error first
	if errorParam := ctx.Query("error"); errorParam != "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":       fmt.Sprintf("OAuth error: %s", errorParam),
			"description": ctx.Query("error_description"),
		})
		return
	}

	if state := ctx.Query("state"); state != h.state {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":  "State parameter mismatch",
			"action": "Visit /auth/youtube to start over",
		})
		return
	}

	code := ctx.Query("code")
	if code == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Authorization code not found",
		})
		return
	}

	token, err := h.oauth2Config.Exchange(ctx.Request.Context(), code)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to exchange code for token",
			"message": err.Error(),
		})
		return
	}
	if err := h.tokens.UpsertToken(token); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save token",
			"message": err.Error(),
		})
		return
	}
	logger.GetLogger().WithField("expiry", token.Expiry).Info("YouTube account authorized")

	h.once.Do(func() { h.done <- token })
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Authentication successful. You can close this window.",
	})
}

// Status handles GET /api/youtube/oauth/status
func (h *YouTubeAuthHandler) Status(ctx *gin.Context) {
	tok, err := h.tokens.GetToken()
	if err != nil {
		ctx.JSON(http.StatusOK, gin.H{"connected": false, "message": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"connected":         true,
		"has_refresh_token": tok.RefreshToken != "",
		"expiry":            tok.Expiry,
	})
}

// generateRandomState generates a random state parameter for OAuth2
func generateRandomState() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

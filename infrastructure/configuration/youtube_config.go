package configuration

import (
	"fmt"
	"os"
	"strings"
)

// YouTubeConfig is the resolved OAuth client configuration.
type YouTubeConfig struct {
	ClientID        string
	ClientSecret    string
	RedirectURL     string
	CredentialsFile string
	TokenFile       string
	AccessToken     string
	RefreshToken    string
}

// GetYouTubeConfig resolves the client configuration: environment, then config, then default.
func GetYouTubeConfig(c *Config) *YouTubeConfig {
	paths := c.Paths()
	defaultRedirect := fmt.Sprintf("http://localhost:%d/auth/youtube/callback", c.App.Port)
	return &YouTubeConfig{
		ClientID:        getConfigValue(c.YouTube.ClientID, "YOUTUBE_CLIENT_ID", ""),
		ClientSecret:    getConfigValue(c.YouTube.ClientSecret, "YOUTUBE_CLIENT_SECRET", ""),
		RedirectURL:     getConfigValue(c.YouTube.RedirectURI, "YOUTUBE_REDIRECT_URL", defaultRedirect),
		CredentialsFile: getConfigValue(c.YouTube.CredentialsFile, "YOUTUBE_CREDENTIALS_FILE", paths.Credentials),
		TokenFile:       getConfigValue(c.YouTube.TokenFile, "YOUTUBE_TOKEN_FILE", paths.Token),
		// Seed tokens for a token file that does not exist yet.
		AccessToken:  getEnv("YOUTUBE_ACCESS_TOKEN", ""),
		RefreshToken: getEnv("YOUTUBE_REFRESH_TOKEN", ""),
	}
}

// getConfigValue gets value from environment first, then config, then default.
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	// Placeholders such as YOUR_CLIENT_ID count as unset.
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

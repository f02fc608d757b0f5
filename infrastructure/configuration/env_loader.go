package configuration

import (
	"errors"
	"os"

	"github.com/joho/godotenv"

	"ytbulkedit/infrastructure/logger"
)

// LoadEnvFromFile loads KEY=VALUE files such as .env and config.env.
// Missing files are skipped and variables already set in the environment win.
func LoadEnvFromFile(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{"file": p, "error": err}).Warn("Failed to load env file")
		}
	}
}

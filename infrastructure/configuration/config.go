package configuration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"ytbulkedit/domain/model"
	"ytbulkedit/infrastructure/logger"
)

type Config struct {
	App     App         `json:"app"`
	YouTube YouTube     `json:"youtube"`
	Files   Files       `json:"files"`
	Batch   Batch       `json:"batch"`
	Quota   Quota       `json:"quota"`
	Cache   Cache       `json:"cache"`
	Redis   RedisClient `json:"redis"`
	Logger  Logger      `json:"logger"`
}

type App struct {
	Host           string   `json:"host"`
	Port           int      `json:"port"`
	SecretKey      string   `json:"secretKey"`
	AllowedOrigins []string `json:"allowedOrigins"`
}

type YouTube struct {
	ClientID        string `json:"clientId"`
	ClientSecret    string `json:"clientSecret"`
	RedirectURI     string `json:"redirectURI"`
	CredentialsFile string `json:"credentialsFile"`
	TokenFile       string `json:"tokenFile"`
}

// Files locates the state directory. Every state file lives under it with its historical name.
type Files struct {
	StateDir string `json:"stateDir"`
}

type Batch struct {
	UpdatePacing  time.Duration `json:"updatePacing"`
	RestorePacing time.Duration `json:"restorePacing"`
	RetryBackoff  time.Duration `json:"retryBackoff"`
	MaxRetries    int           `json:"maxRetries"`
}

type Quota struct {
	DailyLimit int            `json:"dailyLimit"`
	Costs      map[string]int `json:"costs"`
}

type Cache struct {
	// Backend is "file" or "redis".
	Backend   string        `json:"backend"`
	Freshness time.Duration `json:"freshness"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
	KeyPrefix    string `json:"keyPrefix"`
}

type Logger struct {
	Level  string `json:"level"`
	ToFile bool   `json:"toFile"`
}

var C Config

const envPrefix = "YTBULK"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.host", "127.0.0.1")
	v.SetDefault("app.port", 10001)
	v.SetDefault("app.secretKey", "")
	v.SetDefault("app.allowedOrigins", []string{"http://localhost", "http://127.0.0.1"})
	v.SetDefault("youtube.clientId", "")
	v.SetDefault("youtube.clientSecret", "")
	v.SetDefault("youtube.redirectURI", "")
	v.SetDefault("youtube.credentialsFile", "")
	v.SetDefault("youtube.tokenFile", "")
	v.SetDefault("files.stateDir", ".")
	v.SetDefault("batch.updatePacing", "2s")
	v.SetDefault("batch.restorePacing", "1s")
	v.SetDefault("batch.retryBackoff", "5s")
	v.SetDefault("batch.maxRetries", 1)
	v.SetDefault("quota.dailyLimit", model.DefaultDailyQuota)
	v.SetDefault("quota.costs", model.DefaultCosts())
	v.SetDefault("cache.backend", "file")
	v.SetDefault("cache.freshness", "24h")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.databaseName", "0")
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.keyPrefix", "ytbulkedit")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.toFile", false)
}

// LoadConfig reads .env files, then config.json (or config-<ENV>.json, or configPath when given),
// then YTBULK_* environment overrides. The result is stored in C and returned.
func LoadConfig(configPath string) (*Config, error) {
	LoadEnvFromFile(".env", "config.env")

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	name := getConfig()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(name)
		v.SetConfigType("json")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".ytbulkedit"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		logger.GetLogger().WithField("config", name).Debug("Config file not found, using defaults")
	} else {
		logger.GetLogger().WithField("config", v.ConfigFileUsed()).Info("Config set up successfully")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("viper unable to decode into struct: %w", err)
	}
	initApp(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	C = cfg
	return &C, nil
}

func getConfig() string {
	name := "config"
	if env := os.Getenv("ENV"); env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(c *Config) {
	// SECRET_KEY overrides the config file for JWT verification.
	if v := os.Getenv("SECRET_KEY"); v != "" {
		c.App.SecretKey = v
	}
	// Port resolution order: APP_PORT -> PORT -> config -> default.
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.App.Port = p
		}
	}
	if c.App.Port == 0 {
		c.App.Port = 10001
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logger.Level = v
	}
	if v := os.Getenv("LOG_TO_FILE"); v != "" {
		c.Logger.ToFile = v == "1" || strings.EqualFold(v, "true")
	}
	if c.Files.StateDir == "" {
		c.Files.StateDir = "."
	}
}

func validate(c *Config) error {
	switch c.Cache.Backend {
	case "file", "redis":
	default:
		return fmt.Errorf("invalid cache.backend %q: expected file or redis", c.Cache.Backend)
	}
	if c.Batch.MaxRetries < 0 {
		return fmt.Errorf("invalid batch.maxRetries %d", c.Batch.MaxRetries)
	}
	if c.Quota.DailyLimit <= 0 {
		return fmt.Errorf("invalid quota.dailyLimit %d", c.Quota.DailyLimit)
	}
	return nil
}

// Paths returns the state file locations, honoring token and credential overrides.
func (c *Config) Paths() model.Paths {
	p := model.DefaultPaths(c.Files.StateDir)
	if c.YouTube.TokenFile != "" {
		p.Token = c.YouTube.TokenFile
	}
	if c.YouTube.CredentialsFile != "" {
		p.Credentials = c.YouTube.CredentialsFile
	}
	return p
}

// RedisDB parses the configured database index. Anything unparsable selects database 0.
func (r RedisClient) RedisDB() int {
	n, err := strconv.Atoi(r.DatabaseName)
	if err != nil {
		return 0
	}
	return n
}

func (r RedisClient) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

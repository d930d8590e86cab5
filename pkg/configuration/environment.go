package configuration

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/iota-uz/utils/fs"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/hr-console/pkg/logging"
)

const Production = "production"

const (
	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
)

func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if fs.FileExists(file) {
			existingFiles = append(existingFiles, file)
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

type APIOptions struct {
	URL     string        `env:"API_URL" envDefault:"http://localhost:5000/api"`
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"0"`
	// Every outgoing request carries a fresh uuidv4 under this header.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
}

type SessionOptions struct {
	Backend      string `env:"SESSION_BACKEND" envDefault:"file"` // file or redis
	Path         string `env:"SESSION_PATH,expand" envDefault:"${HOME}/.hrconsole/session.json"`
	Key          string `env:"SESSION_KEY" envDefault:"token"`
	RedisURL     string `env:"SESSION_REDIS_URL"`
	RedisChannel string `env:"SESSION_REDIS_CHANNEL" envDefault:"hrconsole:session"`
}

// Validate checks the session backend configuration for errors
func (s *SessionOptions) Validate() error {
	backend := strings.ToLower(strings.TrimSpace(s.Backend))
	switch backend {
	case SessionBackendFile:
		if strings.TrimSpace(s.Path) == "" {
			return fmt.Errorf("session Path is required when Backend is 'file'")
		}
	case SessionBackendRedis:
		if s.RedisURL == "" {
			return fmt.Errorf("session RedisURL is required when Backend is 'redis'")
		}
	default:
		return fmt.Errorf("session Backend must be 'file' or 'redis', got '%s'", s.Backend)
	}
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("session Key must not be empty")
	}
	s.Backend = backend
	return nil
}

type PrometheusOptions struct {
	PushgatewayURL string `env:"PROMETHEUS_PUSHGATEWAY_URL"`
	Job            string `env:"PROMETHEUS_JOB" envDefault:"hrconsole"`
}

type Configuration struct {
	API        APIOptions
	Session    SessionOptions
	Prometheus PrometheusOptions

	PageSize  int           `env:"PAGE_SIZE" envDefault:"10"`
	BannerTTL time.Duration `env:"BANNER_TTL" envDefault:"3s"`
	ServeAddr string        `env:"SERVE_ADDR" envDefault:"localhost:3200"`

	// Servers that do not assign department identifiers need the client to
	// pick max(existing)+10. Off by default: the server owns identifiers.
	LegacyClientIDs bool `env:"LEGACY_CLIENT_IDS" envDefault:"false"`

	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string `env:"LOG_PATH"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`

	logFile *os.File
	logger  *logrus.Logger
}

// New loads the given env files (missing ones are skipped) and parses the
// process environment into a fresh Configuration.
func New(envFiles ...string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 && len(envFiles) > 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.Session.Validate(); err != nil {
		return fmt.Errorf("session configuration error: %w", err)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("invalid PAGE_SIZE=%d (expected a positive integer)", c.PageSize)
	}
	if c.BannerTTL < 0 {
		return fmt.Errorf("invalid BANNER_TTL=%s (expected a non-negative duration)", c.BannerTTL)
	}

	if c.LogPath == "" {
		c.logger = logging.ConsoleLogger(c.LogrusLogLevel())
		return nil
	}
	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger
	return nil
}

func (c *Configuration) validateAPI() error {
	raw := strings.TrimSpace(c.API.URL)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API_URL=%q (expected an absolute http(s) URL)", c.API.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API_URL=%q (expected http or https)", c.API.URL)
	}
	c.API.URL = strings.TrimRight(raw, "/")
	return nil
}

// Unload handles a graceful shutdown.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
		c.logFile = nil
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, read from the environment
type Config struct {
	Port      int    `env:"PORT" envDefault:"3000"`
	Host      string `env:"HOST" envDefault:"0.0.0.0"`
	StaticDir string `env:"STATIC_DIR"` // serve assets from disk instead of the embedded copy

	// Question source: QUESTIONS_FILE wins over Mongo, the embedded list is the fallback
	QuestionsFile   string `env:"QUESTIONS_FILE"`
	MongoURI        string `env:"MONGO_URI"`
	MongoDatabase   string `env:"MONGO_DATABASE" envDefault:"ascendant"`
	QuestionsSurvey string `env:"QUESTIONS_SURVEY" envDefault:"ascendant-protocol"`

	// Sessions live in Redis when set, in process memory otherwise
	RedisURI      string        `env:"REDIS_URI"`
	SessionSecret string        `env:"SESSION_SECRET" envDefault:"ascendant-dev-secret-change-me"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	Debug          bool   `env:"DEBUG" envDefault:"false"`
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// ParseEnv fills target from the environment
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the optional .env files, then the environment. A missing .env is
// not an error; variables already set in the environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET must not be empty")
	}
	return nil
}

// Addr is the listen address
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

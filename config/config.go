package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// InsecureJWTSecret is the fallback signing secret used when JWT_SECRET is unset.
const InsecureJWTSecret = "change-me-in-production"

const (
	SortInsertion = "insertion"
	SortAuthor    = "author"
)

type Config struct {
	Production bool       `yaml:"production" envconfig:"PRODUCTION"`
	Server     Server     `yaml:"server"`
	Mongo      Mongo      `yaml:"mongo"`
	JWTSecret  string     `yaml:"jwt_secret" envconfig:"JWT_SECRET"`
	Pagination Pagination `yaml:"pagination"`
	Log        Log        `yaml:"log"`
}

type Server struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            string        `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SERVER_SHUTDOWN_TIMEOUT"`
	CORSOrigins     []string      `yaml:"cors_origins" envconfig:"CORS_ORIGINS"`
}

type Mongo struct {
	URI            string        `yaml:"uri" envconfig:"MONGODB_URI"`
	DBName         string        `yaml:"db" envconfig:"MONGODB_DB"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" envconfig:"MONGODB_CONNECT_TIMEOUT"`
}

// Pagination selects how GET /api/books pages its results.
// FirstPage is 1 for one-based page numbers or 0 for zero-based ones.
type Pagination struct {
	FirstPage    int    `yaml:"first_page" envconfig:"PAGE_FIRST"`
	DefaultLimit int    `yaml:"default_limit" envconfig:"PAGE_DEFAULT_LIMIT"`
	MaxLimit     int    `yaml:"max_limit" envconfig:"PAGE_MAX_LIMIT"`
	Sort         string `yaml:"sort" envconfig:"PAGE_SORT"`
}

type Log struct {
	Level zapcore.Level `yaml:"level" envconfig:"LOG_LEVEL"`
}

// Default returns the configuration used when nothing else is provided.
func Default() Config {
	return Config{
		Server: Server{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Mongo: Mongo{
			URI:            "mongodb://localhost:27017",
			DBName:         "books",
			ConnectTimeout: 10 * time.Second,
		},
		JWTSecret: InsecureJWTSecret,
		Pagination: Pagination{
			FirstPage:    1,
			DefaultLimit: 10,
			MaxLimit:     100,
			Sort:         SortInsertion,
		},
		Log: Log{Level: zapcore.InfoLevel},
	}
}

// Load builds the config from defaults, then the optional YAML file at path,
// then a .env file in the working directory, then the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("dotenv: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	cfg.Pagination.Sort = strings.ToLower(strings.TrimSpace(cfg.Pagination.Sort))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return yaml.NewDecoder(f).Decode(cfg)
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Mongo.URI == "" || c.Mongo.DBName == "" {
		return fmt.Errorf("mongodb uri and db name are required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if c.Production && c.InsecureSecret() {
		return fmt.Errorf("JWT_SECRET must be set to a strong secret in production")
	}
	p := c.Pagination
	if p.FirstPage != 0 && p.FirstPage != 1 {
		return fmt.Errorf("pagination first_page must be 0 or 1, got %d", p.FirstPage)
	}
	if p.DefaultLimit <= 0 || p.MaxLimit < p.DefaultLimit {
		return fmt.Errorf("pagination limits invalid: default %d, max %d", p.DefaultLimit, p.MaxLimit)
	}
	if p.Sort != SortInsertion && p.Sort != SortAuthor {
		return fmt.Errorf("pagination sort must be %q or %q, got %q", SortInsertion, SortAuthor, p.Sort)
	}
	return nil
}

// InsecureSecret reports whether tokens are signed with the built-in fallback secret.
func (c *Config) InsecureSecret() bool {
	return c.JWTSecret == InsecureJWTSecret
}

func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

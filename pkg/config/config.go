// Package config loads the retailreboot configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/retailreboot/config.toml
// (~/.config/retailreboot/config.toml when XDG_CONFIG_HOME is unset). A
// missing file is not an error: every field has a default.
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[dataset]
//	path = "~/retail/q3.xlsx"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/retailreboot/retailreboot/pkg/errors"
)

// AppName is used for config and cache directories.
const AppName = "retailreboot"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config is the full configuration file.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Cache   CacheConfig   `toml:"cache"`
	Render  RenderConfig  `toml:"render"`
	Dataset DatasetConfig `toml:"dataset"`
	Neo4j   Neo4jConfig   `toml:"neo4j"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
	TTL           Duration `toml:"ttl"`
}

type RenderConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type DatasetConfig struct {
	Path string `toml:"path"`
}

// Neo4jConfig enables loading the network from a graph database. It is
// used only when URI is set.
type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
}

// Enabled reports whether a Neo4j source is configured.
func (c Neo4jConfig) Enabled() bool { return c.URI != "" }

// Duration is a time.Duration written as a string ("24h") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Cache: CacheConfig{
			Backend:       BackendFile,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: AppName,
			TTL:           Duration{24 * time.Hour},
		},
		Render: RenderConfig{Width: 600, Height: 300},
		Neo4j:  Neo4jConfig{Database: "neo4j"},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/retailreboot/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads the config file at path, or at [Path] when path is empty.
// Values missing from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			err = cfg.finish()
			return cfg, err
		}
		path = p
	}

	_, err := toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No config file; defaults apply.
	case errors.Is(err, fs.ErrNotExist):
		return cfg, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config %s", path)
	default:
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if err := cfg.finish(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// finish fills derived defaults and validates the result.
func (c *Config) finish() error {
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = BackendFile
	case BackendFile, BackendRedis, BackendMongo, BackendNone:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"invalid cache backend: %q (must be one of: file, redis, mongo, none)", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendFile && c.Cache.Dir == "" {
		dir, err := CacheDir()
		if err != nil {
			return fmt.Errorf("cache dir: %w", err)
		}
		c.Cache.Dir = dir
	}
	c.Cache.Dir = ExpandHome(c.Cache.Dir)
	c.Dataset.Path = ExpandHome(c.Dataset.Path)
	if c.Render.Width < 0 || c.Render.Height < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "render size must not be negative")
	}
	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}

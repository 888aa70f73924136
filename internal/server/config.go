package server

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tablekit/tablekit/pkg/errors"
)

// Default configuration values.
const (
	// DefaultAddr is the default listen address.
	DefaultAddr = ":8080"

	// DefaultReadTimeout bounds reading a request, including the body.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout bounds writing a response. Reshapes of large
	// datasets run within this window.
	DefaultWriteTimeout = 60 * time.Second

	// DefaultMaxBodyBytes caps uploaded dataset size.
	DefaultMaxBodyBytes = 32 << 20 // 32 MB

	// DefaultDatabase is the MongoDB database name.
	DefaultDatabase = "tablekit"
)

// Store backend names.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// ValidStoreBackends is the set of supported store backends.
var ValidStoreBackends = map[string]bool{
	StoreMemory: true,
	StoreMongo:  true,
}

// Cache backend names.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// ValidCacheBackends is the set of supported cache backends.
var ValidCacheBackends = map[string]bool{
	CacheNone:  true,
	CacheFile:  true,
	CacheRedis: true,
}

// Config contains all configuration for the HTTP service.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// StoreConfig selects and configures the dataset store.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// CacheConfig selects and configures the reshape result cache. Scope, when
// set, prefixes every cache key so that several deployments can share one
// Redis without seeing each other's entries.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	URL     string `toml:"url"`
	Scope   string `toml:"scope"`
}

// Duration wraps time.Duration so TOML values can be written as "30s" or
// "1m30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// DefaultConfig returns the configuration used when no file is given:
// memory store, no cache, default listener settings.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// LoadConfig reads a TOML configuration file, applies defaults, and
// validates the result. An empty path returns [DefaultConfig].
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read config %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyDefaults fills unset fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(DefaultReadTimeout)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(DefaultWriteTimeout)
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Store.Backend == "" {
		c.Store.Backend = StoreMemory
	}
	if c.Store.Database == "" {
		c.Store.Database = DefaultDatabase
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheNone
	}
}

// Validate checks backend names and their required settings.
func (c *Config) Validate() error {
	if !ValidStoreBackends[c.Store.Backend] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid store backend: %q (expected memory or mongo)", c.Store.Backend)
	}
	if c.Store.Backend == StoreMongo && c.Store.URI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "store.uri is required for the mongo backend")
	}

	if !ValidCacheBackends[c.Cache.Backend] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid cache backend: %q (expected none, file, or redis)", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheFile && c.Cache.Dir == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.dir is required for the file backend")
	}
	if c.Cache.Backend == CacheRedis && c.Cache.URL == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache.url is required for the redis backend")
	}
	return nil
}

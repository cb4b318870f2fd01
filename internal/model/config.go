package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Index        IndexConfig        `yaml:"index" mapstructure:"index"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
	Rarity       RarityConfig       `yaml:"rarity" mapstructure:"rarity"`
}

// ServerConfig controls the JSON-RPC listener
type ServerConfig struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	MaxConnections  int           `yaml:"max_connections" mapstructure:"max_connections"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// IndexConfig selects the ownership index
type IndexConfig struct {
	Backend  string      `yaml:"backend" mapstructure:"backend"` // "file" or "redis"
	File     string      `yaml:"file" mapstructure:"file"`
	SatIndex bool        `yaml:"sat_index" mapstructure:"sat_index"`
	Redis    RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig is the connection to the redis index
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	Prefix   string `yaml:"prefix" mapstructure:"prefix"`
}

// CacheConfig controls index lookup caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitingConfig is the per-client request budget of the RPC server
type RateLimitingConfig struct {
	Enabled           bool    `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`

	// Clients overrides the budget of individual client addresses
	Clients []ClientRateConfig `yaml:"clients,omitempty" mapstructure:"clients"`
}

// ClientRateConfig is the request budget of one client address
type ClientRateConfig struct {
	Client            string  `yaml:"client" mapstructure:"client"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig bounds parallel index lookups per request
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LogConfig controls the structured logger
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	Format     string `yaml:"format" mapstructure:"format"` // "json" or "console"
	File       string `yaml:"file" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
}

// RarityConfig toggles optional rarity kinds
type RarityConfig struct {
	Taproot bool `yaml:"taproot" mapstructure:"taproot"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            "127.0.0.1:8645",
			MaxConnections:  256,
			MaxBodyBytes:    1 << 20,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Index: IndexConfig{
			Backend:  "file",
			File:     "index.yaml",
			SatIndex: true,
			Redis: RedisConfig{
				Addr:   "127.0.0.1:6379",
				Prefix: "satrarity",
			},
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 5 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitingConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			BurstSize:         40,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 8,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

package config

import "time"

// Config holds process configuration. Values are layered from defaults,
// an optional YAML file and PARLAMETRO_-prefixed environment variables.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir holds the SQLite database file.
	DataDir string `koanf:"data_dir"`

	// Redis connection for the shared cache and distributed rate limiting.
	// When RedisAddr is empty both fall back to in-process implementations.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// GlobalAverageTTLSeconds is how long the cached global average score
	// is served before being recomputed.
	GlobalAverageTTLSeconds int `koanf:"global_average_ttl_seconds"`

	// IPLimitPerMin caps requests per client IP per minute.
	IPLimitPerMin int `koanf:"ip_limit_per_min"`

	Policy Policy `koanf:"policy"`
}

// GlobalAverageTTL returns the cache TTL as a duration.
func (c *Config) GlobalAverageTTL() time.Duration {
	return time.Duration(c.GlobalAverageTTLSeconds) * time.Second
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		Addr:                    ":8080",
		DataDir:                 "./data",
		RedisDB:                 0,
		GlobalAverageTTLSeconds: 86400,
		IPLimitPerMin:           60,
		Policy:                  DefaultPolicy(),
	}
}

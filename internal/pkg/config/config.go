package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=5000"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	JWTSecret string `env:"JWT_SECRET, required"`

	Auth   AuthConfig
	Posts  PostsConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Server ServerConfig
}

type AuthConfig struct {
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=10h"`
	Header     string        `env:"AUTH_HEADER, default=x-auth-token"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
}

type PostsConfig struct {
	// ExclusiveReactions makes a like clear the user's dislike and vice versa.
	ExclusiveReactions bool `env:"EXCLUSIVE_REACTIONS, default=false"`
	// MutationWorkers is the number of shards serializing writes per post.
	// Zero disables serialization.
	MutationWorkers int `env:"MUTATION_WORKERS, default=8"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=devconnector"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type ServerConfig struct {
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}

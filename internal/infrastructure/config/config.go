// Package config loads process configuration from the environment with
// go-envconfig. The client gateway and the backend API have separate
// top-level structs; both panic on malformed environments since nothing
// useful can run without them.
package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Client configures the booknest gateway binary.
type Client struct {
	Port     string `env:"PORT,       default=3000"`
	Env      string `env:"ENV,        default=development"`
	LogLevel string `env:"LOG_LEVEL,  default=info"`

	// PublicURL is the address the payment provider redirects back to.
	PublicURL string `env:"PUBLIC_URL, default=http://localhost:3000"`

	// BackendURL is the bookstore API this client talks to.
	BackendURL string `env:"BACKEND_URL, default=http://localhost:8080"`

	// TokenFile persists the session token between runs.
	TokenFile string `env:"TOKEN_FILE, default=.booknest-session"`

	ImageHost ImageHostConfig
}

// ImageHostConfig points at the external image-hosting service.
type ImageHostConfig struct {
	URL    string `env:"IMAGE_HOST_URL, default=http://localhost:8081"`
	APIKey string `env:"IMAGE_HOST_KEY"`
}

// Server configures the booknest-apid backend binary.
type Server struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// ClientURL is where the simulated federated sign-in flow redirects
	// back to.
	ClientURL string `env:"CLIENT_URL, default=http://localhost:3000"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=booknest"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// LoadClient reads the gateway configuration from the environment.
func LoadClient() *Client {
	var cfg Client
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// LoadServer reads the backend configuration from the environment.
func LoadServer() *Server {
	var cfg Server
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

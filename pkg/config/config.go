package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration, parsed from the environment.
type Config struct {
	Port        string      `env:"PORT" envDefault:"8080"`
	Env         string      `env:"ENV" envDefault:"development"`
	JWTSecret   string      `env:"JWT_SECRET" envDefault:"supersecretjwtkey"`
	Mongo       Mongo       `envPrefix:"MONGO_"`
	SMTP        SMTP        `envPrefix:"SMTP_"`
	Cloudinary  Cloudinary  `envPrefix:"CLOUDINARY_"`
	Suggestions Suggestions `envPrefix:"SUGGESTIONS_"`
}

// Mongo contains MongoDB connection parameters.
type Mongo struct {
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"anonfeed"`
}

// SMTP contains mail relay parameters for verification emails.
type SMTP struct {
	Host     string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port     int    `env:"PORT" envDefault:"465"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM"`
}

// Cloudinary contains image CDN credentials. The backend only deletes
// uploaded references; uploads happen client-side.
type Cloudinary struct {
	URL string `env:"URL"`
}

// Suggestions points at the feed prompt file served by suggest-feeds.
type Suggestions struct {
	Path string `env:"PATH" envDefault:"suggest_feeds.json"`
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

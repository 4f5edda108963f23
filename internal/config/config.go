// Package config loads service settings from the environment and an optional config file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config holds the runtime settings for the API and the importer.
type Config struct {
	Port          int
	StorageDriver string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string

	SpotifyClientID     string
	SpotifyClientSecret string
	SpotifyMaxRetries   int
	SpotifyRetryBackoff time.Duration

	WorkerCount     int
	WorkerQueueSize int

	MixDefaultMaxTracks int
	MixFullKeyWheel     bool
}

// SpotifyEnabled reports whether provider credentials were supplied.
func (c Config) SpotifyEnabled() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8080)
	v.SetDefault("STORAGE_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_PATH", "remixense.db")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "remixense")
	v.SetDefault("SPOTIFY_MAX_RETRIES", 3)
	v.SetDefault("SPOTIFY_RETRY_BACKOFF_MS", 500)
	v.SetDefault("WORKER_COUNT", 2)
	v.SetDefault("WORKER_QUEUE_SIZE", 100)
	v.SetDefault("MIX_DEFAULT_MAX_TRACKS", 4)
	v.SetDefault("MIX_FULL_KEY_WHEEL", false)
}

// Load reads defaults, then configFile when non-empty, then environment
// variables, later sources winning.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	cfg := Config{
		Port:                v.GetInt("PORT"),
		StorageDriver:       v.GetString("STORAGE_DRIVER"),
		SQLitePath:          v.GetString("SQLITE_PATH"),
		MongoURI:            v.GetString("MONGO_URI"),
		MongoDatabase:       v.GetString("MONGO_DATABASE"),
		SpotifyClientID:     v.GetString("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: v.GetString("SPOTIFY_CLIENT_SECRET"),
		SpotifyMaxRetries:   v.GetInt("SPOTIFY_MAX_RETRIES"),
		SpotifyRetryBackoff: time.Duration(v.GetInt("SPOTIFY_RETRY_BACKOFF_MS")) * time.Millisecond,
		WorkerCount:         v.GetInt("WORKER_COUNT"),
		WorkerQueueSize:     v.GetInt("WORKER_QUEUE_SIZE"),
		MixDefaultMaxTracks: v.GetInt("MIX_DEFAULT_MAX_TRACKS"),
		MixFullKeyWheel:     v.GetBool("MIX_FULL_KEY_WHEEL"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	switch c.StorageDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	case DriverMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			errs = append(errs, errors.New("MONGO_URI and MONGO_DATABASE are required for the mongo driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}
	if (c.SpotifyClientID == "") != (c.SpotifyClientSecret == "") {
		errs = append(errs, errors.New("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set together"))
	}
	if c.SpotifyMaxRetries < 1 {
		errs = append(errs, errors.New("SPOTIFY_MAX_RETRIES must be at least 1"))
	}
	if c.SpotifyRetryBackoff <= 0 {
		errs = append(errs, errors.New("SPOTIFY_RETRY_BACKOFF_MS must be positive"))
	}
	if c.WorkerCount < 1 || c.WorkerQueueSize < 1 {
		errs = append(errs, errors.New("WORKER_COUNT and WORKER_QUEUE_SIZE must be at least 1"))
	}
	if c.MixDefaultMaxTracks < 2 {
		errs = append(errs, errors.New("MIX_DEFAULT_MAX_TRACKS must be at least 2"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

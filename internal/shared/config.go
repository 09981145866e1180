package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Store       StoreConfig       `toml:"store"`
	Matching    MatchingConfig    `toml:"matching"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	AccessToken  string `toml:"access_token"`
}

// Map returns the credentials as a string map for service construction.
func (c SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
		"redirect_uri":  c.RedirectURI,
		"access_token":  c.AccessToken,
	}
}

// YouTubeConfig contains YouTube Music proxy settings.
type YouTubeConfig struct {
	ProxyURL  string `toml:"proxy_url"`
	AuthFile  string `toml:"auth_file"`
	Privacy   string `toml:"privacy"`
	ExtraNote string `toml:"description"`
}

// StoreConfig contains migration state store settings.
type StoreConfig struct {
	Path string `toml:"path"`
}

// MatchingConfig contains track matching and throttling settings.
type MatchingConfig struct {
	DurationTolerance float64 `toml:"duration_tolerance"`
	Threshold         float64 `toml:"threshold"`
	SearchLimit       int     `toml:"search_limit"`
	DelaySeconds      float64 `toml:"delay_seconds"`
}

// DatabaseConfig contains match cache database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads a .env file if one exists and applies environment variable
// overrides for credentials on top of the given config.
//
// Recognized variables: SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET,
// SPOTIFY_REDIRECT_URI, YT_PROXY_URL, YT_AUTH_FILE.
func LoadEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		config.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		config.Credentials.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REDIRECT_URI"); v != "" {
		config.Credentials.Spotify.RedirectURI = v
	}
	if v := os.Getenv("SPOTIFY_ACCESS_TOKEN"); v != "" {
		config.Credentials.Spotify.AccessToken = v
	}
	if v := os.Getenv("YT_PROXY_URL"); v != "" {
		config.Credentials.YouTube.ProxyURL = v
	}
	if v := os.Getenv("YT_AUTH_FILE"); v != "" {
		config.Credentials.YouTube.AuthFile = v
	}
}

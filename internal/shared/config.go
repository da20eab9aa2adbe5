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
	Profile     ProfileConfig     `toml:"profile"`
	Scoring     ScoringConfig     `toml:"scoring"`
	Matching    MatchingConfig    `toml:"matching"`
	Discovery   DiscoveryConfig   `toml:"discovery"`
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Export      ExportConfig      `toml:"export"`
}

// ProfileConfig describes the target sound candidates are scored against.
type ProfileConfig struct {
	Name            string   `toml:"name"`
	Genres          []string `toml:"genres"`
	BPMLow          float64  `toml:"bpm_low"`
	BPMHigh         float64  `toml:"bpm_high"`
	Artists         []string `toml:"artists"`
	Labels          []string `toml:"labels"`
	ReferenceTracks []string `toml:"reference_tracks"`
	KeyPreferences  []string `toml:"key_preferences"`
}

// ScoringConfig contains the weights and bands of the style-compatibility score.
type ScoringConfig struct {
	BPMWeight    float64 `toml:"bpm_weight"`
	LabelWeight  float64 `toml:"label_weight"`
	ArtistWeight float64 `toml:"artist_weight"`
	BPMTolerance float64 `toml:"bpm_tolerance"`
	Neutral      float64 `toml:"neutral"`
}

// MatchingConfig contains normalization and near-duplicate matching settings.
type MatchingConfig struct {
	Annotations   []string `toml:"annotations"`
	EditDistance  int      `toml:"edit_distance"`
	BPMFloor      float64  `toml:"bpm_floor"`
	BPMCeiling    float64  `toml:"bpm_ceiling"`
	SecondaryPass bool     `toml:"secondary_pass"`
}

// DiscoveryConfig contains per-source discovery settings.
type DiscoveryConfig struct {
	SourceLimit    int     `toml:"source_limit"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	Retries        int     `toml:"retries"`
	RateLimit      float64 `toml:"rate_limit"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Perplexity PerplexityConfig `toml:"perplexity"`
	Beatport   BeatportConfig   `toml:"beatport"`
}

// PerplexityConfig contains Perplexity API credentials.
type PerplexityConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// BeatportConfig contains Beatport API credentials.
type BeatportConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ExportConfig contains playlist export settings.
type ExportConfig struct {
	Directory string `toml:"directory"`
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
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnvCredentials reads a .env file when present and fills in any credential
// fields the TOML config left empty. Environment variables win over the file.
func (c *Config) LoadEnvCredentials() {
	_ = godotenv.Load()

	if c.Credentials.Perplexity.APIKey == "" {
		c.Credentials.Perplexity.APIKey = os.Getenv("PERPLEXITY_API_KEY")
	}
	if c.Credentials.Beatport.ClientID == "" {
		c.Credentials.Beatport.ClientID = os.Getenv("BEATPORT_CLIENT_ID")
	}
	if c.Credentials.Beatport.ClientSecret == "" {
		c.Credentials.Beatport.ClientSecret = os.Getenv("BEATPORT_CLIENT_SECRET")
	}
}

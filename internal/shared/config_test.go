package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./autodj.db" {
			t.Errorf("expected database path ./autodj.db, got %s", config.Database.Path)
		}

		if config.Profile.Name == "" {
			t.Error("expected a default profile name")
		}
		if len(config.Profile.Genres) == 0 {
			t.Error("expected default profile genres")
		}
		if config.Profile.BPMLow >= config.Profile.BPMHigh {
			t.Errorf("expected valid BPM range, got %.1f-%.1f", config.Profile.BPMLow, config.Profile.BPMHigh)
		}

		total := config.Scoring.BPMWeight + config.Scoring.LabelWeight + config.Scoring.ArtistWeight
		if total < 0.99 || total > 1.01 {
			t.Errorf("expected scoring weights to sum to 1.0, got %.2f", total)
		}

		if config.Matching.EditDistance != 2 {
			t.Errorf("expected edit distance 2, got %d", config.Matching.EditDistance)
		}
		if len(config.Matching.Annotations) == 0 {
			t.Error("expected default annotation list")
		}

		if config.Discovery.SourceLimit != 25 {
			t.Errorf("expected source limit 25, got %d", config.Discovery.SourceLimit)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[profile]
name = "Test Profile"
genres = ["tech house"]
bpm_low = 118.0
bpm_high = 126.0
artists = ["John Summit"]
labels = ["Insomniac Records"]

[scoring]
bpm_weight = 0.5
label_weight = 0.3
artist_weight = 0.2
bpm_tolerance = 8.0
neutral = 0.5

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[credentials.perplexity]
api_key = "test_key"
model = "test-model"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Profile.Name != "Test Profile" {
			t.Errorf("expected profile name Test Profile, got %s", config.Profile.Name)
		}
		if config.Scoring.BPMWeight != 0.5 {
			t.Errorf("expected bpm weight 0.5, got %f", config.Scoring.BPMWeight)
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected custom database path, got %s", config.Database.Path)
		}
		if config.Credentials.Perplexity.APIKey != "test_key" {
			t.Errorf("expected perplexity key test_key, got %s", config.Credentials.Perplexity.APIKey)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("LoadEnvCredentials", func(t *testing.T) {
		t.Setenv("PERPLEXITY_API_KEY", "env_perplexity")
		t.Setenv("BEATPORT_CLIENT_ID", "env_client")
		t.Setenv("BEATPORT_CLIENT_SECRET", "env_secret")

		config := DefaultConfig()
		config.LoadEnvCredentials()

		if config.Credentials.Perplexity.APIKey != "env_perplexity" {
			t.Errorf("expected env perplexity key, got %s", config.Credentials.Perplexity.APIKey)
		}
		if config.Credentials.Beatport.ClientID != "env_client" {
			t.Errorf("expected env beatport client, got %s", config.Credentials.Beatport.ClientID)
		}

		// TOML values win over environment
		config = DefaultConfig()
		config.Credentials.Perplexity.APIKey = "from_toml"
		config.LoadEnvCredentials()

		if config.Credentials.Perplexity.APIKey != "from_toml" {
			t.Errorf("config value should not be overwritten, got %s", config.Credentials.Perplexity.APIKey)
		}
	})
}

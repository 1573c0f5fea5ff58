package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the full walletbridge configuration
type Config struct {
	Wallet     WalletConfig     `json:"wallet"`
	Connection ConnectionConfig `json:"connection"`
	UI         UIConfig         `json:"ui"`
}

// WalletConfig contains wallet node settings
type WalletConfig struct {
	// Endpoint is the JSON-RPC endpoint of the wallet provider bridge
	Endpoint string `json:"endpoint"`
	// ChainID is the expected chain, hex-encoded (BSC mainnet is 0x38)
	ChainID string `json:"chainId"`
	// ProbeTimeoutMs bounds a single phase probe
	ProbeTimeoutMs int `json:"probeTimeoutMs"`
}

// ConnectionConfig contains connection flow settings
type ConnectionConfig struct {
	// StaleAfterMinutes is how long a successful connection stays fresh
	StaleAfterMinutes int `json:"staleAfterMinutes"`
	// MinStageMs is the minimum visible duration of an in-progress phase
	MinStageMs int `json:"minStageMs"`
}

// UIConfig contains display settings
type UIConfig struct {
	// TimeFormat is the Go layout used for timeline timestamps
	TimeFormat string `json:"timeFormat"`
	// ShowTimeline opens the timeline view on startup
	ShowTimeline bool `json:"showTimeline"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Wallet: WalletConfig{
			Endpoint:       "http://127.0.0.1:8545",
			ChainID:        "0x38", // BSC mainnet
			ProbeTimeoutMs: 5000,
		},
		Connection: ConnectionConfig{
			StaleAfterMinutes: 15,
			MinStageMs:        600,
		},
		UI: UIConfig{
			TimeFormat:   "15:04:05",
			ShowTimeline: false,
		},
	}
}

// LoadConfig loads configuration with priority:
// 1. .walletbridge.json in the given directory
// 2. config.json in the user config directory
// 3. Defaults
func LoadConfig(dir string) (*Config, error) {
	localPath := filepath.Join(dir, ".walletbridge.json")
	if data, err := os.ReadFile(localPath); err == nil {
		cfg, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", localPath, err)
		}
		return MergeWithDefaults(cfg), nil
	}

	if userPath, err := userConfigPath(); err == nil {
		if data, err := os.ReadFile(userPath); err == nil {
			cfg, err := parse(data)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", userPath, err)
			}
			return MergeWithDefaults(cfg), nil
		}
	}

	return DefaultConfig(), nil
}

// SaveConfig saves configuration to the specified path
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeWithDefaults fills in missing values with defaults
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if cfg.Wallet.Endpoint == "" {
		cfg.Wallet.Endpoint = defaults.Wallet.Endpoint
	}
	if cfg.Wallet.ChainID == "" {
		cfg.Wallet.ChainID = defaults.Wallet.ChainID
	}
	if cfg.Wallet.ProbeTimeoutMs == 0 {
		cfg.Wallet.ProbeTimeoutMs = defaults.Wallet.ProbeTimeoutMs
	}

	if cfg.Connection.StaleAfterMinutes == 0 {
		cfg.Connection.StaleAfterMinutes = defaults.Connection.StaleAfterMinutes
	}
	if cfg.Connection.MinStageMs == 0 {
		cfg.Connection.MinStageMs = defaults.Connection.MinStageMs
	}

	if cfg.UI.TimeFormat == "" {
		cfg.UI.TimeFormat = defaults.UI.TimeFormat
	}

	return cfg
}

// Load is a convenience function that loads config from the current directory
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadConfig(cwd)
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// userConfigPath is a variable holding the function that returns the path to
// the user-level config file. This allows it to be overridden in tests.
var userConfigPath = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "walletbridge", "config.json"), nil
}

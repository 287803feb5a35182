// Package config loads the vaultd daemon's on-disk configuration, creating
// a default file on first run if none exists.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the full vaultd daemon configuration.
type Config struct {
	ListenAddress string `toml:"ListenAddress"`
	DataDir       string `toml:"DataDir"`
	LogPath       string `toml:"LogPath"`
	LogLevel      string `toml:"LogLevel"`

	SnapshotFile string `toml:"SnapshotFile"`

	Policy PolicyConfig `toml:"Policy"`
	Limits LimitsConfig `toml:"Limits"`
}

// PolicyConfig holds CR policy and initial oracle values for the config
// file. cmd/vaultd does not read it: without a snapshot the daemon waits for
// /v1/admin/initialize, which takes these values from its request body.
type PolicyConfig struct {
	MinCRBps              uint64 `toml:"MinCRBps"`
	TargetCRBps           uint64 `toml:"TargetCRBps"`
	InitialSolUsdPrice    uint64 `toml:"InitialSolUsdPrice"`
	InitialLstToSolRate   uint64 `toml:"InitialLstToSolRate"`
}

// LimitsConfig seeds the admin rate limiter (§9 supplemented feature: the
// source's gateway rate-limits mutation routes, vaultd mutates a single
// shared ledger so it limits mutation calls per caller the same way).
type LimitsConfig struct {
	AdminRatePerSecond float64 `toml:"AdminRatePerSecond"`
	AdminBurst         int    `toml:"AdminBurst"`
}

// Load reads the config at path, writing a default file if none exists yet.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8090"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./vaultd-data"
	}
	if cfg.SnapshotFile == "" {
		cfg.SnapshotFile = cfg.DataDir + "/snapshot.rlp"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Limits.AdminRatePerSecond == 0 {
		cfg.Limits.AdminRatePerSecond = 5
	}
	if cfg.Limits.AdminBurst == 0 {
		cfg.Limits.AdminBurst = 10
	}
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		ListenAddress: ":8090",
		DataDir:       "./vaultd-data",
		SnapshotFile:  "./vaultd-data/snapshot.rlp",
		LogPath:       "./vaultd-data/vaultd.log",
		LogLevel:      "info",
		Policy: PolicyConfig{
			MinCRBps:            11_000,
			TargetCRBps:         15_000,
			InitialSolUsdPrice:  150_000_000, // $150.00 at 1e6 precision
			InitialLstToSolRate: 1_050_000_000,
		},
		Limits: LimitsConfig{
			AdminRatePerSecond: 5,
			AdminBurst:         10,
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("config: create %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, fmt.Errorf("config: write default %s: %w", path, err)
	}
	return cfg, nil
}

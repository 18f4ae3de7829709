// Package config loads server configuration from environment variables
// and carries the concurrency tuning knobs for high load.
package config

import (
	"runtime"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable of the casa server.
type Config struct {
	ListenAddr   string  `env:"CASA_LISTEN_ADDR"    envDefault:":8080"`
	DBPath       string  `env:"CASA_DB_PATH"        envDefault:"casa.db"`
	TickRate     int     `env:"CASA_TICK_RATE"      envDefault:"60"`
	AudioEnabled bool    `env:"CASA_AUDIO_ENABLED"  envDefault:"false"`
	MasterVolume float64 `env:"CASA_MASTER_VOLUME"  envDefault:"0.8"`

	// Channel buffer sizes - larger = more memory, less blocking
	ActionChannelBuffer    int `env:"CASA_ACTION_BUFFER"    envDefault:"64"`
	BroadcastChannelBuffer int `env:"CASA_BROADCAST_BUFFER" envDefault:"256"`
	ClientSendBuffer       int `env:"CASA_CLIENT_BUFFER"    envDefault:"64"`

	// Database connections
	DBMaxOpenConns int `env:"CASA_DB_MAX_OPEN"`
	DBMaxIdleConns int `env:"CASA_DB_MAX_IDLE"`

	// Snapshot broadcast cadence (frames per second sent to clients)
	SnapshotRate int `env:"CASA_SNAPSHOT_RATE" envDefault:"30"`
}

// Load parses the environment into a Config, filling CPU-derived defaults
// for anything unset.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}

	numCPU := runtime.NumCPU()
	if cfg.DBMaxOpenConns == 0 {
		cfg.DBMaxOpenConns = numCPU * 4
	}
	if cfg.DBMaxIdleConns == 0 {
		cfg.DBMaxIdleConns = numCPU * 2
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.SnapshotRate <= 0 {
		cfg.SnapshotRate = 30
	}
	return cfg, nil
}

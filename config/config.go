package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/nguyenphuquang1234567/diep-new/protocol"
)

// Config is the runtime configuration shared by the relay and peer binaries.
// Flags given on the command line override these values.
type Config struct {
	Addr       string // relay listen address
	StaticDir  string // client files served at /
	PublicURL  string // join URL encoded in /qr.png
	LedgerPath string // sqlite file, empty for in-memory
	TuningFile string // TOML balance overrides
	RelayURL   string // websocket URL peers dial
	SnapshotHz int
	InputHz    int
}

// Defaults returns the configuration used when nothing is set
func Defaults() Config {
	return Config{
		Addr:       ":3000",
		StaticDir:  "./public",
		RelayURL:   "ws://localhost:3000/ws",
		SnapshotHz: protocol.SnapshotHz,
		InputHz:    protocol.InputHz,
	}
}

// Load reads an optional .env file, then the environment
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded (%v)", err)
	}
	cfg := Defaults()
	cfg.apply()
	return cfg
}

// LoadFile is Load with an explicit .env path
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	cfg := Defaults()
	cfg.apply()
	return cfg, nil
}

func (c *Config) apply() {
	setString(&c.Addr, "ADDR")
	setString(&c.StaticDir, "STATIC_DIR")
	setString(&c.PublicURL, "PUBLIC_URL")
	setString(&c.LedgerPath, "LEDGER_PATH")
	setString(&c.TuningFile, "TUNING_FILE")
	setString(&c.RelayURL, "RELAY_URL")
	setRate(&c.SnapshotHz, "SNAPSHOT_HZ")
	setRate(&c.InputHz, "INPUT_HZ")
}

// GetEnvVariable returns a required environment variable
func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}
	return b, nil
}

func setString(dst *string, key string) {
	if v, err := GetEnvVariable(key); err == nil {
		*dst = v
	}
}

// setRate keeps the default for values that are not a positive rate
// no faster than the simulation
func setRate(dst *int, key string) {
	v, err := GetEnvVariable(key)
	if err != nil {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > protocol.SimTickHz {
		log.Printf("config: ignoring %s=%q", key, v)
		return
	}
	*dst = n
}

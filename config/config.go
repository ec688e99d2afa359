// Package config decodes the server's config.json into a Config. It is
// intentionally thin and untested — loading configuration is out of
// this server's tested scope, but cmd/beacon still needs a working
// loader to start the process.
package config

import (
	"encoding/json"
	"os"

	"github.com/hearthvale/beacon/proto/play"
	"github.com/hearthvale/beacon/proto/status"
)

// Config is the decoded contents of config.json, field-for-field with
// the original's config.rs.
type Config struct {
	ServerBrand         string          `json:"server_brand"`
	JoinGameData        play.JoinGameData `json:"join_game_data"`
	SpawnPoint          [3]float64      `json:"spawn_point"`
	MapFile             string          `json:"map_file"`
	Status              status.Response `json:"status"`
	ModernForwardingKey *string         `json:"modern_forwarding_key,omitempty"`
}

// Load reads and decodes a config.json file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

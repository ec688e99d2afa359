// Command beacon starts the server: load config.json and its map
// template, build the shared store, and listen for connections.
package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/hearthvale/beacon/config"
	"github.com/hearthvale/beacon/server"
	"github.com/hearthvale/beacon/store"
	"github.com/hearthvale/beacon/world"
)

func main() {
	configPath := flag.String("config", "config.json", "path to config.json")
	addr := flag.String("addr", server.DefaultAddr, "listen address")
	flag.Parse()

	log := newLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	mapFile, err := os.Open(cfg.MapFile)
	if err != nil {
		log.WithError(err).Fatal("failed to open map file")
	}
	defer mapFile.Close()

	log.Info("loading chunks...")
	tmpl, err := world.LoadTemplate(mapFile)
	if err != nil {
		log.WithError(err).Fatal("failed to parse map template")
	}
	log.Info("world ready")

	st := store.New(cfg, tmpl)
	srv := server.New(st, log)

	if err := srv.ListenAndServe(*addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

// newLogger builds the process's logger, reading its level from
// BEACON_LOG (trace|debug|info|warn|error), the Go-native analogue of
// RUST_LOG for this server.
func newLogger() *logrus.Logger {
	log := logrus.New()
	level := logrus.InfoLevel
	if v := os.Getenv("BEACON_LOG"); v != "" {
		if parsed, err := logrus.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	log.SetLevel(level)
	return log
}

package main

import (
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/beyond-expertise/backend/internal/api"
	"github.com/beyond-expertise/backend/internal/catalog"
	"github.com/beyond-expertise/backend/internal/config"
	"github.com/beyond-expertise/backend/internal/engine"
	"github.com/beyond-expertise/backend/internal/textnorm"
	"github.com/beyond-expertise/backend/internal/watcher"
)

func main() {
	// Setup Logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	entry := logger.WithField("service", "formation-engine")

	entry.Info("Starting Formation Engine API Service")

	// 1. Config
	cfg := config.Load()

	// 2. Normalizer (built-in wordlists plus optional overlay)
	wordlists, err := config.LoadWordlists(cfg.Catalog.WordlistsPath)
	if err != nil {
		entry.WithError(err).Warn("Wordlists overlay unusable, using built-in lists")
		wordlists = &config.Wordlists{}
	}
	normalizer := textnorm.New(wordlists.ExtraExclusions, wordlists.ExtraStopWords)

	// 3. Corpus loader
	loader := catalog.NewLoader(cfg.Catalog.Dir, cfg.Catalog.RegistryPath, entry)

	// 4. Engine (cache-aware index build + first snapshot)
	eng := engine.NewEngine(cfg, entry, loader, normalizer)
	if err := eng.Start(); err != nil {
		entry.Fatalf("Failed to start engine: %v", err)
	}

	// 5. Catalog watcher
	if cfg.Watch.Enabled {
		w, err := watcher.New(eng, entry, cfg.Watch.Debounce)
		if err != nil {
			entry.WithError(err).Warn("Catalog watcher unavailable")
		} else {
			w.Start(cfg.Catalog.Dir, filepath.Dir(cfg.Catalog.RegistryPath))
			defer w.Stop()
		}
	}

	// 6. API Server
	server := api.NewServer(eng, entry)

	entry.Infof("Formation Engine API ready on %s", cfg.Server.Addr)
	if err := server.Start(cfg.Server.Addr); err != nil {
		entry.Fatal(err)
	}
}

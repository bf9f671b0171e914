package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/scamjob-detector/internal/catalog"
	"github.com/jonathan/scamjob-detector/internal/config"
	"github.com/jonathan/scamjob-detector/internal/detector"
	"github.com/jonathan/scamjob-detector/internal/preview"
	"github.com/jonathan/scamjob-detector/internal/server"
	"github.com/jonathan/scamjob-detector/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Start the HTTP server hosting the prediction form and the link preview tool.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	// The form cannot render without its option lists; a bad catalog is fatal.
	cat, err := catalog.Load(cfg.CatalogDir)
	if err != nil {
		return fmt.Errorf("failed to load option catalog: %w", err)
	}

	var sessions session.Store
	if cfg.RedisURL != "" {
		store, err := session.NewRedisStore(cmd.Context(), cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return fmt.Errorf("failed to connect session store: %w", err)
		}
		defer func() { _ = store.Close() }()
		sessions = store
		log.Println("[session] using redis store")
	} else {
		store := session.NewMemoryStore(cfg.SessionTTL)
		defer store.Stop()
		sessions = store
		log.Println("[session] using in-memory store")
	}

	srv, err := server.New(server.Config{
		Port:     cfg.Port,
		Catalog:  cat,
		Detector: detector.NewClient(cfg.PredictorBaseURL, cfg.RequestTimeout),
		Sessions: sessions,
		Previews: preview.NewFetcher(&preview.Options{
			Timeout:      cfg.PreviewTimeout,
			AllowBrowser: cfg.PreviewBrowser,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

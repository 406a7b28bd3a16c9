package main

import (
	"github.com/spf13/cobra"

	"github.com/NicXVII/analisiPortafoglio/internal/httpapi"
)

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the evaluation API over HTTP",
	Long: `Serve the JSON API: POST /v1/evaluate, POST /v1/override,
GET /v1/overrides, GET /healthz and Prometheus metrics on /metrics.

Example:
  portfolio serve --listen :8090`,
	RunE: runServe,
}

var serveListen string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (defaults to config server.listen_addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	eng, cfg, err := buildEngine(cmd.Context(), "")
	if err != nil {
		return err
	}

	addr := serveListen
	if addr == "" {
		addr = cfg.Server.ListenAddr
	}
	return httpapi.NewServer(eng).ListenAndServe(addr)
}

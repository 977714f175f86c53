// Package server assembles a weave HTTP server from a configuration.
//
// It owns the render pipeline (renderer, composer and island registry),
// mounts the partial dispatcher, instruments requests and renders with
// Prometheus and optionally OpenTelemetry, and serves pages registered
// with Page or StreamPage.
//
//	cfg, _ := config.Load(".")
//	srv := server.New(cfg, cfg.Logger(os.Stderr))
//	srv.Page("/", site.Page)
//	err := srv.Run(ctx)
package server

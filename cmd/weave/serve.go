package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/weave/examples/jokes"
	"github.com/vango-dev/weave/internal/config"
	"github.com/vango-dev/weave/pkg/assets"
	"github.com/vango-dev/weave/pkg/server"
)

type serveOptions struct {
	dir     string
	addr    string
	stream  bool
	latency time.Duration
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo site",
		Long: `Serve the jokes demo site.

Configuration is read from weave.json and .env in --dir, then from
WEAVE_* environment variables. Flags override both.

Examples:
  weave serve
  weave serve --addr :8080 --stream`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "Project directory")
	cmd.Flags().StringVarP(&opts.addr, "addr", "a", "", "Listen address (overrides config)")
	cmd.Flags().BoolVar(&opts.stream, "stream", false, "Flush the document head before the body renders")
	cmd.Flags().DurationVar(&opts.latency, "latency", 150*time.Millisecond, "Simulated joke backend latency")

	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := config.Load(opts.dir)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Addr = opts.addr
	}
	logger := cfg.Logger(os.Stderr)

	printBanner()
	if cfg.Path() == "" {
		warn("No %s found, using defaults", config.ConfigFileName)
	}

	srv := server.New(cfg, logger)
	site := jokes.New(cfg.PartialPrefix, opts.latency)
	manifest, err := assets.Fingerprint(jokes.Static)
	if err != nil {
		return err
	}
	site.UseAssets(assets.NewResolver(manifest, "/static/"))
	srv.Static("/static", manifest.FS(jokes.Static))
	if opts.stream {
		srv.StreamPage("/", site.Page)
	} else {
		srv.Page("/", site.Page)
	}

	success("Listening on %s", cfg.Addr)
	info("Partials: %s", cfg.PartialPrefix)
	if cfg.MetricsEnabled() {
		info("Metrics:  %s", cfg.MetricsPath)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

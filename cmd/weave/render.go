package main

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/weave/examples/jokes"
	"github.com/vango-dev/weave/internal/config"
	"github.com/vango-dev/weave/pkg/server"
)

func renderCmd() *cobra.Command {
	var (
		dir    string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the demo page to a file or stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return runRender(cmd.Context(), dir, w)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Project directory")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file")

	return cmd
}

func runRender(ctx context.Context, dir string, w io.Writer) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	srv := server.New(cfg, cfg.Logger(os.Stderr))
	site := jokes.New(cfg.PartialPrefix, 0)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return err
	}
	page, err := site.Page(req)
	if err != nil {
		return err
	}
	_, err = srv.Composer().Write(ctx, w, page)
	return err
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/weave/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦ ╦┌─┐┌─┐┬  ┬┌─┐
  ║║║├┤ ├─┤└┐┌┘├┤
  ╚╩╝└─┘┴ ┴ └┘ └─┘
`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, cliError(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "weave",
		Short: "Server-side HTML composition for Go",
		Long: `Weave renders component trees to HTML on the server.

Components may be asynchronous; their output is stitched back in
document order. Scoped styles are collected per render, failing
subtrees are replaced by comments, and partials can be refreshed
over HTTP without a page reload.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		renderCmd(),
		configCmd(),
		explainCmd(),
		versionCmd(),
	)
	return rootCmd
}

// cliError attaches a code to errors cobra reports for unknown commands.
func cliError(err error) error {
	if errors.CodeOf(err) == "" && strings.HasPrefix(err.Error(), "unknown command") {
		return errors.New(errors.CodeUnknownCommand).WithDetail(err.Error())
	}
	return err
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

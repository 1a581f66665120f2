package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/usestring/filterkit/pkg/mcpsrv"
)

var (
	filtersFile   string
	documentFiles []string
	logLevel      string
)

var rootCmd = &cobra.Command{
	Use:           "filterkit <command>",
	Short:         "Paged, sorted and faceted queries over JSON documents",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&filtersFile, "filters", "f", "", "filter config file, TOML or JSON (default $FILTERS_FILE)")
	rootCmd.PersistentFlags().StringSliceVarP(&documentFiles, "documents", "d", nil, "JSON or NDJSON document files, added to $DOCUMENTS (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default $LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(queryCmd)
}

// newServer builds the server from flags layered over the environment.
func newServer(ctx context.Context, extra ...mcpsrv.Option) (*mcpsrv.Server, error) {
	opts := []mcpsrv.Option{
		mcpsrv.WithFiltersFile(filtersFile),
		mcpsrv.WithDocumentFiles(documentFiles...),
		mcpsrv.WithLogLevel(logLevel),
	}
	return mcpsrv.NewServer(ctx, append(opts, extra...)...)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "filterkit:", err)
		os.Exit(1)
	}
}

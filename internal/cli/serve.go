package cli

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/subcommands"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/api"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/config"
)

// serveCmd runs the HTTP API.
type serveCmd struct {
	cfg config.Config
	log *slog.Logger

	port string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the report API over HTTP" }
func (*serveCmd) Usage() string {
	return `stocktax serve [-port <port>]

  Accepts statement uploads and builds reports in the background.
  Requires STOCKTAX_API_KEY.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.port, "port", c.cfg.Port, "Port to listen on.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := c.cfg
	cfg.Port = c.port
	if err := cfg.ValidateServer(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := api.Run(ctx, cfg, c.log); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

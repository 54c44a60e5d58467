// Entry point for the PlantUML language server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marcuscaisey/puml/puml/preview"
	"github.com/marcuscaisey/puml/pumlls/jsonrpc"
	"github.com/marcuscaisey/puml/pumlls/lsp"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		var exitErr *jsonrpc.ExitError
		switch {
		case errors.As(err, &exitErr):
			os.Exit(exitErr.Code)
		case errors.Is(err, errDiagnosticsReported):
			os.Exit(1)
		default:
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

// app holds the state shared by all commands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	cmd := &cobra.Command{
		Use:   "pumlls",
		Short: "PlantUML language server",
		Long: `pumlls serves the Language Server Protocol for PlantUML documents, reading from stdin and writing to stdout.

Its subcommands check documents and build previews without a language server client.`,
		Version:       lsp.Version(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			if err := setUpLogging(cmd.ErrOrStderr(), cfg.Log.Level); err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/pumlls/pumlls.yaml or ./pumlls.yaml)")
	flags.String("server", preview.DefaultServer, "PlantUML server which renders previews")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	_ = a.v.BindPFlag("server", flags.Lookup("server"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	cmd.AddCommand(a.newLintCmd(), a.newURLCmd(), a.newPreviewCmd())
	return cmd
}

func (a *app) serve(in io.Reader, out io.Writer) error {
	slog.Info("Starting PlantUML language server. Reading from stdin, writing to stdout.", "version", lsp.Version())
	server := jsonrpc.NewServer(in, out)
	handler := lsp.NewHandler(server.Client(), lsp.WithPreviewServer(a.cfg.Server))
	if err := server.Serve(handler); err != nil {
		var exitErr *jsonrpc.ExitError
		if !errors.As(err, &exitErr) {
			slog.Error("Something went wrong", "error", err.Error())
		}
		return err
	}
	return nil
}

func setUpLogging(w io.Writer, level string) error {
	var slogLevel slog.Level
	if err := slogLevel.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("setting up logging: invalid log level %q", level)
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(handler))
	return nil
}

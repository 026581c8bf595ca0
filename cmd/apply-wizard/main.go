// apply-wizard: Approved Premises application MCP server
//
// An MCP server that walks a caseworker through an Approved Premises
// placement application page by page, and an assessor through its review.
//
// Usage:
//
//	apply-wizard serve            # Start MCP server (stdio transport)
//	apply-wizard graph            # Print the form outline and check its links
//	apply-wizard seed <file>      # Load reference data from a YAML file
//	apply-wizard version
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/HendryAvila/apply-wizard/internal/config"
	"github.com/HendryAvila/apply-wizard/internal/refdata"
	wizardserver "github.com/HendryAvila/apply-wizard/internal/server"
)

const appName = "apply-wizard"

func main() {
	if err := rootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand that needs configuration.
type globalFlags struct {
	configPath string
	dataDir    string
	logLevel   string
}

// load reads the config file and applies flag overrides on top.
func (f *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	cfg.Merge(&config.Config{
		DataDir: f.dataDir,
		Log:     config.LogConfig{Level: f.logLevel},
	})
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func rootCmd(out io.Writer) *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Approved Premises application wizard MCP server",
		Long: `apply-wizard serves the Approved Premises application and assessment
forms over MCP. Each page is shown, validated and saved through tools;
progress, reviews and submission follow the form's task list.

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "apply-wizard": {
        "command": "apply-wizard",
        "args": ["serve"]
      }
    }
  }`,
		SilenceUsage: true,
	}
	cmd.SetOut(out)

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML); defaults to $"+config.EnvConfigPath)
	cmd.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "Directory holding the SQLite databases")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(serveCmd(flags), graphCmd(), seedCmd(flags))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", appName, wizardserver.Version)
		},
	})
	return cmd
}

func serveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	// Stdout carries the MCP protocol; logs go to stderr.
	logger := cfg.Log.Logger(os.Stderr)

	s, cleanup, err := wizardserver.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.ServeStdio(s) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	}
}

func seedCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Load reference data (OASys sections, case notes, documents) from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			seed, err := refdata.LoadSeed(args[0])
			if err != nil {
				return err
			}
			source, err := refdata.OpenSource(cfg.DataDir)
			if err != nil {
				return err
			}
			defer source.Close()

			n, err := seed.Apply(cmd.Context(), source)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d reference data entries into %s\n", n, cfg.DataDir)
			return nil
		},
	}
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nilszeilon/promptimg/internal/api"
	"github.com/nilszeilon/promptimg/internal/config"
	"github.com/nilszeilon/promptimg/internal/logging"
)

type options struct {
	configPath string
	logLevel   string
	server     string
	token      string

	cfg config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "promptimg",
		Short:         "Find and build image references in prompt text",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			if opts.token != "" {
				cfg.Token = opts.token
			}
			opts.cfg = cfg
			return logging.Setup(cfg.LogLevel, cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.server, "server", "", "use a promptimg server instead of working locally")
	flags.StringVar(&opts.token, "token", "", "bearer token for --server (default $"+config.EnvToken+")")

	root.AddCommand(
		newExtractCmd(opts),
		newEncodeCmd(opts),
		newPreviewCmd(opts),
		newWatchCmd(opts),
		newI18nCmd(opts),
	)
	return root
}

// client returns nil when commands should run locally.
func (o *options) client() *api.Client {
	if o.server == "" {
		return nil
	}
	return api.NewClient(o.server, o.cfg.Token)
}

// readInput reads the named file, or stdin for "-" or no argument.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	return string(data), nil
}

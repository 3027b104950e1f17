package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/grove-zk/cmd"
	"github.com/mattsolo1/grove-zk/cmd/config"
	"github.com/mattsolo1/grove-zk/pkg/service"
)

func main() {
	if err := newCLI().execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli is the root command together with the service it opens on demand.
type cli struct {
	root *cobra.Command
	svc  *service.Service
}

// execute runs the command tree. The service is closed afterwards whether or
// not the command succeeded; cobra skips post-run hooks after a failure.
func (c *cli) execute() error {
	err := c.root.Execute()
	if c.svc != nil {
		if closeErr := c.svc.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close service: %w", closeErr))
		}
	}
	return err
}

func newCLI() *cli {
	var (
		c                 = &cli{}
		workspaceOverride string
		cfgFile           string
		verbose           bool
	)

	rootCmd := &cobra.Command{
		Use:           "zk",
		Short:         "Zettelkasten command-line tool",
		Long:          `zk creates Zettelkasten workspaces and writes notes into them, inline or through your editor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&workspaceOverride, "zk-directory", "d", "", "Override the workspace directory")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/zk/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.PersistentPreRunE = func(command *cobra.Command, args []string) error {
		// This runs once before any subcommand
		if err := config.InitConfig(cfgFile); err != nil {
			return err
		}
		if !cmd.NeedsService(command) {
			return nil
		}
		settings := config.LoadSettings()

		logger, err := config.NewLogger(settings.LogLevel, verbose, command.ErrOrStderr())
		if err != nil {
			return err
		}

		c.svc, err = config.InitService(settings, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize service: %w", err)
		}
		return nil
	}

	// Add subcommands
	rootCmd.AddCommand(cmd.NewInitCmd(&c.svc, &workspaceOverride))
	rootCmd.AddCommand(cmd.NewNewCmd(&c.svc, &workspaceOverride))
	rootCmd.AddCommand(cmd.NewListCmd(&c.svc, &workspaceOverride))
	rootCmd.AddCommand(cmd.NewWorkspaceCmd(&c.svc))
	rootCmd.AddCommand(cmd.NewConfigCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	c.root = rootCmd
	return c
}

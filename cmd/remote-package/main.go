// remote-package is a thin CLI over the identification library: it points
// the library at URLs or local files and prints what they turn out to be.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmeister2/remote-package/internal/config"
	"github.com/cmeister2/remote-package/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCommand()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		logger.Logger().Errorf("%v", err)
		logger.Sync()
		return 1
	}
	logger.Sync()
	return 0
}

// app carries the loaded configuration to the subcommands.
type app struct {
	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	var (
		cfgPath string
		verbose bool
	)
	a := &app{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:   "remote-package",
		Short: "Identify remote deb and rpm packages without downloading them fully",
		Long: `remote-package sniffs the format of a package stream from its leading
bytes and reads its name, version, architecture and revision, over HTTP or
from local files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(verbose); err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			if cfgPath != "" {
				cfg, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				a.cfg = cfg
			}
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newIdentifyCommand(a))
	cmd.AddCommand(newFetchCommand(a))
	return cmd
}

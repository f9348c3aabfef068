package main

import (
	"fmt"
	"os"

	segmenter "github.com/next-exp/segmenter_go/pkg"
	"github.com/spf13/cobra"
)

var (
	logger         Logger
	VerbosityLevel int
)

func init() {
	logger = NewLogger(os.Stdout, os.Stderr)
}

func newRootCommand() *cobra.Command {
	var configFilename string

	rootCmd := &cobra.Command{
		Use:           "segmenter",
		Short:         "Split raw detector events into one sub-event per trigger window",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configuration, err := LoadConfiguration(configFilename)
			if err != nil {
				return err
			}
			return run(configuration)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configFilename, "config", "c", "", "Configuration file path")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			configuration, err := LoadConfiguration(configFilename)
			if err != nil {
				return err
			}
			printConfiguration(configuration, logger)
			return configuration.Validate()
		},
	}
	rootCmd.AddCommand(configCmd)
	return rootCmd
}

func main() {
	segmenter.SetLogger(logger)
	if err := newRootCommand().Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func verboseInfo(format string, a ...any) {
	if VerbosityLevel > 0 {
		logger.Info(fmt.Sprintf(format, a...), "main")
	}
}

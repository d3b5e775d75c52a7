package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/propstore/layout"
	"github.com/wippyai/propstore/notify"
)

var (
	verbose bool

	// newLogger builds the logger installed by --verbose.
	newLogger = zap.NewDevelopment
)

var rootCmd = &cobra.Command{
	Use:   "propinspect",
	Short: "Inspect property layouts and the live/cached double buffer",
	Long: `propinspect packs the layouts of the built-in scene hierarchy and shows
where every property lives in the fixed-size and reference regions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			return nil
		}
		l, err := newLogger()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		layout.SetLogger(l)
		notify.SetLogger(l)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log layout packing and publish activity (property registration runs at program start, before flags are parsed, and is not logged)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package main is the entry point for the pomo CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/pomo/internal/control"
	"github.com/LISSConsulting/pomo/internal/event"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pomo",
		Short:         "Pomodoro timer for the terminal",
		Long:          "pomo cycles through work and break sessions, counting down in place in the terminal.\nPress p to pause or resume and q to quit.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return executeTimer(cmd.Context(), cfg, pidPath(cmd))
		},
	}

	root.PersistentFlags().String("config", "", "path to pomo.toml (default: ./pomo.toml, then the user config dir)")
	root.PersistentFlags().String("pidfile", "", "pidfile used by pause and stop (default: "+control.DefaultPath()+")")
	registerTimerFlags(root)

	root.AddCommand(
		initCmd(),
		pauseCmd(),
		stopCmd(),
	)

	return root
}

// printError reports a fatal error; a trapped panic also gets its stack.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "pomo: %v\n", err)
	var panicErr *event.PanicError
	if errors.As(err, &panicErr) {
		w.Write(panicErr.Stack)
	}
}

func pidPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("pidfile")
	if path == "" {
		return control.DefaultPath()
	}
	return path
}

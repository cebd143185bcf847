package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/pomo/internal/config"
	"github.com/LISSConsulting/pomo/internal/control"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create pomo.toml with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			global, _ := cmd.Flags().GetBool("global")
			dir, err := initDir(global)
			if err != nil {
				return err
			}
			path, err := config.InitFile(dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
	cmd.Flags().Bool("global", false, "write to the user config dir instead of the current directory")
	return cmd
}

func initDir(global bool) (string, error) {
	if global {
		path, err := config.UserPath()
		if err != nil {
			return "", err
		}
		return filepath.Dir(path), nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return dir, nil
}

func pauseCmd() *cobra.Command {
	return controlCmd("pause", "Pause or resume the running timer", control.Pause)
}

func stopCmd() *cobra.Command {
	return controlCmd("stop", "Stop the running timer", control.Stop)
}

func controlCmd(use, short string, action control.Action) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := pidPath(cmd)
			pid, err := control.Send(path, action)
			if errors.Is(err, control.ErrNotRunning) {
				return fmt.Errorf("no running timer found (pidfile %s)", path)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent %s to pomo (pid %d)\n", action, pid)
			return nil
		},
	}
}

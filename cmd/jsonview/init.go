package main

import (
	"fmt"
	"os"

	"jsonview/internal/config"

	"github.com/spf13/cobra"
)

// NewInitCmd creates the command writing the default config file.
func NewInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				var err error
				path, err = config.DefaultPath()
				if err != nil {
					return fmt.Errorf("cannot locate config directory: %w", err)
				}
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := config.SaveConfig(config.New(), path); err != nil {
				return err
			}
			PrintSuccess(cmd.OutOrStdout(), "Wrote "+path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}

package main

import (
	"fmt"

	"jsonview/internal/server"

	"github.com/spf13/cobra"
)

// NewManifestCmd creates the command writing a manifest file.
func NewManifestCmd() *cobra.Command {
	var (
		include []string
		stdout  bool
	)

	cmd := &cobra.Command{
		Use:   "manifest [dir]",
		Short: "Generate the manifest for a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.Server.Dir
			if len(args) > 0 {
				dir = args[0]
			}
			if len(include) > 0 {
				cfg.Server.Include = include
			}

			m, err := server.NewManifest(dir, cfg.Source.Manifest, cfg.Server.Include)
			if err != nil {
				return err
			}

			if stdout {
				data, err := m.Bytes()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			p, err := m.Write()
			if err != nil {
				return err
			}
			names, _ := m.Names()
			PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Wrote %s (%d files)", p, len(names)))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&include, "include", "i", nil, "Glob patterns to include (default from config, *.json)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the manifest instead of writing it")

	return cmd
}

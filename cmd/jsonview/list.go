package main

import (
	"encoding/json"
	"fmt"

	"jsonview/internal/errors"

	"github.com/spf13/cobra"
)

// NewListCmd creates the command printing the manifest.
func NewListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [base]",
		Short: "Print the files listed in the manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(argOrEmpty(args))
			if err != nil {
				return err
			}

			names, err := client.Manifest(cmd.Context())
			if err != nil {
				var le *errors.LoadError
				if errors.As(err, &le) {
					return fmt.Errorf("error loading file list: %s", le.Reason())
				}
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if names == nil {
					names = []string{}
				}
				enc := json.NewEncoder(out)
				return enc.Encode(names)
			}

			if len(names) == 0 {
				PrintInfo(cmd.ErrOrStderr(), "No files found")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list as a JSON array")

	return cmd
}

package main

import (
	"fmt"

	"jsonview/internal/server"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the command hosting a directory.
func NewServeCmd() *cobra.Command {
	var (
		addr    string
		include []string
		noWatch bool
		noCORS  bool
	)

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve a directory of JSON files with a manifest",
		Long: `Serve the files under dir over HTTP. The manifest is read from disk if
present, otherwise generated from the files matching the include patterns.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.Server.Dir = args[0]
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if len(include) > 0 {
				cfg.Server.Include = include
			}
			if noWatch {
				cfg.Server.Watch = false
			}
			if noCORS {
				cfg.Server.CORS = false
			}

			srv, err := server.New(server.ConfigFrom(cfg))
			if err != nil {
				return err
			}

			PrintHeader(cmd.ErrOrStderr(), fmt.Sprintf("Serving %s on %s", srv.Root(), cfg.Server.Addr))
			PrintInfo(cmd.ErrOrStderr(), "Manifest: /"+srv.Manifest().Name())
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config, :8080)")
	cmd.Flags().StringSliceVarP(&include, "include", "i", nil, "Glob patterns for the generated manifest")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not regenerate the manifest on changes")
	cmd.Flags().BoolVar(&noCORS, "no-cors", false, "Do not send CORS headers")

	return cmd
}

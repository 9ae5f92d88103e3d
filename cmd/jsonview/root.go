package main

import (
	"io"
	"os"

	"jsonview/internal/config"
	"jsonview/internal/fetch"
	"jsonview/internal/log"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfgFile string
	baseURL string
	debug   bool
	logJSON bool
	cfg     *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jsonview",
		Short: "Browse, view and download JSON files listed in a manifest",
		Long: `jsonview reads a manifest (a JSON array of file names) from a web
server or a local directory, lists the files, and shows any of them as
pretty-printed JSON. Files can be saved locally from the list or the viewer.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load config
			var configErr error
			if cfgFile != "" {
				cfg, configErr = config.LoadConfigFile(cfgFile)
			} else {
				cfg, configErr = config.LoadConfig()
			}

			if configErr != nil {
				PrintWarning(cmd.ErrOrStderr(), configErr.Error())
				PrintInfo(cmd.ErrOrStderr(), "Using default settings. Run 'jsonview init' to write a config file.")
				cfg = config.New()
			}

			if baseURL != "" {
				cfg.Source.BaseURL = baseURL
			}
			if debug {
				cfg.Log.Debug = true
			}
			if logJSON {
				cfg.Log.JSON = true
			}

			configureLogging(cmd.ErrOrStderr(), false)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/jsonview/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&baseURL, "base", "b", "", "base URL or directory holding the manifest")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON lines")

	// Add subcommands
	rootCmd.AddCommand(NewBrowseCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewShowCmd())
	rootCmd.AddCommand(NewGetCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewManifestCmd())
	rootCmd.AddCommand(NewInitCmd())

	return rootCmd
}

// configureLogging sets up the package logger from cfg. With tui set the
// terminal is never written to: lines go to the log file, or nowhere.
func configureLogging(stderr io.Writer, tui bool) {
	log.SetDebug(cfg.Log.Debug)

	var opts []log.Option
	if cfg.Log.JSON {
		opts = append(opts, log.WithJSON())
	}

	file := cfg.Log.File
	switch {
	case tui && file == "" && cfg.Log.Debug:
		opts = append(opts, log.WithFileOnly("jsonview.log"))
	case tui && file == "":
		opts = append(opts, log.WithOutput(io.Discard))
	case tui:
		opts = append(opts, log.WithFileOnly(file))
	case file != "":
		opts = append(opts, log.WithOutput(stderr), log.WithFile(file))
	default:
		opts = append(opts, log.WithOutput(stderr))
	}

	_ = log.Close()
	log.Configure(opts...)
}

// openSource opens the configured base, with base overriding it when set.
func openSource(base string) (fetch.Source, error) {
	if base != "" {
		cfg.Source.BaseURL = base
	}
	return fetch.NewSource(cfg.Source.BaseURL, cfg.Source.Timeout)
}

func newClient(base string) (*fetch.Client, error) {
	src, err := openSource(base)
	if err != nil {
		return nil, err
	}
	return fetch.NewClient(src, cfg.Source.Manifest, cfg.Viewer.Indent), nil
}

func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// isTerminal reports whether w is a terminal; buffers and pipes are not.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

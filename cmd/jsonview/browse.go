package main

import (
	"fmt"

	"jsonview/internal/browser"
	"jsonview/internal/fetch"
	"jsonview/internal/log"
	"jsonview/internal/tui"
	"jsonview/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// NewBrowseCmd creates the command running the terminal browser.
func NewBrowseCmd() *cobra.Command {
	var (
		noMouse      bool
		revertActive bool
		downloadDir  string
	)

	cmd := &cobra.Command{
		Use:   "browse [base]",
		Short: "Start the terminal browser",
		Long: `Start the terminal browser. The file list comes from the manifest under
base (a URL or a directory); selecting a file shows it as formatted JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("no-mouse") {
				cfg.Viewer.Mouse = !noMouse
			}
			if cmd.Flags().Changed("revert-active") {
				cfg.Viewer.RevertActiveOnError = revertActive
			}
			if downloadDir != "" {
				cfg.Download.Dir = downloadDir
			}

			configureLogging(cmd.ErrOrStderr(), true)

			src, err := openSource(argOrEmpty(args))
			if err != nil {
				return err
			}

			styles.Apply(styles.Colors{
				Primary:  cfg.Theme.Primary,
				Success:  cfg.Theme.Success,
				Error:    cfg.Theme.Error,
				Info:     cfg.Theme.Info,
				Emphasis: cfg.Theme.Emphasis,
				Border:   cfg.Theme.Border,
			})

			ctx := cmd.Context()
			m := tui.New(
				ctx,
				cfg,
				fetch.NewClient(src, cfg.Source.Manifest, cfg.Viewer.Indent),
				browser.NewSession(),
				browser.NewDownloader(src, cfg.Download.Dir, cfg.Download.Collision),
			)

			opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
			if cfg.Viewer.Mouse {
				opts = append(opts, tea.WithMouseCellMotion())
			}

			log.LogWithFields(log.F("base", src.Locate(cfg.Source.Manifest))).Info("Starting browser")
			if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noMouse, "no-mouse", false, "Disable mouse support")
	cmd.Flags().BoolVar(&revertActive, "revert-active", false, "Move the active marker back when a file fails to load")
	cmd.Flags().StringVarP(&downloadDir, "dir", "d", "", "Directory downloads are saved to")

	return cmd
}

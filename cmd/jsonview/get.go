package main

import (
	"fmt"

	"jsonview/internal/browser"
	"jsonview/internal/log"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewGetCmd creates the command downloading files.
func NewGetCmd() *cobra.Command {
	var (
		jobs      int
		dir       string
		collision string
	)

	cmd := &cobra.Command{
		Use:   "get <name>...",
		Short: "Download files from the manifest base",
		Long: `Download one or more files from the base into the download directory.
Each file is saved under the last segment of its name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir != "" {
				cfg.Download.Dir = dir
			}
			if collision != "" {
				cfg.Download.Collision = collision
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if jobs < 1 {
				jobs = 1
			}

			src, err := openSource("")
			if err != nil {
				return err
			}
			d := browser.NewDownloader(src, cfg.Download.Dir, cfg.Download.Collision)

			bar := progressbar.NewOptions(len(args),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("Downloading"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
				progressbar.OptionSetVisibility(isTerminal(cmd.ErrOrStderr())),
			)

			saved := make([]*browser.Saved, len(args))
			failures := make([]error, len(args))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			for i, name := range args {
				i, name := i, name
				g.Go(func() error {
					s, err := d.Download(ctx, name)
					saved[i], failures[i] = s, err
					_ = bar.Add(1)
					return nil
				})
			}
			_ = g.Wait()
			_ = bar.Finish()

			out := cmd.OutOrStdout()
			failed := 0
			for i, name := range args {
				switch {
				case failures[i] != nil:
					failed++
					log.LogWithError(failures[i]).Debug("Download failed")
					PrintError(out, fmt.Sprintf("%s: %v", name, failures[i]))
				case saved[i].Skipped:
					PrintWarning(out, fmt.Sprintf("%s: skipped, %s exists", name, saved[i].Path))
				default:
					PrintSuccess(out, fmt.Sprintf("%s → %s (%s)", name, saved[i].Path, humanize.Bytes(uint64(saved[i].Bytes))))
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d downloads failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "Number of parallel downloads")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Directory to save into (default from config)")
	cmd.Flags().StringVar(&collision, "collision", "", "What to do when the target exists: rename, overwrite or skip")

	return cmd
}

package main

import (
	"fmt"

	"jsonview/internal/document"
	"jsonview/internal/errors"

	"github.com/spf13/cobra"
)

// NewShowCmd creates the command printing one formatted file.
func NewShowCmd() *cobra.Command {
	var (
		highlight bool
		style     string
		indent    int
	)

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print one file as formatted JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("indent") {
				cfg.Viewer.Indent = indent
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if !cmd.Flags().Changed("highlight") {
				highlight = cfg.Viewer.Highlight && isTerminal(cmd.OutOrStdout())
			}
			if style == "" {
				style = cfg.Viewer.Style
			}

			client, err := newClient("")
			if err != nil {
				return err
			}

			doc, err := client.Document(cmd.Context(), args[0])
			if err != nil {
				var le *errors.LoadError
				if errors.As(err, &le) {
					return fmt.Errorf("error loading %s: %s", le.Name(), le.Reason())
				}
				return err
			}

			text := doc.Text
			if highlight {
				if colored, err := document.Highlight(text, style); err == nil {
					text = colored
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&highlight, "highlight", false, "Syntax highlight the output (default: when writing to a terminal)")
	cmd.Flags().StringVar(&style, "style", "", "Chroma style for highlighting")
	cmd.Flags().IntVar(&indent, "indent", 2, "Spaces per indentation level, 0 for compact output")

	return cmd
}

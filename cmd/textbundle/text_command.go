package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newTextCommand(ctx *commandContext) *cobra.Command {
	var setFrom string

	cmd := &cobra.Command{
		Use:   "text <document>",
		Short: "Print or replace the text of a bundle or pack",
		Long: `Print the text of a bundle or pack to stdout.

With --set, the text is replaced by the contents of the given file (or stdin
when the value is "-") and the document is written back in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ctx.loadDocument(args[0])
			if err != nil {
				return wrapf("read document", err)
			}

			if strings.TrimSpace(setFrom) == "" {
				_, err := io.WriteString(cmd.OutOrStdout(), b.Text)
				return err
			}

			data, err := readInput(cmd, setFrom)
			if err != nil {
				return err
			}
			b.Text = string(data)
			if err := ctx.saveDocument(b, args[0]); err != nil {
				return wrapf("write document", err)
			}
			if !ctx.JSONMode() {
				fmt.Fprintf(cmd.OutOrStdout(), "Updated text of %s\n", args[0])
				return nil
			}
			return writeJSON(cmd, map[string]any{"path": args[0], "text_bytes": len(b.Text)})
		},
	}

	cmd.Flags().StringVar(&setFrom, "set", "", `Replace the text with the contents of a file ("-" for stdin)`)
	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"textbundle/internal/logging"
	"textbundle/internal/textbundle"
)

type assetSummary struct {
	Name      string `json:"name"`
	Directory bool   `json:"directory"`
	SizeBytes int64  `json:"size_bytes"`
}

type documentSummary struct {
	Path              string         `json:"path"`
	TextFile          string         `json:"text_file"`
	TextBytes         int            `json:"text_bytes"`
	Version           uint           `json:"version"`
	Type              string         `json:"type"`
	Transient         bool           `json:"transient"`
	CreatorIdentifier string         `json:"creator_identifier,omitempty"`
	Assets            []assetSummary `json:"assets"`
	MetadataKeys      []string       `json:"metadata_keys"`
}

func summarize(path string, b *textbundle.Bundle) documentSummary {
	summary := documentSummary{
		Path:              path,
		TextFile:          b.TextFilename(),
		TextBytes:         len(b.Text),
		Version:           b.Version,
		Type:              b.Type,
		Transient:         b.Transient,
		CreatorIdentifier: b.CreatorIdentifier,
		Assets:            []assetSummary{},
		MetadataKeys:      make([]string, 0, len(b.Metadata)),
	}
	for _, name := range b.AssetNames() {
		node, _ := b.Asset(name)
		summary.Assets = append(summary.Assets, assetSummary{Name: name, Directory: node.IsDir(), SizeBytes: node.Size()})
	}
	for key := range b.Metadata {
		summary.MetadataKeys = append(summary.MetadataKeys, key)
	}
	sort.Strings(summary.MetadataKeys)
	return summary
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info <document>",
		Short: "Show the metadata and assets of a bundle or pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ctx.loadDocument(args[0])
			if err != nil {
				return wrapf("read document", err)
			}
			summary := summarize(args[0], b)
			if ctx.JSONMode() {
				return writeJSON(cmd, summary)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range documentHeader(args[0], colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "Text file:   %s (%s)\n", summary.TextFile, logging.FormatBytes(int64(summary.TextBytes)))
			fmt.Fprintf(out, "Version:     %d\n", summary.Version)
			fmt.Fprintf(out, "Type:        %s\n", summary.Type)
			fmt.Fprintf(out, "Transient:   %s\n", yesNo(summary.Transient))
			if summary.CreatorIdentifier != "" {
				fmt.Fprintf(out, "Creator:     %s\n", summary.CreatorIdentifier)
			}
			if len(summary.MetadataKeys) > 0 {
				fmt.Fprintf(out, "Extra keys:  %d\n", len(summary.MetadataKeys))
			}

			if len(summary.Assets) == 0 {
				fmt.Fprintln(out, "\nNo assets")
				return nil
			}
			fmt.Fprintln(out)
			rows := make([][]string, 0, len(summary.Assets))
			for _, asset := range summary.Assets {
				rows = append(rows, []string{asset.Name, yesNo(asset.Directory), logging.FormatBytes(asset.SizeBytes)})
			}
			fmt.Fprintln(out, renderTable(assetColumns, rows))
			fmt.Fprintf(out, "Total: %d assets\n", len(summary.Assets))
			return nil
		},
	}
}

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"textbundle/internal/filetree"
	"textbundle/internal/logging"
	"textbundle/internal/preflight"
)

func newAssetCommand(ctx *commandContext) *cobra.Command {
	assetCmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage the assets of a bundle or pack",
	}

	assetCmd.AddCommand(newAssetListCommand(ctx))
	assetCmd.AddCommand(newAssetAddCommand(ctx))
	assetCmd.AddCommand(newAssetRemoveCommand(ctx))
	assetCmd.AddCommand(newAssetExtractCommand(ctx))

	return assetCmd
}

func newAssetListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <document>",
		Short: "List assets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ctx.loadDocument(args[0])
			if err != nil {
				return wrapf("read document", err)
			}
			summary := summarize(args[0], b)
			if ctx.JSONMode() {
				return writeJSON(cmd, summary.Assets)
			}
			out := cmd.OutOrStdout()
			if len(summary.Assets) == 0 {
				fmt.Fprintln(out, "No assets")
				return nil
			}
			for _, asset := range summary.Assets {
				fmt.Fprintf(out, "%s\t%s\n", asset.Name, logging.FormatBytes(asset.SizeBytes))
			}
			return nil
		},
	}
}

func newAssetAddCommand(ctx *commandContext) *cobra.Command {
	var dedupe bool

	cmd := &cobra.Command{
		Use:   "add <document> <file>...",
		Short: "Copy files or directories into the assets folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ctx.loadForRewrite(args[0])
			if err != nil {
				return wrapf("read document", err)
			}
			if cmd.Flags().Changed("dedupe") {
				b.PreventAssetDuplication = dedupe
			}

			type addResult struct {
				Source string `json:"source"`
				Name   string `json:"name"`
				Added  bool   `json:"added"`
			}
			results := make([]addResult, 0, len(args)-1)
			for _, src := range args[1:] {
				name, ok, err := b.AddAssetFile(src)
				if err != nil {
					return wrapf("add asset", err)
				}
				results = append(results, addResult{Source: src, Name: name, Added: ok})
			}
			if err := ctx.saveDocument(b, args[0]); err != nil {
				return wrapf("write document", err)
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, results)
			}
			out := cmd.OutOrStdout()
			for _, r := range results {
				if !r.Added {
					fmt.Fprintf(out, "Skipped %s (invalid name or identical asset present)\n", r.Source)
					continue
				}
				fmt.Fprintf(out, "Added %s as assets/%s\n", r.Source, r.Name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dedupe, "dedupe", false, "Reuse an identical existing asset instead of adding a numbered copy")
	return cmd
}

func newAssetRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <document> <name>",
		Short: "Remove an asset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ctx.loadForRewrite(args[0])
			if err != nil {
				return wrapf("read document", err)
			}
			if !b.RemoveAsset(args[1]) {
				return fmt.Errorf("asset %q not found in %s", args[1], args[0])
			}
			if err := ctx.saveDocument(b, args[0]); err != nil {
				return wrapf("write document", err)
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"removed": args[1]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed assets/%s\n", args[1])
			return nil
		},
	}
}

func newAssetExtractCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <document> <name> [dest]",
		Short: "Copy an asset out of the document",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ctx.loadDocument(args[0])
			if err != nil {
				return wrapf("read document", err)
			}
			node, ok := b.Asset(args[1])
			if !ok {
				return fmt.Errorf("asset %q not found in %s", args[1], args[0])
			}
			dest := args[1]
			if len(args) == 3 {
				dest = args[2]
			}
			dest = filepath.Clean(dest)
			if err := preflight.FirstFailure([]preflight.Result{preflight.CheckDestination("Destination", dest)}); err != nil {
				return err
			}
			if err := filetree.Replace(node, dest); err != nil {
				return wrapf("extract asset", err)
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"asset": args[1], "destination": dest, "size_bytes": node.Size()})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Extracted %s to %s (%s)\n", args[1], dest, logging.FormatBytes(node.Size()))
			return nil
		},
	}
}

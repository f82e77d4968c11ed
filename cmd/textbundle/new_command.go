package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newNewCommand(ctx *commandContext) *cobra.Command {
	var textFrom string
	var typeFlag string
	var transient bool
	var assets []string
	var force bool

	cmd := &cobra.Command{
		Use:   "new <path>",
		Short: "Create a bundle directory or pack archive",
		Long: `Create a new document at path. A .textpack path produces a compressed
archive; any other path produces a bundle directory. An existing path is
only replaced when it is an empty directory, a bundle or pack, or --force is
given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.ensureReplaceable(args[0], force); err != nil {
				return err
			}
			b, err := ctx.newBundle()
			if err != nil {
				return err
			}
			if strings.TrimSpace(typeFlag) != "" {
				b.Type = strings.TrimSpace(typeFlag)
			}
			if cmd.Flags().Changed("transient") {
				b.Transient = transient
			}
			if textFrom != "" {
				data, err := readInput(cmd, textFrom)
				if err != nil {
					return err
				}
				b.Text = string(data)
			}

			added := make([]string, 0, len(assets))
			for _, assetPath := range assets {
				name, ok, err := b.AddAssetFile(assetPath)
				if err != nil {
					return wrapf("add asset", err)
				}
				if ok {
					added = append(added, name)
				}
			}

			if err := ctx.saveDocument(b, args[0]); err != nil {
				return wrapf("write document", err)
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"path": args[0], "type": b.Type, "assets": added})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s, %d assets)\n", args[0], b.Type, len(added))
			return nil
		},
	}

	cmd.Flags().StringVar(&textFrom, "text", "", `Initial text file ("-" for stdin)`)
	cmd.Flags().StringVar(&typeFlag, "type", "", "Text type identifier (defaults to bundle.type)")
	cmd.Flags().BoolVar(&transient, "transient", false, "Mark the bundle as transient")
	cmd.Flags().BoolVar(&force, "force", false, "Replace the destination even if it is not a bundle or pack")
	cmd.Flags().StringArrayVarP(&assets, "asset", "a", nil, "File or directory to add as an asset (repeatable)")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"textbundle/internal/textbundle"
)

func newPackCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "pack <bundle> <pack>",
		Short: "Compress a bundle directory into a .textpack archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !textbundle.DefaultConformance().PathIsPack(args[1]) {
				return fmt.Errorf("destination %s does not have a pack extension", args[1])
			}
			return convertDocument(cmd, ctx, args[0], args[1], force, "Packed")
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace the destination even if it is not a pack")
	return cmd
}

func newUnpackCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "unpack <pack> <bundle>",
		Short: "Expand a .textpack archive into a bundle directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !textbundle.DefaultConformance().PathIsPack(args[0]) {
				return fmt.Errorf("source %s does not have a pack extension", args[0])
			}
			if textbundle.DefaultConformance().PathIsPack(args[1]) {
				return fmt.Errorf("destination %s is a pack path", args[1])
			}
			return convertDocument(cmd, ctx, args[0], args[1], force, "Unpacked")
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Replace the destination even if it is not a bundle")
	return cmd
}

func convertDocument(cmd *cobra.Command, ctx *commandContext, src, dest string, force bool, verb string) error {
	if err := ctx.ensureReplaceable(dest, force); err != nil {
		return err
	}
	b, err := ctx.loadForRewrite(src)
	if err != nil {
		return wrapf("read document", err)
	}
	if err := ctx.saveDocument(b, dest); err != nil {
		return wrapf("write document", err)
	}
	if ctx.JSONMode() {
		return writeJSON(cmd, map[string]any{"source": src, "destination": dest, "assets": b.AssetCount()})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s to %s\n", verb, src, dest)
	return nil
}

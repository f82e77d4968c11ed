package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newMetaCommand(ctx *commandContext) *cobra.Command {
	var appID string

	metaCmd := &cobra.Command{
		Use:   "meta",
		Short: "Read and edit application metadata stored in info.json",
	}
	metaCmd.PersistentFlags().StringVar(&appID, "app", "", "Application identifier (defaults to bundle.creator_identifier)")

	metaCmd.AddCommand(newMetaGetCommand(ctx, &appID))
	metaCmd.AddCommand(newMetaSetCommand(ctx, &appID))
	metaCmd.AddCommand(newMetaRemoveCommand(ctx, &appID))

	return metaCmd
}

func newMetaGetCommand(ctx *commandContext, appID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <document> [key]",
		Short: "Print application metadata",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ctx.loadDocument(args[0])
			if err != nil {
				return wrapf("read document", err)
			}
			nested := b.AppMetadata(*appID)
			if len(args) == 2 {
				value, ok := nested[args[1]]
				if !ok {
					return fmt.Errorf("key %q not set", args[1])
				}
				return writeJSON(cmd, value)
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, nested)
			}
			out := cmd.OutOrStdout()
			if len(nested) == 0 {
				fmt.Fprintln(out, "No metadata")
				return nil
			}
			keys := make([]string, 0, len(nested))
			for key := range nested {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				encoded, err := json.Marshal(nested[key])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s = %s\n", key, encoded)
			}
			return nil
		},
	}
}

func newMetaSetCommand(ctx *commandContext, appID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <document> <key> <value>",
		Short: "Set a metadata key",
		Long: `Set a key in the application's metadata object. The value is parsed as
JSON when possible and stored as a string otherwise.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ctx.loadForRewrite(args[0])
			if err != nil {
				return wrapf("read document", err)
			}
			value := parseMetaValue(args[2])
			b.SetAppMetadata(args[1], value, *appID)
			if err := ctx.saveDocument(b, args[0]); err != nil {
				return wrapf("write document", err)
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"key": args[1], "value": value})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[1])
			return nil
		},
	}
}

func newMetaRemoveCommand(ctx *commandContext, appID *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <document> <key>",
		Short: "Remove a metadata key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ctx.loadForRewrite(args[0])
			if err != nil {
				return wrapf("read document", err)
			}
			b.RemoveAppMetadata(args[1], *appID)
			if err := ctx.saveDocument(b, args[0]); err != nil {
				return wrapf("write document", err)
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"removed": args[1]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[1])
			return nil
		},
	}
}

func parseMetaValue(raw string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil || dec.More() {
		return raw
	}
	return value
}

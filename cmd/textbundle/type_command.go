package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"textbundle/internal/textbundle"
	"textbundle/internal/uti"
)

func newTypeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "type <path-or-identifier>",
		Short: "Report whether a path or type identifier denotes a bundle or pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := textbundle.DefaultConformance()
			registry := uti.Default()
			subject := strings.TrimSpace(args[0])

			identifier := subject
			isPath := false
			if ext := filepath.Ext(subject); ext != "" {
				if id, ok := registry.TypeForExtension(ext); ok {
					identifier = id
					isPath = true
				}
			}
			if _, known := registry.Lookup(identifier); !known {
				return fmt.Errorf("unknown type %q", subject)
			}

			bundle := conf.TypeIsBundle(identifier)
			pack := conf.TypeIsPack(identifier)
			if isPath {
				bundle = conf.PathIsBundle(subject)
				pack = conf.PathIsPack(subject)
			}
			extension, _ := registry.PreferredExtension(identifier)

			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{
					"identifier": identifier,
					"extension":  extension,
					"bundle":     bundle,
					"pack":       pack,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Identifier: %s\n", identifier)
			if extension != "" {
				fmt.Fprintf(out, "Extension:  .%s\n", extension)
			}
			fmt.Fprintf(out, "Bundle:     %s\n", yesNo(bundle))
			fmt.Fprintf(out, "Pack:       %s\n", yesNo(pack))
			return nil
		},
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/setlist/internal/presentation/tui"
	"github.com/aretw0/setlist/pkg/forms"
	"github.com/aretw0/setlist/pkg/schema"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newSchemasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "Document the registered forms",
		Long:  `Prints every form with its fields, requiredness and message keys. Output is rendered when stdout is a terminal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			all := forms.All()

			if asJSON {
				out := make(map[string]schema.Description, len(all))
				for _, f := range all {
					out[f.Name] = schema.Describe(f.Schema)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			md := tui.FormsMarkdown(all)
			if cmd.OutOrStdout() == os.Stdout && term.IsTerminal(int(os.Stdout.Fd())) {
				rendered, err := tui.NewRenderer()(md)
				if err == nil {
					md = rendered
				}
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		},
	}
	cmd.Flags().Bool("json", false, "Print the schema descriptions as JSON")
	return cmd
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/setlist/internal/presentation/tui"
	"github.com/aretw0/setlist/pkg/decode"
	"github.com/aretw0/setlist/pkg/forms"
	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <form> [file|-]",
		Short: "Validate a document against a form",
		Long: `Reads a JSON, JSONC or YAML document (chosen by file extension; stdin is read as JSON)
and decodes it with the named form. Prints the decoded value as JSON, or the violations and exits 1.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := loadConfig(cmd); err != nil {
				return err
			}

			f, ok := forms.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown form %q (see 'setlist schemas')", args[0])
			}

			src := "-"
			if len(args) == 2 {
				src = args[1]
			}
			raw, err := readDocument(cmd.InOrStdin(), src)

			var value any
			if err == nil {
				value, err = f.Decode(raw)
			}
			if err != nil {
				de, ok := decode.AsError(err)
				if !ok {
					return err
				}
				tui.PrintViolations(cmd.ErrOrStderr(), f.Name, de.Violations)
				return errRejected
			}

			tui.PrintAccepted(cmd.ErrOrStderr(), f.Name)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(value)
		},
	}
}

func readDocument(stdin io.Reader, src string) (any, error) {
	var (
		data []byte
		err  error
	)
	if src == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}

	switch strings.ToLower(filepath.Ext(src)) {
	case ".yaml", ".yml":
		return decode.ParseYAML(data)
	default:
		return decode.ParseJSON(data)
	}
}

package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/setlist"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of setlist",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "setlist version %s\n", strings.TrimSpace(setlist.Version))
		},
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(*app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fintrack %s\n", Version)
		},
	}
}

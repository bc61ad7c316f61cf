package main

import (
	"github.com/spf13/cobra"
	"github.com/verifield/verifield"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd, verifield.GetVersion())
	},
}

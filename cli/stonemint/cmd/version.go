package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cryptograss/stonemint/internal/debug"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "prints the version and build info",
		Run: func(cmd *cobra.Command, args []string) {
			info := debug.BuildInfo()
			if info == "" {
				info = "unknown"
			}
			consoleWriter.Println(info)
		},
	}
}

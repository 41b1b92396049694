package cmd

import (
	"github.com/spf13/cobra"
)

func newLinkCmd() *cobra.Command {
	config := &chainConfig{}
	cmd := &cobra.Command{
		Use:   "link",
		Short: "prints the block explorer link of the contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Validate(); err != nil {
				return err
			}
			consoleWriter.Println(config.ContractExplorerURL())
			return nil
		},
	}
	addChainFlags(cmd, config)
	return cmd
}

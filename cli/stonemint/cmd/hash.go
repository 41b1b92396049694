package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cryptograss/stonemint/pkg/showminting"
)

func newHashCmd() *cobra.Command {
	var secretsFile string
	var skipBlank bool
	cmd := &cobra.Command{
		Use:   "hash [SECRET...]",
		Short: "prints keccak-256 hashes of rabbit secrets",
		Long:  "prints keccak-256 hashes of rabbit secrets in the order given, the same values the contract receives",
		RunE: func(cmd *cobra.Command, args []string) error {
			secrets := args
			if secretsFile != "" {
				content, err := readFile(secretsFile)
				if err != nil {
					return fmt.Errorf("reading secrets file: %w", err)
				}
				fromFile, err := showminting.ParseSecrets(trimFinalNewline(content), showminting.CollectOptions{SkipBlankLines: skipBlank})
				if err != nil {
					return err
				}
				secrets = append(secrets, fromFile...)
			}
			if len(secrets) == 0 {
				return errors.New("no secrets given")
			}
			for _, h := range showminting.HashSecrets(secrets) {
				consoleWriter.Println(h.Hex())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&secretsFile, secretsFileCmdName, "", "file of rabbit secrets, one per line")
	cmd.Flags().BoolVar(&skipBlank, skipBlankLinesCmdName, false, "ignore blank lines of the secrets file instead of rejecting them")
	return cmd
}
